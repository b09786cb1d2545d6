package scene

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidNodeID is returned when a node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned when two nodes share an ID.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned when an operation names a node that is not
	// in the scene.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownChild is returned by [Scene.Validate] when a relation
	// references a node that does not exist.
	ErrUnknownChild = errors.New("relation references unknown child")

	// ErrOrderViolation is returned by [Scene.Validate] when a relation
	// appears before one of its children. List position is the dependency
	// order, so such a list cannot be relaid out.
	ErrOrderViolation = errors.New("relation precedes its child")

	// ErrCycle is returned when Children edges form a cycle.
	ErrCycle = errors.New("relations form a cycle")

	// ErrOwnershipConflict is returned when a node defines both the intrinsic
	// and the owned value of an axis.
	ErrOwnershipConflict = errors.New("axis is both intrinsic and owned")

	// ErrUndefinedAxis is returned when a leaf has neither an intrinsic nor an
	// owned value on an axis.
	ErrUndefinedAxis = errors.New("axis is neither intrinsic nor owned")

	// ErrDanglingOwner is returned when a claim names a node that is not a
	// relation in the scene.
	ErrDanglingOwner = errors.New("axis owner is not a relation in the scene")
)

// Scene is an immutable ordered list of nodes indexed by ID.
//
// The zero value is an empty scene. Methods that change the node list return
// a new Scene and leave the receiver untouched.
type Scene struct {
	nodes []Node
	index map[string]int
}

// New builds a scene from nodes in list order. Nodes are copied.
// Returns ErrInvalidNodeID or ErrDuplicateNodeID for bad identifiers.
func New(nodes []Node) (*Scene, error) {
	s := &Scene{
		nodes: make([]Node, len(nodes)),
		index: make(map[string]int, len(nodes)),
	}
	for i, n := range nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node %d: %w", i, ErrInvalidNodeID)
		}
		if _, exists := s.index[n.ID]; exists {
			return nil, fmt.Errorf("node %s: %w", n.ID, ErrDuplicateNodeID)
		}
		s.nodes[i] = n.Clone()
		s.index[n.ID] = i
	}
	return s, nil
}

// MustNew is like New but panics on error. Intended for tests and examples.
func MustNew(nodes ...Node) *Scene {
	s, err := New(nodes)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of nodes.
func (s *Scene) Len() int { return len(s.nodes) }

// At returns a copy of the node at position i.
func (s *Scene) At(i int) Node { return s.nodes[i].Clone() }

// Nodes returns copies of all nodes in list order.
func (s *Scene) Nodes() []Node {
	out := make([]Node, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = n.Clone()
	}
	return out
}

// Node returns a copy of the node with the given ID.
func (s *Scene) Node(id string) (Node, bool) {
	i, ok := s.index[id]
	if !ok {
		return Node{}, false
	}
	return s.nodes[i].Clone(), true
}

// Index returns the list position of id, or -1 when absent.
func (s *Scene) Index(id string) int {
	if i, ok := s.index[id]; ok {
		return i
	}
	return -1
}

// Has reports whether the scene contains id.
func (s *Scene) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// IDs returns node IDs in list order.
func (s *Scene) IDs() []string {
	ids := make([]string, len(s.nodes))
	for i, n := range s.nodes {
		ids[i] = n.ID
	}
	return ids
}

// Children returns copies of the node's children in Children order.
// Children that are not in the scene are skipped.
func (s *Scene) Children(id string) []Node {
	i, ok := s.index[id]
	if !ok {
		return nil
	}
	var out []Node
	for _, c := range s.nodes[i].Children {
		if j, ok := s.index[c]; ok {
			out = append(out, s.nodes[j].Clone())
		}
	}
	return out
}

// Replace returns a new scene in which each given node replaces the node
// with the same ID at its current position.
func (s *Scene) Replace(nodes ...Node) (*Scene, error) {
	out := s.clone()
	for _, n := range nodes {
		i, ok := out.index[n.ID]
		if !ok {
			return nil, fmt.Errorf("replace %s: %w", n.ID, ErrUnknownNode)
		}
		out.nodes[i] = n.Clone()
	}
	return out, nil
}

// Append returns a new scene with n added at the end of the list.
func (s *Scene) Append(n Node) (*Scene, error) {
	if n.ID == "" {
		return nil, ErrInvalidNodeID
	}
	if s.Has(n.ID) {
		return nil, fmt.Errorf("append %s: %w", n.ID, ErrDuplicateNodeID)
	}
	out := s.clone()
	out.nodes = append(out.nodes, n.Clone())
	out.index[n.ID] = len(out.nodes) - 1
	return out, nil
}

// Remove returns a new scene without the node. References to the node in
// other nodes' Children are left in place; see engine.Delete for pruning.
func (s *Scene) Remove(id string) (*Scene, error) {
	i, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("remove %s: %w", id, ErrUnknownNode)
	}
	nodes := slices.Delete(s.Nodes(), i, i+1)
	return New(nodes)
}

func (s *Scene) clone() *Scene {
	out := &Scene{
		nodes: slices.Clone(s.nodes),
		index: make(map[string]int, len(s.nodes)),
	}
	for i, n := range out.nodes {
		out.index[n.ID] = i
	}
	return out
}

// Graph builds the dependency graph of the scene.
func (s *Scene) Graph() *Graph {
	g := newGraph()
	for _, n := range s.nodes {
		g.addNode(n.ID)
	}
	for _, n := range s.nodes {
		for _, c := range n.Children {
			g.addEdge(c, n.ID)
		}
	}
	return g
}

// Sorted returns a scene whose list order is a topological order of the
// dependency graph. Nodes keep their relative order wherever the graph allows,
// so an already valid scene is returned unchanged in content.
// Returns ErrCycle when no such order exists.
func (s *Scene) Sorted() (*Scene, error) {
	order, err := s.Graph().TopoOrder()
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, 0, len(order))
	for _, id := range order {
		nodes = append(nodes, s.nodes[s.index[id]])
	}
	return New(nodes)
}

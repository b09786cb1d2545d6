package scene

import (
	"fmt"
	"slices"
)

// Graph is the dependency graph of a scene. Each Children reference becomes a
// directed edge child → relation: the relation depends on the child, so a
// change to the child must be followed by recomputing the relation.
//
// The zero value is not usable - use [Scene.Graph] to build one.
// Graph is not safe for concurrent modification; it is read-only once built.
type Graph struct {
	order      []string
	pos        map[string]int
	dependents map[string][]string // child ID -> relation IDs
	deps       map[string][]string // relation ID -> child IDs
}

func newGraph() *Graph {
	return &Graph{
		pos:        make(map[string]int),
		dependents: make(map[string][]string),
		deps:       make(map[string][]string),
	}
}

func (g *Graph) addNode(id string) {
	g.pos[id] = len(g.order)
	g.order = append(g.order, id)
}

func (g *Graph) addEdge(child, relation string) {
	g.dependents[child] = append(g.dependents[child], relation)
	g.deps[relation] = append(g.deps[relation], child)
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of child → relation edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, d := range g.deps {
		n += len(d)
	}
	return n
}

// Nodes returns node IDs in scene order.
func (g *Graph) Nodes() []string { return slices.Clone(g.order) }

// Dependents returns the relations that reference id directly.
// The returned slice should not be modified.
func (g *Graph) Dependents(id string) []string { return g.dependents[id] }

// Dependencies returns the children referenced by relation id.
// The returned slice should not be modified.
func (g *Graph) Dependencies(id string) []string { return g.deps[id] }

// Affected returns every relation that transitively depends on id, in scene
// order. These are the relations a change to id can reach.
func (g *Graph) Affected(id string) []string {
	seen := map[string]bool{}
	stack := slices.Clone(g.dependents[id])
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		stack = append(stack, g.dependents[cur]...)
	}
	out := make([]string, 0, len(seen))
	for _, n := range g.order {
		if seen[n] {
			out = append(out, n)
		}
	}
	return out
}

// Leaves returns the transitive children of id that have no children of
// their own, in scene order. A node without children returns itself.
func (g *Graph) Leaves(id string) []string {
	seen := map[string]bool{}
	var leaves []string
	var walk func(string)
	walk = func(n string) {
		if seen[n] {
			return
		}
		seen[n] = true
		if len(g.deps[n]) == 0 {
			leaves = append(leaves, n)
			return
		}
		for _, c := range g.deps[n] {
			walk(c)
		}
	}
	walk(id)
	slices.SortFunc(leaves, func(a, b string) int { return g.position(a) - g.position(b) })
	return leaves
}

func (g *Graph) position(id string) int {
	if p, ok := g.pos[id]; ok {
		return p
	}
	return len(g.order)
}

// Validate checks that every edge connects known nodes and that the graph is
// acyclic. Returns ErrUnknownChild or ErrCycle.
//
// Cycle detection runs in O(N+E) time using depth-first search.
func (g *Graph) Validate() error {
	for rel, children := range g.deps {
		for _, c := range children {
			if _, ok := g.pos[c]; !ok {
				return fmt.Errorf("%s -> %s: %w", c, rel, ErrUnknownChild)
			}
		}
	}
	return g.detectCycles()
}

func (g *Graph) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.order))
	var cycleAt string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		for _, next := range g.dependents[id] {
			switch color[next] {
			case white:
				if dfs(next) {
					return true
				}
			case gray:
				cycleAt = next
				return true
			}
		}
		color[id] = black
		return false
	}

	for _, id := range g.order {
		if color[id] == white && dfs(id) {
			return fmt.Errorf("at %s: %w", cycleAt, ErrCycle)
		}
	}
	return nil
}

// TopoOrder returns node IDs such that every child precedes the relations
// that reference it. Among nodes that are ready at the same time the one
// earliest in scene order is emitted first (Kahn's algorithm with a stable
// tie-break). Edges to unknown nodes are ignored. Returns ErrCycle when the
// graph is cyclic.
func (g *Graph) TopoOrder() ([]string, error) {
	indeg := make(map[string]int, len(g.order))
	for _, id := range g.order {
		for _, c := range g.deps[id] {
			if _, ok := g.pos[c]; ok {
				indeg[id]++
			}
		}
	}

	var ready []int
	for _, id := range g.order {
		if indeg[id] == 0 {
			ready = append(ready, g.pos[id])
		}
	}

	out := make([]string, 0, len(g.order))
	for len(ready) > 0 {
		p := ready[0]
		ready = ready[1:]
		id := g.order[p]
		out = append(out, id)
		for _, rel := range g.dependents[id] {
			indeg[rel]--
			if indeg[rel] == 0 {
				rp := g.pos[rel]
				i, _ := slices.BinarySearch(ready, rp)
				ready = slices.Insert(ready, i, rp)
			}
		}
	}

	if len(out) != len(g.order) {
		return nil, ErrCycle
	}
	return out, nil
}

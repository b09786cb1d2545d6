package engine

import (
	"fmt"

	errs "github.com/matzehuels/twofish/pkg/errors"
	"github.com/matzehuels/twofish/pkg/layout"
	"github.com/matzehuels/twofish/pkg/scene"
)

// Result is the outcome of an edit or cascade.
type Result struct {
	// Scene is the updated scene.
	Scene *scene.Scene

	// Positions are the absolute writes for the shape store, one per node,
	// in the order the nodes were first written.
	Positions []layout.Position

	// Removed lists nodes deleted by the edit.
	Removed []string

	// Diagnostics lists relations the cascade had to skip.
	Diagnostics []Diagnostic
}

// Diagnostic reports a relation skipped during a cascade.
type Diagnostic struct {
	Index      int
	RelationID string
	Kind       scene.Kind
	Err        error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s at %d skipped: %s", d.Kind, d.RelationID, d.Index, errs.UserMessage(d.Err))
}

// Relayout re-runs every relation after indexChanged, in list order.
// indexChanged may be -1 to re-run every relation in the scene.
func Relayout(s *scene.Scene, indexChanged int) (Result, error) {
	if err := checkScene(s); err != nil {
		return Result{}, err
	}
	if indexChanged < -1 || indexChanged >= s.Len() {
		return Result{}, errs.New(errs.ErrCodeInvalidInput, "changed index %d out of range [-1, %d)", indexChanged, s.Len())
	}
	a := newArena(s)
	var w writes
	diags := a.cascade(indexChanged+1, &w)
	return a.result(&w, diags)
}

// checkScene rejects scenes the engine cannot edit safely: a list out of
// dependency order, or a node whose ownership breaks the claim rules.
func checkScene(s *scene.Scene) error {
	if err := s.ValidateOrder(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidOrder, err, "scene is not in dependency order")
	}
	if err := s.ValidateOwnership(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "scene ownership is inconsistent")
	}
	return nil
}

// arena is the mutable working copy of a scene during one edit.
type arena struct {
	nodes []scene.Node
	index map[string]int
}

func newArena(s *scene.Scene) *arena {
	a := &arena{nodes: s.Nodes(), index: make(map[string]int, s.Len())}
	for i, n := range a.nodes {
		a.index[n.ID] = i
	}
	return a
}

func (a *arena) node(id string) (scene.Node, bool) {
	i, ok := a.index[id]
	if !ok {
		return scene.Node{}, false
	}
	return a.nodes[i].Clone(), true
}

func (a *arena) put(n scene.Node) {
	a.nodes[a.index[n.ID]] = n.Clone()
}

func (a *arena) children(rel scene.Node) []scene.Node {
	out := make([]scene.Node, 0, len(rel.Children))
	for _, id := range rel.Children {
		if n, ok := a.node(id); ok {
			out = append(out, n)
		}
	}
	return out
}

// cascade re-runs every relation from position start onward.
func (a *arena) cascade(start int, w *writes) []Diagnostic {
	var diags []Diagnostic
	for i := max(start, 0); i < len(a.nodes); i++ {
		rel := a.nodes[i]
		if !rel.IsRelation() {
			continue
		}
		children := a.children(rel)
		res, err := evaluate(rel, children, options{sorted: true, seed: storedSeed(rel, children)})
		if err != nil {
			diags = append(diags, Diagnostic{Index: i, RelationID: rel.ID, Kind: rel.Kind, Err: err})
			continue
		}
		a.commit(rel, res)
		w.add(res.Positions...)
	}
	return diags
}

// storedSeed returns the coordinate an Align relation keeps in its
// parameters. Children held on the aligned axis by another relation take
// precedence, so the stored value only applies when no such child exists.
func storedSeed(rel scene.Node, children []scene.Node) scene.Coord {
	if rel.Kind != scene.KindAlign {
		return scene.Coord{}
	}
	seed := alignSeed(rel.Params)
	if !seed.Valid {
		return seed
	}
	axis := rel.Params.Alignment.Axis()
	for _, c := range children {
		if owner := c.Claim(axis).Owner; owner != "" && owner != rel.ID {
			return scene.Coord{}
		}
	}
	return seed
}

// commit stores an operator result: updated children and the relation's
// derived bounds and persisted parameters.
func (a *arena) commit(rel scene.Node, res layout.Result) {
	for _, c := range res.Children {
		a.put(c)
	}
	rel.BBox = res.Bounds.BBox()
	switch rel.Kind {
	case scene.KindAlign:
		axis := res.Alignment.Axis()
		rel.Params.AlignX, rel.Params.AlignY = scene.Coord{}, scene.Coord{}
		if axis == scene.AxisX {
			rel.Params.AlignX = scene.Some(res.Coord)
		} else {
			rel.Params.AlignY = scene.Some(res.Coord)
		}
	case scene.KindStack:
		rel.Params.Alignment = res.Alignment
		rel.Children = res.Order()
	case scene.KindDistribute:
		rel.Children = res.Order()
	}
	a.put(rel)
}

func (a *arena) result(w *writes, diags []Diagnostic) (Result, error) {
	s, err := scene.New(a.nodes)
	if err != nil {
		return Result{}, errs.Wrap(errs.ErrCodeInternal, err, "rebuild scene")
	}
	return Result{Scene: s, Positions: w.list, Diagnostics: diags}, nil
}

type options struct {
	sorted bool
	seed   scene.Coord
}

// evaluate runs the operator for rel over its current children.
func evaluate(rel scene.Node, children []scene.Node, opts options) (layout.Result, error) {
	if rel.Kind.Positional() {
		for _, c := range children {
			if c.IsRelation() {
				return layout.Result{}, errs.New(errs.ErrCodeInvalidInput,
					"%s %s positions shapes only, %s is a %s", rel.Kind, rel.ID, c.ID, c.Kind)
			}
		}
	}
	p := rel.Params
	switch rel.Kind {
	case scene.KindAlign:
		return layout.Align(children, p.Alignment, rel.ID, opts.seed)
	case scene.KindDistribute:
		return layout.Distribute(children, layout.DistributeOptions{
			UID:       rel.ID,
			Direction: p.Direction,
			Spacing:   p.Spacing,
			Sorted:    opts.sorted,
		})
	case scene.KindStack:
		return layout.Stack(children, layout.StackOptions{
			UID:       rel.ID,
			Direction: p.Direction,
			Alignment: p.Alignment,
			Spacing:   p.Spacing,
			Sorted:    opts.sorted,
		})
	case scene.KindBackground:
		return layout.Background(children, rel.ID, p.Padding)
	case scene.KindGroup:
		return layout.Group(children)
	}
	return layout.Result{}, errs.New(errs.ErrCodeUnsupported, "%s is not a relation", rel.Kind)
}

// writes accumulates position writes, merging repeated writes to one node.
type writes struct {
	list []layout.Position
	at   map[string]int
}

func (w *writes) add(ps ...layout.Position) {
	if w.at == nil {
		w.at = make(map[string]int)
	}
	for _, p := range ps {
		i, ok := w.at[p.ID]
		if !ok {
			w.at[p.ID] = len(w.list)
			w.list = append(w.list, p)
			continue
		}
		cur := &w.list[i]
		for _, f := range []struct{ dst, src *scene.Coord }{
			{&cur.X, &p.X}, {&cur.Y, &p.Y}, {&cur.Width, &p.Width}, {&cur.Height, &p.Height},
		} {
			if f.src.Valid {
				*f.dst = *f.src
			}
		}
	}
}

// minChildren is the fewest children a relation of kind needs. A Background
// may back a single node; every other relation needs two.
func minChildren(k scene.Kind) int {
	if k == scene.KindBackground {
		return 1
	}
	return 2
}

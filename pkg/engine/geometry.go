package engine

import (
	"slices"

	errs "github.com/matzehuels/twofish/pkg/errors"
	"github.com/matzehuels/twofish/pkg/scene"
)

// Patch is a geometry change reported by the shape store. Absent fields are
// unchanged.
type Patch struct {
	X      scene.Coord
	Y      scene.Coord
	Width  scene.Coord
	Height scene.Coord
}

// UpdateGeometry applies a shape-store change to a leaf and cascades.
//
// Size changes always apply. A position change applies only on an axis the
// node controls itself; on an owned axis the node is written back to its
// owned position.
func UpdateGeometry(s *scene.Scene, id string, p Patch) (Result, error) {
	if err := checkScene(s); err != nil {
		return Result{}, err
	}
	n, ok := s.Node(id)
	if !ok {
		return Result{}, errs.Wrap(errs.ErrCodeNotFound, scene.ErrUnknownNode, "node %s", id)
	}
	if n.IsRelation() {
		return Result{}, errs.New(errs.ErrCodeInvalidInput, "%s geometry is derived from its children", id)
	}
	for _, f := range []struct {
		name string
		c    scene.Coord
	}{{"x", p.X}, {"y", p.Y}, {"width", p.Width}, {"height", p.Height}} {
		if !f.c.Valid {
			continue
		}
		if err := errs.ValidateFinite(f.name, f.c.Value); err != nil {
			return Result{}, err
		}
	}
	if (p.Width.Valid && p.Width.Value < 0) || (p.Height.Valid && p.Height.Value < 0) {
		return Result{}, errs.New(errs.ErrCodeInvalidNumeric, "%s: size must not be negative", id)
	}

	if p.Width.Valid {
		n.BBox.Width = p.Width
	}
	if p.Height.Valid {
		n.BBox.Height = p.Height
	}
	snapped := false
	for _, ax := range scene.Axes {
		c := p.X
		if ax == scene.AxisY {
			c = p.Y
		}
		if !c.Valid {
			continue
		}
		if n.Free(ax) {
			n.BBox.Set(ax, c)
		} else {
			snapped = true
		}
	}

	a := newArena(s)
	a.put(n)
	var w writes
	if snapped {
		w.add(positionsOf(n)...)
	}
	diags := a.cascade(s.Index(id)+1, &w)
	return a.result(&w, diags)
}

// MoveGroup moves a group so its bounds start at value on axis, translating
// every shape under it by the same delta.
//
// A shape whose axis is owned by a relation moves with its claim, which is
// only possible when every shape under that relation is inside the group.
// Otherwise the move is a contradiction and the scene is left untouched.
func MoveGroup(s *scene.Scene, id string, axis scene.Axis, value float64) (Result, error) {
	if err := checkScene(s); err != nil {
		return Result{}, err
	}
	if err := errs.ValidateFinite(axis.String(), value); err != nil {
		return Result{}, err
	}
	g, ok := s.Node(id)
	if !ok {
		return Result{}, errs.Wrap(errs.ErrCodeNotFound, scene.ErrUnknownNode, "group %s", id)
	}
	if g.Kind != scene.KindGroup {
		return Result{}, errs.New(errs.ErrCodeInvalidInput, "%s is a %s, not a Group", id, g.Kind)
	}

	a := newArena(s)
	current := g.BBox.At(axis)
	if !current.Valid {
		res, err := evaluate(g, a.children(g), options{sorted: true})
		if err != nil {
			return Result{}, err
		}
		current = scene.Some(res.Bounds.Min(axis))
	}
	delta := value - current.Value
	if delta == 0 {
		return Result{Scene: s}, nil
	}

	graph := s.Graph()
	inGroup := map[string]bool{}
	leaves := graph.Leaves(id)
	for _, l := range leaves {
		inGroup[l] = true
	}

	var w writes
	first := s.Len()
	moved := map[string]bool{}
	for _, l := range leaves {
		n, _ := a.node(l)
		if n.IsRelation() {
			continue
		}
		if n.Free(axis) {
			n.BBox.Set(axis, scene.Some(n.BBox.At(axis).Value+delta))
		} else {
			claim := n.Claim(axis)
			outside := slices.IndexFunc(graph.Leaves(claim.Owner), func(o string) bool { return !inGroup[o] })
			if outside >= 0 {
				return Result{}, errs.New(errs.ErrCodeContradictoryConstraint,
					"%s is held on %s by %s, which also positions shapes outside group %s", l, axis, claim.Owner, id)
			}
			n.Owned.Set(axis, scene.Claim{Owner: claim.Owner, Value: claim.Value + delta})
			moved[claim.Owner] = true
		}
		a.put(n)
		w.add(positionsOf(n)...)
		first = min(first, a.index[l])
	}
	// Aligns that moved with the group keep their coordinate relative to it.
	for owner := range moved {
		r, _ := a.node(owner)
		if r.Kind != scene.KindAlign || r.Params.Alignment.Axis() != axis {
			continue
		}
		if axis == scene.AxisX && r.Params.AlignX.Valid {
			r.Params.AlignX.Value += delta
		} else if axis == scene.AxisY && r.Params.AlignY.Valid {
			r.Params.AlignY.Value += delta
		}
		a.put(r)
	}
	diags := a.cascade(first+1, &w)
	return a.result(&w, diags)
}

package engine

import (
	"math"

	errs "github.com/matzehuels/twofish/pkg/errors"
	"github.com/matzehuels/twofish/pkg/layout"
	"github.com/matzehuels/twofish/pkg/scene"
)

// AddShape appends a free-standing leaf. Every bbox field must be present and
// finite; the node must not carry claims or children.
func AddShape(s *scene.Scene, n scene.Node) (*scene.Scene, error) {
	if err := errs.ValidateNodeID(n.ID); err != nil {
		return nil, err
	}
	if n.IsRelation() {
		return nil, errs.New(errs.ErrCodeInvalidInput, "%s: use Apply to create %s relations", n.ID, n.Kind)
	}
	if _, ok := scene.ParseKind(string(n.Kind)); !ok {
		return nil, errs.New(errs.ErrCodeInvalidInput, "%s: unknown kind %q", n.ID, n.Kind)
	}
	if len(n.Children) > 0 || n.Owned != (scene.Owned{}) {
		return nil, errs.New(errs.ErrCodeInvalidInput, "%s: new shapes must be free-standing", n.ID)
	}
	if err := validateBBox(n.ID, n.BBox); err != nil {
		return nil, err
	}
	out, err := s.Append(n)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "add %s", n.ID)
	}
	return out, nil
}

func validateBBox(id string, b scene.BBox) error {
	for _, f := range []struct {
		name string
		c    scene.Coord
	}{{"x", b.X}, {"y", b.Y}, {"width", b.Width}, {"height", b.Height}} {
		if !f.c.Valid {
			return errs.New(errs.ErrCodeInvalidInput, "%s: %s is required", id, f.name)
		}
		if err := errs.ValidateFinite(f.name, f.c.Value); err != nil {
			return err
		}
	}
	if b.Width.Value < 0 || b.Height.Value < 0 {
		return errs.New(errs.ErrCodeInvalidNumeric, "%s: size must not be negative", id)
	}
	return nil
}

// Request describes a relation to create.
type Request struct {
	Kind     scene.Kind
	ID       string // generated with NewRelationID when empty
	Children []string
	Params   scene.Params
}

// Apply creates a relation over existing nodes and appends it to the scene.
//
// Align, Distribute and Stack position shapes only; Background and Group
// accept any node, including other relations. Distribute and Stack store
// their children in placement order, Stack stores the alignment and spacing
// it settled on, and Align stores the resolved coordinate. For Align, a
// coordinate in Params.AlignX or AlignY seeds the resolver.
func Apply(s *scene.Scene, req Request) (Result, error) {
	if err := checkScene(s); err != nil {
		return Result{}, err
	}
	if !req.Kind.IsRelation() {
		return Result{}, errs.New(errs.ErrCodeInvalidInput, "%q is not a relation kind", req.Kind)
	}
	if req.ID == "" {
		req.ID = NewRelationID()
	}
	if err := errs.ValidateNodeID(req.ID); err != nil {
		return Result{}, err
	}
	if s.Has(req.ID) {
		return Result{}, errs.Wrap(errs.ErrCodeInvalidInput, scene.ErrDuplicateNodeID, "relation %s", req.ID)
	}
	if err := validateParams(req.Kind, req.Params); err != nil {
		return Result{}, err
	}
	if n := minChildren(req.Kind); len(req.Children) < n {
		return Result{}, errs.New(errs.ErrCodeUnderdetermined, "%s needs at least %d children, got %d", req.Kind, n, len(req.Children))
	}
	seen := make(map[string]bool, len(req.Children))
	for _, id := range req.Children {
		if !s.Has(id) {
			return Result{}, errs.Wrap(errs.ErrCodeNotFound, scene.ErrUnknownNode, "child %s", id)
		}
		if seen[id] {
			return Result{}, errs.New(errs.ErrCodeInvalidInput, "child %s listed twice", id)
		}
		seen[id] = true
	}

	rel := scene.Node{ID: req.ID, Kind: req.Kind, Children: req.Children, Params: req.Params}
	a := newArena(s)
	res, err := evaluate(rel, a.children(rel), options{seed: alignSeed(rel.Params)})
	if err != nil {
		return Result{}, err
	}
	if req.Kind == scene.KindStack {
		rel.Params.Spacing = scene.Some(res.Spacing)
	}

	a.nodes = append(a.nodes, rel)
	a.index[rel.ID] = len(a.nodes) - 1
	a.commit(rel, res)

	var w writes
	w.add(res.Positions...)
	return a.result(&w, nil)
}

func alignSeed(p scene.Params) scene.Coord {
	if !p.Alignment.Valid() {
		return scene.Coord{}
	}
	return p.AlignAt(p.Alignment.Axis())
}

func validateParams(k scene.Kind, p scene.Params) error {
	switch k {
	case scene.KindAlign:
		if !p.Alignment.Valid() {
			return errs.New(errs.ErrCodeInvalidInput, "unknown alignment %q", p.Alignment)
		}
	case scene.KindStack, scene.KindDistribute:
		if _, ok := scene.ParseDirection(string(p.Direction)); !ok {
			return errs.New(errs.ErrCodeInvalidInput, "unknown direction %q", p.Direction)
		}
		if p.Alignment != "" && (k == scene.KindDistribute || !p.Alignment.Valid() || p.Alignment.Axis() == p.Direction.Axis()) {
			return errs.New(errs.ErrCodeInvalidInput, "alignment %q does not apply to a %s %s", p.Alignment, p.Direction, k)
		}
	}
	for _, c := range []struct {
		name string
		v    scene.Coord
	}{{"spacing", p.Spacing}, {"x", p.AlignX}, {"y", p.AlignY}} {
		if c.v.Valid {
			if err := errs.ValidateFinite(c.name, c.v.Value); err != nil {
				return err
			}
		}
	}
	if math.IsNaN(p.Padding) || math.IsInf(p.Padding, 0) {
		return errs.New(errs.ErrCodeInvalidNumeric, "padding must be a finite number")
	}
	return nil
}

// ParamsEdit is a change to a relation's parameters. Nil fields are left
// unchanged.
type ParamsEdit struct {
	Alignment *scene.Alignment
	Direction *scene.Direction
	Spacing   *scene.Coord // an absent Coord switches to inferred spacing
	Padding   *float64
	AlignX    *float64
	AlignY    *float64
}

// EditParams changes a relation's parameters, re-runs it, and cascades.
//
// Changing an Align relation's mode discards its stored coordinate. Setting
// AlignX or AlignY seeds the resolver with a coordinate on the aligned axis.
// Changing a Stack's direction re-picks its alignment unless one is given.
// When the relation cannot be satisfied the scene is left untouched.
func EditParams(s *scene.Scene, id string, edit ParamsEdit) (Result, error) {
	if err := checkScene(s); err != nil {
		return Result{}, err
	}
	rel, ok := s.Node(id)
	if !ok {
		return Result{}, errs.Wrap(errs.ErrCodeNotFound, scene.ErrUnknownNode, "relation %s", id)
	}
	if !rel.IsRelation() {
		return Result{}, errs.New(errs.ErrCodeInvalidInput, "%s is a %s, not a relation", id, rel.Kind)
	}

	p := rel.Params
	var seed scene.Coord
	switch rel.Kind {
	case scene.KindAlign:
		if edit.Direction != nil || edit.Spacing != nil || edit.Padding != nil {
			return Result{}, errs.New(errs.ErrCodeInvalidInput, "align relations take alignment, x and y")
		}
		if edit.Alignment != nil && *edit.Alignment != p.Alignment {
			p.Alignment = *edit.Alignment
			p.AlignX, p.AlignY = scene.Coord{}, scene.Coord{}
		}
		for _, c := range []struct {
			axis scene.Axis
			v    *float64
		}{{scene.AxisX, edit.AlignX}, {scene.AxisY, edit.AlignY}} {
			if c.v == nil {
				continue
			}
			if p.Alignment.Axis() != c.axis {
				return Result{}, errs.New(errs.ErrCodeInvalidInput, "%s alignment does not constrain %s", p.Alignment, c.axis)
			}
			seed = scene.Some(*c.v)
		}
	case scene.KindStack, scene.KindDistribute:
		if edit.Padding != nil || edit.AlignX != nil || edit.AlignY != nil {
			return Result{}, errs.New(errs.ErrCodeInvalidInput, "%s relations take direction, alignment and spacing", rel.Kind)
		}
		if edit.Direction != nil && *edit.Direction != p.Direction {
			p.Direction = *edit.Direction
			p.Alignment = ""
		}
		if edit.Alignment != nil {
			p.Alignment = *edit.Alignment
		}
		if edit.Spacing != nil {
			p.Spacing = *edit.Spacing
		}
	case scene.KindBackground:
		if edit.Padding == nil || edit.Alignment != nil || edit.Direction != nil || edit.Spacing != nil || edit.AlignX != nil || edit.AlignY != nil {
			return Result{}, errs.New(errs.ErrCodeInvalidInput, "background relations take padding only")
		}
		p.Padding = *edit.Padding
	default:
		return Result{}, errs.New(errs.ErrCodeUnsupported, "%s relations have no parameters", rel.Kind)
	}
	if seed.Valid {
		if err := errs.ValidateFinite("align", seed.Value); err != nil {
			return Result{}, err
		}
	}
	if err := validateParams(rel.Kind, p); err != nil {
		return Result{}, err
	}
	rel.Params = p

	a := newArena(s)
	children := a.children(rel)
	if !seed.Valid {
		seed = storedSeed(rel, children)
	}
	res, err := evaluate(rel, children, options{sorted: true, seed: seed})
	if err != nil {
		return Result{}, err
	}
	if rel.Kind == scene.KindStack && !p.Spacing.Valid {
		rel.Params.Spacing = scene.Some(res.Spacing)
	}
	a.commit(rel, res)

	var w writes
	w.add(res.Positions...)
	diags := a.cascade(s.Index(id)+1, &w)
	return a.result(&w, diags)
}

// positionsOf returns the writes placing each node at its effective position.
func positionsOf(nodes ...scene.Node) []layout.Position {
	out := make([]layout.Position, len(nodes))
	for i, n := range nodes {
		out[i] = layout.PositionOf(n)
	}
	return out
}

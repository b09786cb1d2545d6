package layout

import (
	"math"

	errs "github.com/matzehuels/twofish/pkg/errors"
	"github.com/matzehuels/twofish/pkg/scene"
)

// Bounds returns the union of the children's effective geometry: the
// intrinsic value of each axis if present, otherwise the owned value.
func Bounds(children []scene.Node) (scene.Rect, error) {
	if len(children) == 0 {
		return scene.Rect{}, errs.New(errs.ErrCodeUnderdetermined, "no children to bound")
	}
	var out scene.Rect
	for i, c := range children {
		r, ok := c.Rect()
		if !ok {
			return scene.Rect{}, errs.New(errs.ErrCodeUnderdetermined, "%s has no resolved position", c.ID)
		}
		if i == 0 {
			out = r
			continue
		}
		out = out.Union(r)
	}
	return out, nil
}

// Background computes the bounds of the children inflated by padding on
// every side, and the write that places the backing shape id there.
// Child ownership is not changed.
func Background(children []scene.Node, id string, padding float64) (Result, error) {
	if math.IsNaN(padding) || math.IsInf(padding, 0) {
		return Result{}, errs.New(errs.ErrCodeInvalidNumeric, "padding must be a finite number")
	}
	bounds, err := Bounds(children)
	if err != nil {
		return Result{}, err
	}
	bounds = bounds.Inflate(padding)
	return Result{
		Children: clone(children),
		Bounds:   bounds,
		Positions: []Position{{
			ID:     id,
			X:      scene.Some(bounds.X),
			Y:      scene.Some(bounds.Y),
			Width:  scene.Some(bounds.Width),
			Height: scene.Some(bounds.Height),
		}},
	}, nil
}

// Group computes the bounds of the children. It produces no writes.
//
// A group needs at least two children; a single node is already its own
// bounds.
func Group(children []scene.Node) (Result, error) {
	if len(children) < 2 {
		return Result{}, errs.New(errs.ErrCodeUnderdetermined, "group needs at least 2 children, got %d", len(children))
	}
	bounds, err := Bounds(children)
	if err != nil {
		return Result{}, err
	}
	return Result{Children: clone(children), Bounds: bounds}, nil
}

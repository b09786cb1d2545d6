package layout

import (
	errs "github.com/matzehuels/twofish/pkg/errors"
	"github.com/matzehuels/twofish/pkg/scene"
)

// Align aligns children on the axis selected by mode on behalf of relation
// uid.
//
// Axes already owned by uid are released first. The coordinate is resolved
// with [ResolveAxis] (seed is forwarded) and every child whose axis is then
// free is claimed by uid at the position that puts its edge or center on the
// coordinate. Children owned by other relations keep their claims.
func Align(children []scene.Node, mode scene.Alignment, uid string, seed scene.Coord) (Result, error) {
	if uid == "" {
		return Result{}, errs.New(errs.ErrCodeInvalidInput, "relation id is required")
	}
	if len(children) < 2 {
		return Result{}, errs.New(errs.ErrCodeUnderdetermined, "align %s needs at least 2 children, got %d", uid, len(children))
	}

	out := release(children, uid)
	coord, err := ResolveAxis(out, mode, seed)
	if err != nil {
		return Result{}, err
	}

	axis := mode.Axis()
	for i := range out {
		if out[i].Free(axis) {
			out[i].Assign(axis, uid, mode.Place(coord, out[i].Size(axis)))
		}
	}

	bounds, err := Bounds(out)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Children:  out,
		Positions: ownedWrites(out, uid),
		Bounds:    bounds,
		Alignment: mode,
		Coord:     coord,
	}, nil
}

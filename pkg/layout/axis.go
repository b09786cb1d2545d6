package layout

import (
	"math"

	errs "github.com/matzehuels/twofish/pkg/errors"
	"github.com/matzehuels/twofish/pkg/scene"
)

// ResolveAxis returns the coordinate that the edge or center selected by mode
// must occupy for every child.
//
// Children whose axis is already claimed are committed: each implies a
// coordinate from its owned value and size, and all of them (and seed, when
// present) must agree. Committed children take precedence; free children are
// only consulted when nothing is committed and no seed is given, in which
// case the coordinate is folded from their bboxes (minimum for left and top,
// maximum trailing edge for right and bottom, midpoint of the extent for the
// centers).
//
// Two coordinates agree when they are within a relative tolerance of 1e-9,
// so values that differ only by floating-point rounding are not reported as
// a contradiction.
//
// Returns an error with code CONTRADICTORY_CONSTRAINT when two commitments
// disagree, UNDERDETERMINED_RELATION when there is nothing to resolve from,
// and INVALID_INPUT for an unknown mode.
func ResolveAxis(children []scene.Node, mode scene.Alignment, seed scene.Coord) (float64, error) {
	if !mode.Valid() {
		return 0, errs.New(errs.ErrCodeInvalidInput, "unknown alignment %q", mode)
	}
	axis := mode.Axis()

	coord := seed
	committed := 0
	var from string
	if seed.Valid {
		from = "requested " + axis.String()
	}
	for _, c := range children {
		if c.Free(axis) {
			continue
		}
		claim := c.Claim(axis)
		if !claim.Held() {
			return 0, errs.New(errs.ErrCodeUnderdetermined, "%s has no position on %s", c.ID, axis)
		}
		implied := mode.Anchor(claim.Value, c.Size(axis))
		if coord.Valid && !agree(coord.Value, implied) {
			return 0, errs.New(errs.ErrCodeContradictoryConstraint,
				"%s %s: %s implies %g, %s implies %g", mode, axis, from, coord.Value, c.ID, implied)
		}
		if !coord.Valid {
			coord = scene.Some(implied)
			from = c.ID
		}
		committed++
	}
	if committed > 0 || coord.Valid {
		return coord.Value, nil
	}
	if len(children) == 0 {
		return 0, errs.New(errs.ErrCodeUnderdetermined, "no children to align")
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range children {
		pos := c.BBox.At(axis).Value
		lo = math.Min(lo, pos)
		hi = math.Max(hi, pos+c.Size(axis))
	}
	switch mode {
	case scene.AlignLeft, scene.AlignTop:
		return lo, nil
	case scene.AlignRight, scene.AlignBottom:
		return hi, nil
	default:
		return (lo + hi) / 2, nil
	}
}

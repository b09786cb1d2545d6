package layout

import (
	"slices"

	errs "github.com/matzehuels/twofish/pkg/errors"
	"github.com/matzehuels/twofish/pkg/scene"
)

// DistributeOptions configures [Distribute].
type DistributeOptions struct {
	// UID is the relation that owns the result.
	UID string

	// Direction selects the primary axis.
	Direction scene.Direction

	// Spacing is the gap between consecutive children. When absent it is
	// inferred from the first and last child positions.
	Spacing scene.Coord

	// Sorted keeps the input order instead of sorting by position.
	Sorted bool
}

// Distribute spaces children evenly along the primary axis.
//
// Children are ordered by their current position on the axis unless
// opts.Sorted is set. Children whose axis is owned by another relation are
// anchors and stay where they are:
//
//   - With no anchor the walk starts at the first child.
//   - With one anchor the start is walked back from it through the sizes of
//     the preceding children.
//   - With two or more anchors the spacing is derived from the first two and
//     every anchor must lie on the resulting walk.
//
// Claims held by opts.UID are released on both axes first, so a change of
// direction hands the old axis back to the children. Positions are compared
// with a relative tolerance of 1e-9 rather than exactly.
//
// Returns CONTRADICTORY_CONSTRAINT when the anchors disagree with each other
// or with an explicit spacing.
func Distribute(children []scene.Node, opts DistributeOptions) (Result, error) {
	return distribute(release(children, opts.UID), opts)
}

// distribute places children along the primary axis, releasing only that
// axis. Stack calls it directly to keep its secondary-axis claims.
func distribute(children []scene.Node, opts DistributeOptions) (Result, error) {
	if opts.UID == "" {
		return Result{}, errs.New(errs.ErrCodeInvalidInput, "relation id is required")
	}
	if _, ok := scene.ParseDirection(string(opts.Direction)); !ok {
		return Result{}, errs.New(errs.ErrCodeInvalidInput, "unknown direction %q", opts.Direction)
	}
	if len(children) < 2 {
		return Result{}, errs.New(errs.ErrCodeUnderdetermined, "distribute %s needs at least 2 children, got %d", opts.UID, len(children))
	}
	axis := opts.Direction.Axis()

	out := clone(children)
	for i := range out {
		if out[i].Claim(axis).Owner == opts.UID {
			out[i].ReleaseAxis(axis)
		}
	}

	pos := func(n scene.Node) float64 {
		v, _ := n.Effective(axis)
		return v
	}
	for _, c := range out {
		if _, ok := c.Effective(axis); !ok {
			return Result{}, errs.New(errs.ErrCodeUnderdetermined, "%s has no position on %s", c.ID, axis)
		}
	}
	if !opts.Sorted {
		slices.SortStableFunc(out, func(a, b scene.Node) int {
			pa, pb := pos(a), pos(b)
			switch {
			case pa < pb:
				return -1
			case pa > pb:
				return 1
			}
			return 0
		})
	}

	n := len(out)
	sizes := make([]float64, n)
	for i, c := range out {
		sizes[i] = c.Size(axis)
	}
	sum := func(from, to int) float64 {
		s := 0.0
		for _, v := range sizes[from:to] {
			s += v
		}
		return s
	}

	var anchors []int
	for i, c := range out {
		if !c.Free(axis) {
			anchors = append(anchors, i)
		}
	}

	spacing := opts.Spacing.Value
	if !opts.Spacing.Valid {
		spacing = (pos(out[n-1]) - sum(0, n-1) - pos(out[0])) / float64(n-1)
	}

	var start float64
	switch len(anchors) {
	case 0:
		start = pos(out[0])
	case 1:
		k := anchors[0]
		start = pos(out[k]) - float64(k)*spacing - sum(0, k)
	default:
		a0, a1 := anchors[0], anchors[1]
		derived := (pos(out[a1]) - pos(out[a0]) - sum(a0, a1)) / float64(a1-a0)
		if opts.Spacing.Valid && !agree(derived, spacing) {
			return Result{}, errs.New(errs.ErrCodeContradictoryConstraint,
				"distribute %s: anchors %s and %s imply spacing %g, requested %g",
				opts.UID, out[a0].ID, out[a1].ID, derived, spacing)
		}
		spacing = derived
		start = pos(out[a0]) - float64(a0)*spacing - sum(0, a0)
	}

	at := start
	for i := range out {
		if out[i].Free(axis) {
			out[i].Assign(axis, opts.UID, at)
		} else if !agree(pos(out[i]), at) {
			return Result{}, errs.New(errs.ErrCodeContradictoryConstraint,
				"distribute %s: anchor %s at %g, spacing %g places it at %g",
				opts.UID, out[i].ID, pos(out[i]), spacing, at)
		}
		at += sizes[i] + spacing
	}

	bounds, err := Bounds(out)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Children:  out,
		Positions: ownedWrites(out, opts.UID),
		Bounds:    bounds,
		Spacing:   spacing,
	}, nil
}

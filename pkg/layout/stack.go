package layout

import (
	errs "github.com/matzehuels/twofish/pkg/errors"
	"github.com/matzehuels/twofish/pkg/scene"
)

// StackOptions configures [Stack].
type StackOptions struct {
	// UID is the relation that owns the result.
	UID string

	// Direction selects the primary axis.
	Direction scene.Direction

	// Alignment fixes the secondary-axis alignment. When empty, center
	// alignment is tried first, then the two edges.
	Alignment scene.Alignment

	// Spacing is the gap between consecutive children; absent infers it.
	Spacing scene.Coord

	// Sorted keeps the input order instead of sorting by position.
	Sorted bool
}

// Stack aligns children on the secondary axis and distributes them along
// the primary axis. The chosen alignment is reported in the result so the
// caller can persist it.
//
// Returns CONTRADICTORY_CONSTRAINT when no candidate alignment can be
// satisfied or the primary axis cannot be distributed.
func Stack(children []scene.Node, opts StackOptions) (Result, error) {
	if opts.UID == "" {
		return Result{}, errs.New(errs.ErrCodeInvalidInput, "relation id is required")
	}
	if _, ok := scene.ParseDirection(string(opts.Direction)); !ok {
		return Result{}, errs.New(errs.ErrCodeInvalidInput, "unknown direction %q", opts.Direction)
	}
	if len(children) < 2 {
		return Result{}, errs.New(errs.ErrCodeUnderdetermined, "stack %s needs at least 2 children, got %d", opts.UID, len(children))
	}

	candidates := opts.Direction.Fallbacks()
	if opts.Alignment != "" {
		if !opts.Alignment.Valid() || opts.Alignment.Axis() == opts.Direction.Axis() {
			return Result{}, errs.New(errs.ErrCodeInvalidInput,
				"alignment %q does not apply to a %s stack", opts.Alignment, opts.Direction)
		}
		candidates = []scene.Alignment{opts.Alignment}
	}

	released := release(children, opts.UID)
	var (
		aligned Result
		lastErr error
	)
	for _, mode := range candidates {
		r, err := Align(released, mode, opts.UID, scene.Coord{})
		if err == nil {
			aligned, lastErr = r, nil
			break
		}
		if !errs.Is(err, errs.ErrCodeContradictoryConstraint) {
			return Result{}, err
		}
		lastErr = err
	}
	if lastErr != nil {
		return Result{}, errs.Wrap(errs.ErrCodeContradictoryConstraint, lastErr,
			"stack %s: no secondary alignment can be satisfied", opts.UID)
	}

	distributed, err := distribute(aligned.Children, DistributeOptions{
		UID:       opts.UID,
		Direction: opts.Direction,
		Spacing:   opts.Spacing,
		Sorted:    opts.Sorted,
	})
	if err != nil {
		return Result{}, err
	}

	distributed.Alignment = aligned.Alignment
	distributed.Coord = aligned.Coord
	return distributed, nil
}

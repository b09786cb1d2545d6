// Package layout implements the relation operators of the constraint engine.
//
// # Operators
//
// Each operator takes copies of a relation's children and returns updated
// copies together with the absolute-position writes the external shape store
// must apply:
//
//   - [ResolveAxis] computes the single coordinate a set of children agrees
//     on for an alignment mode, or fails when two committed children disagree.
//   - [Align] wraps the resolver and claims the aligned axis of every free child.
//   - [Distribute] spaces children evenly along one axis, honoring anchors
//     owned by other relations.
//   - [Stack] composes [Align] on the secondary axis with [Distribute] on the
//     primary axis, trying center alignment before the two edges.
//   - [Background] and [Group] aggregate their children's bounds without
//     touching child ownership.
//
// # Release
//
// Positional operators begin by releasing every axis the relation itself
// owns back into the child's intrinsic bbox. A relation therefore never
// blocks itself as "fixed", and running an operator on its own output yields
// the same coordinates.
//
// # Failure
//
// Operators are atomic: on error the input children are untouched and no
// writes are produced. Contradictions carry
// [errors.ErrCodeContradictoryConstraint]; relations with too few resolvable
// children carry [errors.ErrCodeUnderdetermined].
//
// [errors.ErrCodeContradictoryConstraint]: github.com/matzehuels/twofish/pkg/errors
// [errors.ErrCodeUnderdetermined]: github.com/matzehuels/twofish/pkg/errors
package layout

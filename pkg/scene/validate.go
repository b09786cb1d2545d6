package scene

import (
	"errors"
	"fmt"
)

// ValidateOrder checks that the scene's list order is a valid dependency
// order: every child exists, the graph is acyclic, and every relation appears
// after all of its children.
//
// Returns ErrUnknownChild, ErrCycle or ErrOrderViolation.
func (s *Scene) ValidateOrder() error {
	if err := s.Graph().Validate(); err != nil {
		return err
	}
	for i, n := range s.nodes {
		for _, c := range n.Children {
			if j := s.index[c]; j >= i {
				return fmt.Errorf("%s at %d references %s at %d: %w", n.ID, i, c, j, ErrOrderViolation)
			}
		}
	}
	return nil
}

// ValidateOwnership checks the ownership invariants of every node:
//
//  1. A leaf axis is either intrinsic or owned, never both and never neither.
//  2. Every owner is a relation in the scene that lists the node as a child.
//  3. Relation nodes are never owned.
//
// Returns ErrOwnershipConflict, ErrUndefinedAxis or ErrDanglingOwner.
func (s *Scene) ValidateOwnership() error {
	for _, n := range s.nodes {
		for _, a := range Axes {
			claim := n.Owned.At(a)
			if n.IsRelation() {
				if claim.Held() {
					return fmt.Errorf("relation %s axis %s owned by %s: %w", n.ID, a, claim.Owner, ErrOwnershipConflict)
				}
				continue
			}
			intrinsic := n.BBox.At(a).Valid
			switch {
			case intrinsic && claim.Held():
				return fmt.Errorf("%s axis %s: %w", n.ID, a, ErrOwnershipConflict)
			case !intrinsic && !claim.Held():
				return fmt.Errorf("%s axis %s: %w", n.ID, a, ErrUndefinedAxis)
			case claim.Held():
				owner, ok := s.Node(claim.Owner)
				if !ok || !owner.IsRelation() || !owner.HasChild(n.ID) {
					return fmt.Errorf("%s axis %s owner %s: %w", n.ID, a, claim.Owner, ErrDanglingOwner)
				}
			}
		}
	}
	return nil
}

// Validate runs [Scene.ValidateOrder] and [Scene.ValidateOwnership] and
// returns all failures joined.
func (s *Scene) Validate() error {
	return errors.Join(s.ValidateOrder(), s.ValidateOwnership())
}

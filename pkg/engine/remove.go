package engine

import (
	"slices"

	errs "github.com/matzehuels/twofish/pkg/errors"
	"github.com/matzehuels/twofish/pkg/scene"
)

// Detach breaks the link between a relation and one of its children. The
// child's owned coordinates become intrinsic at their current values. A
// relation left with too few children is deleted.
func Detach(s *scene.Scene, relationID, childID string) (Result, error) {
	if err := checkScene(s); err != nil {
		return Result{}, err
	}
	rel, ok := s.Node(relationID)
	if !ok {
		return Result{}, errs.Wrap(errs.ErrCodeNotFound, scene.ErrUnknownNode, "relation %s", relationID)
	}
	if !rel.IsRelation() || !rel.HasChild(childID) {
		return Result{}, errs.New(errs.ErrCodeInvalidInput, "%s is not a child of %s", childID, relationID)
	}

	a := newArena(s)
	child, _ := a.node(childID)
	child.Release(relationID)
	a.put(child)
	rel.Children = slices.DeleteFunc(rel.Children, func(c string) bool { return c == childID })
	a.put(rel)

	removed := a.prune()
	var w writes
	diags := a.cascade(s.Index(childID)+1, &w)
	res, err := a.result(&w, diags)
	res.Removed = removed
	return res, err
}

// Delete removes a node. Relations that reference it drop it from their
// children; relations left with too few children are deleted in turn, and
// every claim held by a deleted relation is released.
func Delete(s *scene.Scene, id string) (Result, error) {
	if err := checkScene(s); err != nil {
		return Result{}, err
	}
	i := s.Index(id)
	if i < 0 {
		return Result{}, errs.Wrap(errs.ErrCodeNotFound, scene.ErrUnknownNode, "node %s", id)
	}

	a := newArena(s)
	a.remove(id)
	removed := append([]string{id}, a.prune()...)

	var w writes
	diags := a.cascade(i, &w)
	res, err := a.result(&w, diags)
	res.Removed = removed
	return res, err
}

// remove drops id from the arena, from every Children list, and releases its
// claims.
func (a *arena) remove(id string) {
	i := a.index[id]
	a.nodes = slices.Delete(a.nodes, i, i+1)
	for j := range a.nodes {
		a.nodes[j].Release(id)
		a.nodes[j].Children = slices.DeleteFunc(a.nodes[j].Children, func(c string) bool { return c == id })
	}
	a.reindex()
}

func (a *arena) reindex() {
	clear(a.index)
	for i, n := range a.nodes {
		a.index[n.ID] = i
	}
}

// prune removes relations with too few children until none remain and
// returns their IDs in removal order.
func (a *arena) prune() []string {
	var removed []string
	for {
		j := slices.IndexFunc(a.nodes, func(n scene.Node) bool {
			return n.IsRelation() && len(n.Children) < minChildren(n.Kind)
		})
		if j < 0 {
			return removed
		}
		id := a.nodes[j].ID
		a.remove(id)
		removed = append(removed, id)
	}
}

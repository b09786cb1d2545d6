package layout

import (
	"math"

	"github.com/matzehuels/twofish/pkg/scene"
)

// tolerance bounds the relative difference under which two coordinates are
// considered equal. Values that are mathematically equal but computed along
// different paths may differ in the last few bits.
const tolerance = 1e-9

func agree(a, b float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= tolerance*scale
}

// Position is an absolute-position write for the external shape store.
// Absent fields are left as they are.
type Position struct {
	ID     string
	X      scene.Coord
	Y      scene.Coord
	Width  scene.Coord
	Height scene.Coord
}

// Result is the output of an operator.
type Result struct {
	// Children holds updated copies of the children. Distribute and Stack
	// return them in placement order; the other operators keep input order.
	Children []scene.Node

	// Positions holds one write per child the relation owns after the call,
	// or the backing shape's geometry for Background.
	Positions []Position

	// Bounds is the union of the children's effective geometry (inflated by
	// the padding for Background).
	Bounds scene.Rect

	// Alignment and Coord report the resolved alignment (Align, Stack).
	Alignment scene.Alignment
	Coord     float64

	// Spacing is the gap between consecutive children (Distribute, Stack).
	Spacing float64
}

// Order returns the IDs of the result's children in order.
func (r Result) Order() []string {
	ids := make([]string, len(r.Children))
	for i, c := range r.Children {
		ids[i] = c.ID
	}
	return ids
}

// PositionOf returns the write that places n at its effective position.
func PositionOf(n scene.Node) Position {
	p := Position{ID: n.ID}
	if x, ok := n.Effective(scene.AxisX); ok {
		p.X = scene.Some(x)
	}
	if y, ok := n.Effective(scene.AxisY); ok {
		p.Y = scene.Some(y)
	}
	return p
}

func clone(children []scene.Node) []scene.Node {
	out := make([]scene.Node, len(children))
	for i, c := range children {
		out[i] = c.Clone()
	}
	return out
}

// ownedWrites returns a write for every child with an axis owned by uid.
func ownedWrites(children []scene.Node, uid string) []Position {
	var out []Position
	for _, c := range children {
		if c.OwnedBy(uid) {
			out = append(out, PositionOf(c))
		}
	}
	return out
}

// release re-homes every axis owned by uid on copies of children.
func release(children []scene.Node, uid string) []scene.Node {
	out := clone(children)
	for i := range out {
		out[i].Release(uid)
	}
	return out
}

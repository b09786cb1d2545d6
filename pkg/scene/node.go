package scene

import (
	"slices"
)

// Kind is the type of a node.
type Kind string

// Leaf kinds mirror shapes in the external shape store.
const (
	KindRect    Kind = "Rect"
	KindEllipse Kind = "Ellipse"
	KindLine    Kind = "Line"
	KindArrow   Kind = "Arrow"
	KindText    Kind = "Text"
	KindOther   Kind = "Other"
)

// Relation kinds derive their geometry from their children.
const (
	KindAlign      Kind = "Align"
	KindDistribute Kind = "Distribute"
	KindStack      Kind = "Stack"
	KindBackground Kind = "Background"
	KindGroup      Kind = "Group"
)

var kinds = map[Kind]bool{
	KindRect: false, KindEllipse: false, KindLine: false, KindArrow: false,
	KindText: false, KindOther: false,
	KindAlign: true, KindDistribute: true, KindStack: true,
	KindBackground: true, KindGroup: true,
}

// ParseKind parses a kind name such as "Rect" or "Stack".
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	_, ok := kinds[k]
	return k, ok
}

// IsRelation reports whether nodes of this kind are relations.
func (k Kind) IsRelation() bool { return kinds[k] }

// Positional reports whether the relation assigns child coordinates
// (Align, Distribute, Stack) rather than aggregating them.
func (k Kind) Positional() bool {
	return k == KindAlign || k == KindDistribute || k == KindStack
}

// Alignment selects which edge or center of each child is aligned.
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenterH Alignment = "center-horizontal"
	AlignRight   Alignment = "right"
	AlignTop     Alignment = "top"
	AlignCenterV Alignment = "center-vertical"
	AlignBottom  Alignment = "bottom"
)

// ParseAlignment parses one of the six alignment modes.
func ParseAlignment(s string) (Alignment, bool) {
	a := Alignment(s)
	return a, a.Valid()
}

// Valid reports whether a is a known alignment mode.
func (a Alignment) Valid() bool {
	switch a {
	case AlignLeft, AlignCenterH, AlignRight, AlignTop, AlignCenterV, AlignBottom:
		return true
	}
	return false
}

// Axis returns the axis whose coordinate the alignment constrains.
func (a Alignment) Axis() Axis {
	switch a {
	case AlignTop, AlignCenterV, AlignBottom:
		return AxisY
	}
	return AxisX
}

// Anchor returns the alignment coordinate of a box at pos with the given size.
func (a Alignment) Anchor(pos, size float64) float64 {
	switch a {
	case AlignCenterH, AlignCenterV:
		return pos + size/2
	case AlignRight, AlignBottom:
		return pos + size
	}
	return pos
}

// Place returns the position that puts a box of the given size on coord.
// It is the inverse of Anchor.
func (a Alignment) Place(coord, size float64) float64 {
	switch a {
	case AlignCenterH, AlignCenterV:
		return coord - size/2
	case AlignRight, AlignBottom:
		return coord - size
	}
	return coord
}

// Direction is the primary axis of a Stack or Distribute relation.
type Direction string

const (
	Horizontal Direction = "horizontal"
	Vertical   Direction = "vertical"
)

// ParseDirection parses "horizontal" or "vertical".
func ParseDirection(s string) (Direction, bool) {
	d := Direction(s)
	return d, d == Horizontal || d == Vertical
}

// Axis returns the primary axis.
func (d Direction) Axis() Axis {
	if d == Vertical {
		return AxisY
	}
	return AxisX
}

// Fallbacks returns the secondary-axis alignments tried by a stack, in order:
// center first, then the two edges.
func (d Direction) Fallbacks() []Alignment {
	if d == Vertical {
		return []Alignment{AlignCenterH, AlignLeft, AlignRight}
	}
	return []Alignment{AlignCenterV, AlignTop, AlignBottom}
}

// Params are the parameters a relation stores about itself.
type Params struct {
	Alignment Alignment // Align, Stack
	Direction Direction // Stack, Distribute
	Spacing   Coord     // Stack, Distribute; absent infers spacing from endpoints
	Padding   float64   // Background
	AlignX    Coord     // Align: resolved coordinate on X
	AlignY    Coord     // Align: resolved coordinate on Y
}

// AlignAt returns the stored alignment coordinate for the axis.
func (p Params) AlignAt(a Axis) Coord {
	if a == AxisY {
		return p.AlignY
	}
	return p.AlignX
}

// Claim is one relation's ownership of one axis of one node.
// The zero value means the axis is not owned.
type Claim struct {
	Owner string
	Value float64
}

// Held reports whether the claim names an owner.
func (c Claim) Held() bool { return c.Owner != "" }

// Owned holds the per-axis claims of a node.
type Owned struct {
	X Claim
	Y Claim
}

// At returns the claim on the axis.
func (o Owned) At(a Axis) Claim {
	if a == AxisY {
		return o.Y
	}
	return o.X
}

// Set replaces the claim on the axis.
func (o *Owned) Set(a Axis, c Claim) {
	if a == AxisY {
		o.Y = c
		return
	}
	o.X = c
}

// Node is a record in the scene.
type Node struct {
	ID       string
	Kind     Kind
	BBox     BBox
	Owned    Owned
	Children []string
	Params   Params
}

// IsRelation reports whether the node is a relation.
func (n Node) IsRelation() bool { return n.Kind.IsRelation() }

// Free reports whether the node controls its own position on the axis.
func (n Node) Free(a Axis) bool { return n.BBox.At(a).Valid }

// Claim returns the node's claim on the axis.
func (n Node) Claim(a Axis) Claim { return n.Owned.At(a) }

// Effective returns the node's current position on the axis: the intrinsic
// value if present, otherwise the owned value.
func (n Node) Effective(a Axis) (float64, bool) {
	if c := n.BBox.At(a); c.Valid {
		return c.Value, true
	}
	if c := n.Owned.At(a); c.Held() {
		return c.Value, true
	}
	return 0, false
}

// Size returns the width (X) or height (Y), or 0 when absent.
func (n Node) Size(a Axis) float64 { return n.BBox.Extent(a).Or(0) }

// Rect returns the node's effective geometry. ok is false when a position
// is undefined on either axis.
func (n Node) Rect() (Rect, bool) {
	x, okX := n.Effective(AxisX)
	y, okY := n.Effective(AxisY)
	return Rect{X: x, Y: y, Width: n.Size(AxisX), Height: n.Size(AxisY)}, okX && okY
}

// Assign hands the axis to owner at value and clears the intrinsic value.
func (n *Node) Assign(a Axis, owner string, value float64) {
	n.BBox.Set(a, Coord{})
	n.Owned.Set(a, Claim{Owner: owner, Value: value})
}

// ReleaseAxis moves an owned value back into the intrinsic bbox.
// It reports whether the axis was owned.
func (n *Node) ReleaseAxis(a Axis) bool {
	c := n.Owned.At(a)
	if !c.Held() {
		return false
	}
	n.BBox.Set(a, Some(c.Value))
	n.Owned.Set(a, Claim{})
	return true
}

// Release re-homes every axis owned by owner into the intrinsic bbox.
// Calling Release twice has the same effect as calling it once.
func (n *Node) Release(owner string) bool {
	if owner == "" {
		return false
	}
	changed := false
	for _, a := range Axes {
		if n.Owned.At(a).Owner == owner {
			changed = n.ReleaseAxis(a) || changed
		}
	}
	return changed
}

// OwnedBy reports whether owner holds any axis of the node.
func (n Node) OwnedBy(owner string) bool {
	return n.Owned.X.Owner == owner || n.Owned.Y.Owner == owner
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	n.Children = slices.Clone(n.Children)
	return n
}

// HasChild reports whether id is among the node's children.
func (n Node) HasChild(id string) bool { return slices.Contains(n.Children, id) }

package scene

import (
	"math"
	"strconv"
)

// Axis identifies one of the two position axes.
type Axis int

const (
	// AxisX is the horizontal axis.
	AxisX Axis = iota
	// AxisY is the vertical axis.
	AxisY
)

// Axes lists both axes in iteration order.
var Axes = [2]Axis{AxisX, AxisY}

// String returns "x" or "y".
func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// Other returns the perpendicular axis.
func (a Axis) Other() Axis {
	if a == AxisY {
		return AxisX
	}
	return AxisY
}

// ParseAxis parses "x" or "y".
func ParseAxis(s string) (Axis, bool) {
	switch s {
	case "x", "X":
		return AxisX, true
	case "y", "Y":
		return AxisY, true
	}
	return AxisX, false
}

// Coord is an optional coordinate or extent. The zero value is absent.
type Coord struct {
	Value float64
	Valid bool
}

// Some returns a present coordinate.
func Some(v float64) Coord { return Coord{Value: v, Valid: true} }

// Or returns the value if present, otherwise def.
func (c Coord) Or(def float64) float64 {
	if c.Valid {
		return c.Value
	}
	return def
}

// String formats the coordinate, using "-" when absent.
func (c Coord) String() string {
	if !c.Valid {
		return "-"
	}
	return strconv.FormatFloat(c.Value, 'g', -1, 64)
}

// BBox is the intrinsic geometry of a node.
type BBox struct {
	X      Coord
	Y      Coord
	Width  Coord
	Height Coord
}

// Box returns a fully defined BBox.
func Box(x, y, w, h float64) BBox {
	return BBox{X: Some(x), Y: Some(y), Width: Some(w), Height: Some(h)}
}

// At returns the position on the given axis.
func (b BBox) At(a Axis) Coord {
	if a == AxisY {
		return b.Y
	}
	return b.X
}

// Set replaces the position on the given axis.
func (b *BBox) Set(a Axis, c Coord) {
	if a == AxisY {
		b.Y = c
		return
	}
	b.X = c
}

// Extent returns the width (X) or height (Y).
func (b BBox) Extent(a Axis) Coord {
	if a == AxisY {
		return b.Height
	}
	return b.Width
}

// Rect is a fully resolved rectangle in absolute coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

// Min returns the leading edge on the axis.
func (r Rect) Min(a Axis) float64 {
	if a == AxisY {
		return r.Y
	}
	return r.X
}

// Max returns the trailing edge on the axis.
func (r Rect) Max(a Axis) float64 {
	if a == AxisY {
		return r.Y + r.Height
	}
	return r.X + r.Width
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	x := math.Min(r.X, o.X)
	y := math.Min(r.Y, o.Y)
	x2 := math.Max(r.X+r.Width, o.X+o.Width)
	y2 := math.Max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// Inflate grows the rectangle by pad on every side.
func (r Rect) Inflate(pad float64) Rect {
	return Rect{X: r.X - pad, Y: r.Y - pad, Width: r.Width + 2*pad, Height: r.Height + 2*pad}
}

// Translate moves the rectangle by dx, dy.
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// BBox converts the rectangle to a fully defined BBox.
func (r Rect) BBox() BBox { return Box(r.X, r.Y, r.Width, r.Height) }

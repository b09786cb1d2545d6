// Package script reads scenes written in a small line-oriented text format.
//
// Each line declares one node. Shapes give their geometry, relations name a
// mode and list their children in brackets:
//
//	# two boxes, stacked and backed
//	rect a x=0 y=0 w=20 h=10
//	ellipse b x=30 y=0 w=10 h=10
//	stack s horizontal top spacing=5 [a, b]
//	background bg padding=10 [s]
//	align l left x=0 [a, b]
//	group g [a, b]
//
// Bare words after a relation id set its mode: a direction for stack and
// distribute, an alignment for align and stack. Attributes are key=number
// pairs: x, y, w and h for shapes; spacing, padding, x and y for relations.
//
// [Build] replays the declarations in order through the engine, so every
// relation is solved when it is declared and a contradiction stops the
// build at the offending line.
package script

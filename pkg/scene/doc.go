// Package scene holds the data model of the layout-constraint engine.
//
// # Overview
//
// A scene is an ordered list of [Node] records. Leaf nodes (Rect, Ellipse, Line,
// Arrow, Text, Other) mirror shapes owned by an external shape store. Relation
// nodes (Align, Distribute, Stack, Background, Group) are synthetic: they
// reference other nodes through Children and derive geometry from them.
//
// # Intrinsic vs. Owned Geometry
//
// Every leaf carries two views of its position:
//
//   - [BBox] holds intrinsic values. A valid [Coord] means the node controls
//     that field itself.
//   - [Owned] holds one [Claim] per axis. A held claim names the relation that
//     assigned the coordinate.
//
// For every axis exactly one of the two is defined: either BBox.X is valid or
// Owned.X is held, never both and never neither. [Node.Assign] and
// [Node.Release] are the only transitions between the two states.
//
// # Dependency Order
//
// A relation must appear after every node it references. The [Graph] built
// from Children edges (child → relation) makes this dependency explicit:
// [Scene.Validate] verifies the list is a topological order and
// [Scene.Sorted] repairs a list whose order was broken by an external edit.
//
// # Immutability
//
// A [Scene] is never modified in place. Methods that change the node list
// return a new Scene, so readers of a previous scene (undo stacks, concurrent
// renderers) keep a consistent view.
package scene

// Package io provides JSON import and export for scenes and edit results.
//
// # JSON Format
//
// A scene is a single object with a "nodes" array in dependency order:
//
//	{
//	  "nodes": [
//	    {"id": "A", "type": "Rect", "bbox": {"x": 0, "y": 0, "width": 10, "height": 10}},
//	    {"id": "B", "type": "Rect", "bbox": {"y": 0, "width": 10, "height": 10},
//	     "owned": {"x": 15, "xOwner": "S"}},
//	    {"id": "S", "type": "Stack", "childrenIds": ["A", "B"],
//	     "data": {"direction": "horizontal", "spacing": 5}}
//	  ]
//	}
//
// # Node Fields
//
// Required:
//   - id: unique string identifier
//   - type: Rect, Ellipse, Line, Arrow, Text, Other, Align, Distribute,
//     Stack, Background or Group
//
// Optional:
//   - bbox: intrinsic geometry; an absent x or y means the axis is owned
//   - owned: derived coordinates with their owning relation ("xOwner",
//     "yOwner"); a coordinate and its owner are given together or not at all
//   - childrenIds: the nodes a relation depends on
//   - data: relation parameters (alignment, direction, spacing, padding,
//     alignX, alignY)
//
// # Results
//
// [WriteResult] encodes the outcome of an edit: the updated nodes, the
// absolute writes for the shape store under "positionsToUpdate", removed
// node IDs, and cascade diagnostics with their error codes. [ReadResult]
// decodes it again, which is how results are cached.
//
// # Validation
//
// [ReadJSON] checks identifiers, kinds and the owned pairing. It does not
// check dependency order; use [scene.Scene.ValidateOrder] or
// [scene.Scene.Sorted] for that.
package io

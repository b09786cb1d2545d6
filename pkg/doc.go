// Package pkg provides the libraries behind twofish, a layout-constraint
// engine for diagrams.
//
// # Overview
//
// A scene is an ordered list of shapes and relations. Relations (align,
// distribute, stack, background, group) bind their children and claim the
// axes they position. Every edit produces a new scene and a list of absolute
// position writes for the shape store. The pkg directory is organized as:
//
//  1. [scene] - Immutable scenes, nodes, claims and the dependency graph
//  2. [layout] - The axis resolver and the align, distribute and stack operators
//  3. [engine] - Edits, the relayout cascade and ownership bookkeeping
//  4. [io] - The JSON scene and result formats
//  5. [script] - A line-oriented text format for writing scenes by hand
//  6. [pipeline] - Caching orchestration shared by the CLI and the server
//  7. [render] - Diagram (SVG/PDF) and relation-graph (DOT/SVG/PNG) output
//  8. [cache], [config], [errors], [observability] - Supporting infrastructure
//
// # Architecture
//
// The typical data flow through twofish:
//
//	JSON scene / script
//	         ↓
//	    [io] / [script] (decode)
//	         ↓
//	    [engine] (apply an edit, cascade through later relations)
//	         ↓
//	    [layout] (resolve one relation at a time)
//	         ↓
//	    Scene + position writes / SVG / PDF / DOT
//
// # Quick Start
//
// Stack two shapes and read back the writes:
//
//	s := scene.MustNew(
//	    scene.Node{ID: "a", Kind: scene.KindRect, BBox: scene.Box(0, 0, 20, 10)},
//	    scene.Node{ID: "b", Kind: scene.KindRect, BBox: scene.Box(40, 0, 10, 10)},
//	)
//	res, err := engine.Apply(s, engine.Request{
//	    Kind:     scene.KindStack,
//	    Children: []string{"a", "b"},
//	    Params:   scene.Params{Direction: scene.Horizontal, Spacing: scene.Some(5)},
//	})
//	// res.Positions moves b to x=25; res.Scene holds the new relation.
//
// # Error Handling
//
// Operations return *errors.Error values carrying a code such as
// CONTRADICTORY_CONSTRAINT or NOT_FOUND. A failed edit leaves the input
// scene untouched.
package pkg

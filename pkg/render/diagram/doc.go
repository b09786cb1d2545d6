// Package diagram draws a resolved scene as vector graphics.
//
// Every node is drawn at its effective geometry, meaning the intrinsic
// position where an axis is free and the owned position where a relation
// holds it. Backgrounds are filled backplates painted beneath their
// children, groups are drawn as dashed outlines and the remaining relation
// kinds are not drawn at all.
//
//	svg, err := diagram.Render(s, diagram.Options{Format: diagram.FormatSVG})
//
// Rendering is done with github.com/tdewolff/canvas, so SVG and PDF output
// need no external tools.
package diagram

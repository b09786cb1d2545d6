// Package render turns scenes into pictures.
//
// # Diagrams
//
// The [diagram] subpackage draws the resolved geometry of a scene as SVG or
// PDF: shapes at their effective positions, backgrounds as filled
// backplates and groups as dashed outlines.
//
//	out, err := diagram.Render(s, diagram.Options{Format: diagram.FormatPDF})
//
// # Dependency Graphs
//
// The [nodelink] subpackage renders the child to relation graph that the
// relayout cascade walks, using Graphviz.
//
//	dot := nodelink.ToDOT(s, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// [diagram]: github.com/matzehuels/twofish/pkg/render/diagram
// [nodelink]: github.com/matzehuels/twofish/pkg/render/nodelink
package render

// Package nodelink renders a scene's dependency graph as a node-link diagram.
//
// Every node becomes a Graphviz node and every parent/child link becomes an
// edge from the child to the relation that reads it. This is the graph the
// relayout cascade walks, which makes the diagram useful when a cascade
// skips relations or a scene fails order validation.
//
//	dot := nodelink.ToDOT(s, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// Rendering uses github.com/goccy/go-graphviz, which bundles Graphviz as
// WebAssembly, so no system installation is needed.
package nodelink

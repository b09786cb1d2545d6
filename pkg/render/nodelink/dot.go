package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/twofish/pkg/scene"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes kind, parameters and ownership in node labels.
	// When false, only the node ID is shown.
	Detailed bool
}

// ToDOT converts the scene's dependency graph to Graphviz DOT format.
// Edges point from a child to each relation that lists it, so the drawing
// reads in cascade order from top to bottom.
//
// Leaves are drawn as rounded boxes, relations as filled ellipses.
func ToDOT(s *scene.Scene, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range s.Nodes() {
		label := fmtLabel(n, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, label), ", "))
	}

	buf.WriteString("\n")
	for _, n := range s.Nodes() {
		for _, c := range n.Children {
			fmt.Fprintf(&buf, "  %q -> %q;\n", c, n.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n scene.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}

	parts := []string{string(n.Kind)}
	if n.IsRelation() {
		parts = append(parts, fmtParams(n)...)
	}
	for _, a := range scene.Axes {
		if c := n.Claim(a); c.Held() {
			parts = append(parts, fmt.Sprintf("%s: %s@%s", a, c.Owner, strconv.FormatFloat(c.Value, 'g', -1, 64)))
		}
	}
	return n.ID + "\n" + strings.Join(parts, "\n")
}

func fmtParams(n scene.Node) []string {
	p := n.Params
	var parts []string
	if p.Alignment != "" {
		parts = append(parts, "alignment: "+string(p.Alignment))
	}
	if p.Direction != "" {
		parts = append(parts, "direction: "+string(p.Direction))
	}
	if p.Spacing.Valid {
		parts = append(parts, "spacing: "+p.Spacing.String())
	}
	if n.Kind == scene.KindBackground {
		parts = append(parts, "padding: "+strconv.FormatFloat(p.Padding, 'g', -1, 64))
	}
	return parts
}

func fmtAttrs(n scene.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.Kind == scene.KindGroup || n.Kind == scene.KindBackground:
		attrs = append(attrs, "shape=ellipse", "style=\"filled,dashed\"", "fillcolor=lightgrey")
	case n.IsRelation():
		attrs = append(attrs, "shape=ellipse", "style=filled", "fillcolor=lightblue")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	out, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

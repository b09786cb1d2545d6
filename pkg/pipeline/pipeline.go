// Package pipeline runs engine edits and renders for the CLI and the HTTP
// server.
//
// This package wraps the pure functions of [engine] with the concerns the
// entry points share: a result cache, structured logging of cascade
// diagnostics and observability hooks. By centralizing this logic, the CLI
// and the server report the same things for the same edit.
//
// # Usage
//
// Create a Runner and run an edit:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Relayout(ctx, s, 3)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range res.Positions {
//	    fmt.Println(p.ID, p.X, p.Y)
//	}
//
// Render the result:
//
//	svg, err := runner.Render(ctx, res.Scene, pipeline.RenderOptions{Format: "svg"})
//
// [engine]: github.com/matzehuels/twofish/pkg/engine
package pipeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/twofish/pkg/render/diagram"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// Views select what is rendered.
const (
	// ViewScene draws the shapes at their resolved geometry.
	ViewScene = "scene"
	// ViewGraph draws the child to relation dependency graph.
	ViewGraph = "graph"
)

// Format constants for output formats.
const (
	FormatSVG = "svg"
	FormatPDF = "pdf"
	FormatPNG = "png"
	FormatDOT = "dot"
)

// DefaultScale is the default render scale.
const DefaultScale = 1.0

// validFormats lists the formats each view supports.
var validFormats = map[string]map[string]bool{
	ViewScene: {FormatSVG: true, FormatPDF: true},
	ViewGraph: {FormatSVG: true, FormatPNG: true, FormatDOT: true},
}

// =============================================================================
// Options - Render Configuration
// =============================================================================

// RenderOptions configures [Runner.Render].
// This struct supports JSON serialization for API requests.
type RenderOptions struct {
	View     string  `json:"view,omitempty"`
	Format   string  `json:"format,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Labels   bool    `json:"labels,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
	FontFile string  `json:"-"`
	Refresh  bool    `json:"-"`
}

// ValidateView checks that a view is known.
func ValidateView(view string) error {
	if _, ok := validFormats[view]; !ok {
		return fmt.Errorf("invalid view: %q (must be one of: scene, graph)", view)
	}
	return nil
}

// ValidateFormat checks that a format is supported by the view.
func ValidateFormat(view, format string) error {
	if err := ValidateView(view); err != nil {
		return err
	}
	if !validFormats[view][format] {
		return fmt.Errorf("invalid format for %s view: %q", view, format)
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and checks the options.
// This method is idempotent.
func (o *RenderOptions) ValidateAndSetDefaults() error {
	if o.View == "" {
		o.View = ViewScene
	}
	if o.Format == "" {
		o.Format = FormatSVG
	}
	o.View = strings.ToLower(o.View)
	o.Format = strings.ToLower(o.Format)
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 || math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) {
		return fmt.Errorf("invalid scale: %v", o.Scale)
	}
	return ValidateFormat(o.View, o.Format)
}

func (o RenderOptions) diagramOptions() diagram.Options {
	return diagram.Options{
		Format:   o.Format,
		Scale:    o.Scale,
		Labels:   o.Labels,
		FontFile: o.FontFile,
	}
}

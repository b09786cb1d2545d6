package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/twofish/pkg/pipeline"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		format  string
		output  string
		scale   float64
		labels  bool
		font    string
		refresh bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "Draw a scene as SVG or PDF",
		Long: `Draw a scene's shapes at their resolved positions. Backgrounds are painted
behind their members and groups as dashed outlines. The format defaults to
the extension of --output.`,
		Example: `  twofish render scene.json -o scene.svg
  twofish render diagram.tfs -o diagram.pdf --labels --scale 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = formatFromPath(output, pipeline.FormatSVG)
			}
			return c.render(cmd, args[0], output, noCache, pipeline.RenderOptions{
				View:     pipeline.ViewScene,
				Format:   format,
				Scale:    scale,
				Labels:   labels,
				FontFile: font,
				Refresh:  refresh,
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: svg, pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "scale factor")
	cmd.Flags().BoolVar(&labels, "labels", false, "draw node ids")
	cmd.Flags().StringVar(&font, "font", "", "font file for labels (default system sans-serif)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached output")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

// render loads a scene, renders it through the runner's cache and writes the
// output.
func (c *CLI) render(cmd *cobra.Command, src, output string, noCache bool, opts pipeline.RenderOptions) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	ctx := cmd.Context()
	s, err := loadScene(cmd, src)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	// Stdout may carry the drawing itself, so progress is only shown when
	// writing to a file.
	var act *activity
	if output != "" {
		act = startActivity(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Drawing %s view of %d nodes as %s", opts.View, s.Len(), opts.Format))
	}
	data, hit, err := runner.RenderWithCacheInfo(ctx, s, opts)
	var elapsed time.Duration
	if act != nil {
		elapsed = act.stop()
	}
	if err != nil {
		return err
	}
	c.Logger.Debug("rendered", "view", opts.View, "format", opts.Format, "bytes", len(data), "cached", hit)

	if err := writeOutput(cmd, output, data); err != nil {
		return err
	}
	if output != "" {
		printRenderSummary(s, len(data), elapsed, hit)
	}
	return nil
}

// formatFromPath derives the output format from a file extension.
func formatFromPath(path, def string) string {
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); ext != "" {
		return ext
	}
	return def
}

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/twofish/pkg/errors"
	tfio "github.com/matzehuels/twofish/pkg/io"
	"github.com/matzehuels/twofish/pkg/pipeline"
	"github.com/matzehuels/twofish/pkg/scene"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var (
		fix    bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "validate [scene]",
		Short: "Check a scene's list order and ownership",
		Long: `Check that every relation follows its children, that the graph has no
cycles, and that no axis is both free and owned. With --fix a scene whose
only problem is its order is re-sorted and written out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScene(cmd, args[0])
			if err != nil {
				return err
			}
			if err := s.Validate(); err != nil {
				if !fix || !errors.Is(err, scene.ErrOrderViolation) {
					return err
				}
				if s, err = s.Sorted(); err != nil {
					return err
				}
				if err := s.Validate(); err != nil {
					return err
				}
				var buf bytes.Buffer
				if err := tfio.WriteJSON(s, &buf); err != nil {
					return err
				}
				if err := writeOutput(cmd, output, buf.Bytes()); err != nil {
					return err
				}
				if output == "" {
					return nil
				}
				printWarning("Relations reordered after their children")
			}
			g := s.Graph()
			printSuccess("Scene is valid")
			printDetail("%d nodes · %d edges", g.NodeCount(), g.EdgeCount())
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "repair the list order")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the repaired scene here (default stdout)")
	return cmd
}

// showCommand creates the show command.
func (c *CLI) showCommand() *cobra.Command {
	var node string

	cmd := &cobra.Command{
		Use:   "show [scene]",
		Short: "Print a scene as a table",
		Long: `Print every node in list order. With --node, also list what the node
depends on and which relations an edit to it would re-run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScene(cmd, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sceneTable(s))
			if node == "" {
				return nil
			}
			if !s.Has(node) {
				return errs.Wrap(errs.ErrCodeNotFound, scene.ErrUnknownNode, "node %s", node)
			}
			g := s.Graph()
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n  bound by:  %s\n  depends on: %s\n  affects:   %s\n",
				styleTitle.Render(node),
				listOrDash(g.Dependents(node)),
				listOrDash(g.Dependencies(node)),
				listOrDash(g.Affected(node)))
			return nil
		},
	}

	cmd.Flags().StringVar(&node, "node", "", "show the relations around this node")
	return cmd
}

func listOrDash(ids []string) string {
	if len(ids) == 0 {
		return "—"
	}
	return strings.Join(ids, ", ")
}

// sceneTable renders every node in list order with its geometry, claims and
// relation parameters.
func sceneTable(s *scene.Scene) string {
	rows := make([][]string, 0, s.Len())
	relation := make([]bool, 0, s.Len())
	for _, n := range s.Nodes() {
		rows = append(rows, []string{
			n.ID,
			string(n.Kind),
			n.BBox.X.String(),
			n.BBox.Y.String(),
			n.BBox.Width.String(),
			n.BBox.Height.String(),
			claims(n),
			details(n),
		})
		relation = append(relation, n.IsRelation())
	}

	t := newTable(func(row, col int) lipgloss.Style {
		base := lipgloss.NewStyle().Padding(0, 1)
		if row < len(relation) && relation[row] && col <= 1 {
			return base.Foreground(colorAccent)
		}
		return base
	}, "ID", "Kind", "X", "Y", "W", "H", "Owners", "Details").Rows(rows...)
	return t.Render()
}

func claims(n scene.Node) string {
	var parts []string
	for _, a := range scene.Axes {
		if cl := n.Claim(a); cl.Held() {
			parts = append(parts, fmt.Sprintf("%s: %s", a, cl.Owner))
		}
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, ", ")
}

func details(n scene.Node) string {
	if !n.IsRelation() {
		return "—"
	}
	parts := []string{"[" + strings.Join(n.Children, " ") + "]"}
	p := n.Params
	if p.Alignment != "" {
		parts = append(parts, string(p.Alignment))
	}
	if p.Direction != "" {
		parts = append(parts, string(p.Direction))
	}
	if p.Spacing.Valid {
		parts = append(parts, "spacing "+p.Spacing.String())
	}
	if n.Kind == scene.KindBackground {
		parts = append(parts, fmt.Sprintf("padding %g", p.Padding))
	}
	return strings.Join(parts, " ")
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "graph [scene]",
		Short: "Draw the relation graph of a scene",
		Long: `Draw the node-link graph of a scene: an edge from every child to each
relation that binds it. DOT is written as text; svg and png go through
Graphviz.`,
		Example: `  twofish graph scene.json
  twofish graph scene.json -f svg --detailed -o graph.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.render(cmd, args[0], output, noCache, pipeline.RenderOptions{
				View:     pipeline.ViewGraph,
				Format:   format,
				Detailed: detailed,
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatDOT, "output format: dot, svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label relations with their parameters and claims")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(path)
	return nil
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/twofish/pkg/engine"
	errs "github.com/matzehuels/twofish/pkg/errors"
	"github.com/matzehuels/twofish/pkg/pipeline"
	"github.com/matzehuels/twofish/pkg/scene"
)

// relayoutCommand creates the relayout command.
func (c *CLI) relayoutCommand() *cobra.Command {
	var (
		out   outputFlags
		index int
	)

	cmd := &cobra.Command{
		Use:   "relayout [scene]",
		Short: "Re-run relations after a change",
		Long: `Re-run every relation after --index in list order. With the default
index of -1 the whole scene is laid out again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, args[0], &out, func(ctx context.Context, r *pipeline.Runner, s *scene.Scene) (engine.Result, error) {
				res, hit, err := r.RelayoutWithCacheInfo(ctx, s, index)
				if err == nil {
					loggerFromContext(ctx).Debug("relayout", "cached", hit)
				}
				return res, err
			})
		},
	}

	cmd.Flags().IntVar(&index, "index", -1, "index of the changed node")
	out.register(cmd)
	return cmd
}

// applyCommand creates the apply command.
func (c *CLI) applyCommand() *cobra.Command {
	var (
		out       outputFlags
		kind      string
		id        string
		ids       []string
		alignment string
		direction string
		numbers   numericFlags
	)

	cmd := &cobra.Command{
		Use:   "apply [scene]",
		Short: "Create a relation over existing nodes",
		Long: `Create an align, distribute, stack, background or group relation over
existing nodes. Without --ids an interactive picker lists the scene's nodes.`,
		Example: `  twofish apply scene.json --kind stack --ids a,b,c --spacing 10 -i
  twofish apply scene.json --kind align --ids a,b --alignment left
  twofish apply scene.json --kind background --ids s --padding 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseRelationKind(kind)
			if err != nil {
				return err
			}
			params, err := c.applyParams(cmd.Flags(), k, alignment, direction, &numbers)
			if err != nil {
				return err
			}
			return c.run(cmd, args[0], &out, func(ctx context.Context, r *pipeline.Runner, s *scene.Scene) (engine.Result, error) {
				children := ids
				if len(children) == 0 {
					picked, err := pickNodes(s, fmt.Sprintf("Select %s children", strings.ToLower(string(k))))
					if err != nil {
						return engine.Result{}, err
					}
					children = picked
				}
				return r.Apply(ctx, s, engine.Request{Kind: k, ID: id, Children: children, Params: params})
			})
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "relation kind: align, distribute, stack, background, group")
	cmd.Flags().StringVar(&id, "id", "", "relation id (generated when empty)")
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "child node ids, in order")
	cmd.Flags().StringVar(&alignment, "alignment", "", "alignment mode (align, stack)")
	cmd.Flags().StringVar(&direction, "direction", "", "horizontal or vertical (stack, distribute)")
	numbers.register(cmd, "spacing", "padding", "x", "y")
	out.register(cmd)
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

// applyParams builds relation parameters from flags, falling back to the
// configured defaults for spacing and padding.
func (c *CLI) applyParams(flags *pflag.FlagSet, k scene.Kind, alignment, direction string, n *numericFlags) (scene.Params, error) {
	var p scene.Params
	if alignment != "" {
		a, ok := scene.ParseAlignment(alignment)
		if !ok {
			return p, errs.New(errs.ErrCodeInvalidInput, "unknown alignment %q", alignment)
		}
		p.Alignment = a
	}
	if direction != "" {
		d, ok := scene.ParseDirection(direction)
		if !ok {
			return p, errs.New(errs.ErrCodeInvalidInput, "unknown direction %q", direction)
		}
		p.Direction = d
	}

	vals, err := n.parse(flags)
	if err != nil {
		return p, err
	}
	if v, ok := vals["spacing"]; ok {
		p.Spacing = scene.Some(v)
	} else if def := c.Config.Defaults.Spacing; def != nil && (k == scene.KindStack || k == scene.KindDistribute) {
		p.Spacing = scene.Some(*def)
	}
	if v, ok := vals["padding"]; ok {
		p.Padding = v
	} else if k == scene.KindBackground {
		p.Padding = c.Config.Defaults.Padding
	}
	if v, ok := vals["x"]; ok {
		p.AlignX = scene.Some(v)
	}
	if v, ok := vals["y"]; ok {
		p.AlignY = scene.Some(v)
	}
	return p, nil
}

// editCommand creates the edit command.
func (c *CLI) editCommand() *cobra.Command {
	var (
		out       outputFlags
		alignment string
		direction string
		numbers   numericFlags
	)

	cmd := &cobra.Command{
		Use:   "edit [scene] [relation]",
		Short: "Change a relation's parameters",
		Long: `Change a relation's parameters, re-run it, and cascade. Pass --spacing auto
to infer a stack's or distribution's spacing from its current endpoints.`,
		Example: `  twofish edit scene.json s1 --spacing 20 -i
  twofish edit scene.json a1 --alignment right`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			edit, err := editParams(cmd.Flags(), alignment, direction, &numbers)
			if err != nil {
				return err
			}
			return c.run(cmd, args[0], &out, func(ctx context.Context, r *pipeline.Runner, s *scene.Scene) (engine.Result, error) {
				return r.EditParams(ctx, s, args[1], edit)
			})
		},
	}

	cmd.Flags().StringVar(&alignment, "alignment", "", "new alignment mode")
	cmd.Flags().StringVar(&direction, "direction", "", "new direction")
	numbers.register(cmd, "spacing", "padding", "x", "y")
	out.register(cmd)
	return cmd
}

func editParams(flags *pflag.FlagSet, alignment, direction string, n *numericFlags) (engine.ParamsEdit, error) {
	var edit engine.ParamsEdit
	if alignment != "" {
		a, ok := scene.ParseAlignment(alignment)
		if !ok {
			return edit, errs.New(errs.ErrCodeInvalidInput, "unknown alignment %q", alignment)
		}
		edit.Alignment = &a
	}
	if direction != "" {
		d, ok := scene.ParseDirection(direction)
		if !ok {
			return edit, errs.New(errs.ErrCodeInvalidInput, "unknown direction %q", direction)
		}
		edit.Direction = &d
	}

	if flags.Changed("spacing") && strings.EqualFold(n.raw["spacing"], "auto") {
		edit.Spacing = &scene.Coord{}
		delete(n.raw, "spacing")
	}
	vals, err := n.parse(flags)
	if err != nil {
		return edit, err
	}
	if v, ok := vals["spacing"]; ok {
		sp := scene.Some(v)
		edit.Spacing = &sp
	}
	if v, ok := vals["padding"]; ok {
		edit.Padding = &v
	}
	if v, ok := vals["x"]; ok {
		edit.AlignX = &v
	}
	if v, ok := vals["y"]; ok {
		edit.AlignY = &v
	}
	if edit == (engine.ParamsEdit{}) {
		return edit, errs.New(errs.ErrCodeInvalidInput, "nothing to change")
	}
	return edit, nil
}

// resizeCommand creates the resize command.
func (c *CLI) resizeCommand() *cobra.Command {
	var (
		out     outputFlags
		numbers numericFlags
	)

	cmd := &cobra.Command{
		Use:   "resize [scene] [node]",
		Short: "Report a geometry change for a shape",
		Long: `Apply a geometry change from the shape store to a leaf and cascade.
Size changes always apply; a position change on an owned axis is snapped
back to the owned value.`,
		Example: `  twofish resize scene.json a --width 30 -i`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vals, err := numbers.parse(cmd.Flags())
			if err != nil {
				return err
			}
			if len(vals) == 0 {
				return errs.New(errs.ErrCodeInvalidInput, "nothing to change")
			}
			var p engine.Patch
			for name, dst := range map[string]*scene.Coord{"x": &p.X, "y": &p.Y, "width": &p.Width, "height": &p.Height} {
				if v, ok := vals[name]; ok {
					*dst = scene.Some(v)
				}
			}
			return c.run(cmd, args[0], &out, func(ctx context.Context, r *pipeline.Runner, s *scene.Scene) (engine.Result, error) {
				return r.UpdateGeometry(ctx, s, args[1], p)
			})
		},
	}

	numbers.register(cmd, "x", "y", "width", "height")
	out.register(cmd)
	return cmd
}

// moveCommand creates the move command.
func (c *CLI) moveCommand() *cobra.Command {
	var (
		out   outputFlags
		axis  string
		value string
	)

	cmd := &cobra.Command{
		Use:   "move [scene] [node]",
		Short: "Move a node or group along one axis",
		Example: `  twofish move scene.json g1 --axis x --value 40 -i`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ok := scene.ParseAxis(axis)
			if !ok {
				return errs.New(errs.ErrCodeInvalidInput, "unknown axis %q", axis)
			}
			v, err := errs.ParseFinite("value", value)
			if err != nil {
				return err
			}
			return c.run(cmd, args[0], &out, func(ctx context.Context, r *pipeline.Runner, s *scene.Scene) (engine.Result, error) {
				return r.MoveGroup(ctx, s, args[1], a, v)
			})
		},
	}

	cmd.Flags().StringVar(&axis, "axis", "", "x or y")
	cmd.Flags().StringVar(&value, "value", "", "new coordinate of the node's bounding box")
	out.register(cmd)
	_ = cmd.MarkFlagRequired("axis")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

// detachCommand creates the detach command.
func (c *CLI) detachCommand() *cobra.Command {
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "detach [scene] [relation] [child]",
		Short: "Remove a child from a relation",
		Long: `Remove a child from a relation and release the axes it held. Relations
left with too few children are deleted.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, args[0], &out, func(ctx context.Context, r *pipeline.Runner, s *scene.Scene) (engine.Result, error) {
				return r.Detach(ctx, s, args[1], args[2])
			})
		},
	}

	out.register(cmd)
	return cmd
}

// deleteCommand creates the delete command.
func (c *CLI) deleteCommand() *cobra.Command {
	var out outputFlags

	cmd := &cobra.Command{
		Use:     "delete [scene] [node]",
		Aliases: []string{"rm"},
		Short:   "Delete a node and prune relations that depend on it",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, args[0], &out, func(ctx context.Context, r *pipeline.Runner, s *scene.Scene) (engine.Result, error) {
				return r.Delete(ctx, s, args[1])
			})
		},
	}

	out.register(cmd)
	return cmd
}

// =============================================================================
// Flag Helpers
// =============================================================================

// numericFlags holds coordinate flags as text so that NaN and infinities are
// rejected with the same error the engine reports.
type numericFlags struct {
	names []string
	raw   map[string]string
}

func (n *numericFlags) register(cmd *cobra.Command, names ...string) {
	n.names = names
	n.raw = make(map[string]string, len(names))
	for _, name := range names {
		cmd.Flags().Func(name, "set "+name, func(v string) error {
			n.raw[name] = v
			return nil
		})
	}
}

// parse returns the finite values of the flags that were set.
func (n *numericFlags) parse(flags *pflag.FlagSet) (map[string]float64, error) {
	out := make(map[string]float64, len(n.raw))
	for _, name := range n.names {
		raw, ok := n.raw[name]
		if !ok || !flags.Changed(name) {
			continue
		}
		v, err := errs.ParseFinite(name, raw)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// parseRelationKind accepts a relation kind in any letter case.
func parseRelationKind(s string) (scene.Kind, error) {
	if s != "" {
		k, ok := scene.ParseKind(strings.ToUpper(s[:1]) + strings.ToLower(s[1:]))
		if ok && k.IsRelation() {
			return k, nil
		}
	}
	return "", errs.New(errs.ErrCodeInvalidInput, "unknown relation kind %q", s)
}

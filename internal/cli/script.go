package cli

import (
	"bytes"

	"github.com/spf13/cobra"

	tfio "github.com/matzehuels/twofish/pkg/io"
	"github.com/matzehuels/twofish/pkg/scene"
	"github.com/matzehuels/twofish/pkg/script"
)

// scriptCommand creates the script command.
func (c *CLI) scriptCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "script [file]",
		Short: "Build a scene from a script and write it as JSON",
		Long: `Build a scene from a twofish script. Every statement runs through the
engine in order, so the written scene is fully laid out. Use "-" to read
the script from stdin.`,
		Example: `  twofish script diagram.tfs -o diagram.json

Script syntax:
  rect a x=0 y=0 w=10 h=10
  rect b x=30 y=5 w=10 h=10
  stack s vertical left spacing=8 [a, b]
  background bg padding=4 [s]`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(loggerFromContext(cmd.Context()))
			var (
				s   *scene.Scene
				err error
			)
			if args[0] == stdinPath {
				s, err = script.Read(cmd.InOrStdin())
			} else {
				s, err = script.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			prog.done("Script built")

			var buf bytes.Buffer
			if err := tfio.WriteJSON(s, &buf); err != nil {
				return err
			}
			if err := writeOutput(cmd, output, buf.Bytes()); err != nil {
				return err
			}
			if output != "" {
				printNextStep("Render it", "twofish render "+output+" -o scene.svg")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

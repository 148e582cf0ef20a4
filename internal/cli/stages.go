package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netgrid/pkg/pipeline"
	"github.com/matzehuels/netgrid/pkg/render/nodelink"
	"github.com/matzehuels/netgrid/pkg/stage"
)

// stagesCommand creates the stages command for inspecting stage assignment.
func (c *CLI) stagesCommand() *cobra.Command {
	var (
		output       string
		format       string
		detailed     bool
		hideForwards bool
	)

	cmd := &cobra.Command{
		Use:   "stages [netlist.json]",
		Short: "Draw the stage graph of a netlist",
		Long: `Draw the stage graph of a netlist.

Every column of the graph is one stage: the gates that become ready once the
stages before it are done. Dashed nodes are pass-throughs inserted to carry a
net past a stage that does not read it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != pipeline.FormatDOT && format != pipeline.FormatSVG {
				return fmt.Errorf("invalid format: %q (must be one of: dot, svg)", format)
			}
			return c.runStages(cmd.Context(), args[0], output, format, nodelink.Options{
				Detailed:     detailed,
				HideForwards: hideForwards,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>, - for stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatDOT, "output format: dot, svg")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with their pins")
	cmd.Flags().BoolVar(&hideForwards, "hide-forwards", false, "omit pass-through nodes")

	return cmd
}

func (c *CLI) runStages(ctx context.Context, input, output, format string, opts nodelink.Options) error {
	prog := newProgress(c.Logger)
	raw, err := pipeline.ReadInput(pipeline.Options{Path: input})
	if err != nil {
		return err
	}
	nl, err := pipeline.Load(raw)
	if err != nil {
		return err
	}
	prog.lap("loaded netlist", "circuits", len(nl.Circuits), "outputs", len(nl.Outputs))

	stages, err := stage.Build(nl)
	if err != nil {
		return err
	}
	prog.lap("built stages", "stages", len(stages))

	data := []byte(nodelink.ToDOT(stages, opts))
	if format == pipeline.FormatSVG {
		if data, err = nodelink.RenderSVG(ctx, string(data)); err != nil {
			return err
		}
	}
	prog.done("stage graph ready", "format", format, "bytes", len(data))

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{format: data},
		input:     input,
		output:    output,
		stdout:    os.Stdout,
	})
	if err != nil || output == "-" {
		return err
	}
	printSuccess("Stage graph written")
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

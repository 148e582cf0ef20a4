package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netgrid/pkg/pipeline"
)

// compileFlags holds command-line state that is not part of pipeline.Options.
type compileFlags struct {
	formats string
	output  string
	noCache bool
	stats   bool
}

// compileCommand creates the compile command.
func (c *CLI) compileCommand() *cobra.Command {
	var flags compileFlags
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "compile [netlist.json]",
		Short: "Lay out a Yosys JSON netlist on a grid",
		Long: `Lay out a Yosys JSON netlist on a grid.

The netlist must be mapped to the gate library first, for example:

  yosys -p 'synth; abc -g AND,NAND,OR,NOR,XOR,XNOR,ANDNOT,ORNOT; write_json out.json' in.v

Output formats:
  txt   box-drawing text dump (default)
  lua   Minetest Lua schematic
  mts   Minetest binary schematic
  json  cell rows and compile statistics
  dot   stage graph in Graphviz DOT
  svg   stage graph rendered with Graphviz

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(flags.formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			opts.Path = args[0]
			return c.runCompile(cmd.Context(), opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): txt (default), lua, mts, json, dot, svg (comma-separated)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompile even if cached")
	cmd.Flags().BoolVar(&flags.stats, "stats", false, "print per-channel routing statistics")

	// Router flags
	cmd.Flags().Float64Var(&opts.UtilizationCap, "cap", 0, "fraction of a channel one routing step may claim (default 0.5)")
	cmd.Flags().Float64Var(&opts.EvictionPenalty, "eviction-penalty", 0, "cost per track an evicted net lands outside its span (default 2)")
	cmd.Flags().IntVar(&opts.WidenDivisor, "widen-divisor", 0, "tracks added when a channel is full: pending/N + 1 (default 10)")

	// Layout flags
	cmd.Flags().IntVar(&opts.Padding, "padding", 0, "extra columns after each routing step")
	cmd.Flags().IntVar(&opts.LeadOut, "lead-out", 0, "straight columns on each side of a channel (default 1)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "channels routed in parallel (default GOMAXPROCS)")
	cmd.Flags().IntVar(&opts.MaxWidth, "max-width", 0, "maximum grid width")
	cmd.Flags().IntVar(&opts.MaxHeight, "max-height", 0, "maximum grid height")

	// Render flags
	cmd.Flags().BoolVar(&opts.Color, "color", false, "color the text output")
	cmd.Flags().BoolVar(&opts.HideForwards, "hide-forwards", false, "omit pass-through nodes from stage graphs")

	return cmd
}

// runCompile compiles the netlist and writes the artifacts.
func (c *CLI) runCompile(ctx context.Context, opts pipeline.Options, flags compileFlags) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	cfg.Apply(&opts)
	opts.Logger = c.Logger

	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Compiling "+opts.Path+"...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Compilation failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		input:     opts.Path,
		output:    flags.output,
		stdout:    os.Stdout,
	})
	if err != nil {
		return err
	}
	if flags.output == "-" {
		return nil
	}

	printSuccess("Compiled %s", opts.Path)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats, result.CacheInfo.RenderHit)
	if flags.stats {
		printBoundaries(result.Stats)
	}
	if result.Stats.Fallbacks > 0 {
		printWarning("%d cells fell back to a constant block", result.Stats.Fallbacks)
	}
	printNewline()
	printNextStep("Browse", appName+" view "+opts.Path)
	return nil
}

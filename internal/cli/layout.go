package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flockview/flockview/pkg/layout"
	"github.com/flockview/flockview/pkg/pipeline"
	"github.com/flockview/flockview/pkg/view"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}
	c.setCLIDefaults(&opts)

	cmd := &cobra.Command{
		Use:   "layout [view.json]",
		Short: "Compute node positions for a view with Graphviz",
		Long: `Compute node positions for a view with Graphviz.

The layout command takes a view.json file (produced by 'build') and computes
2D positions for every visible node. The output is a positions.json file that
can be fed to 'align' to keep successive frames visually continuous.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateEngine(opts.Engine); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.positions.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")

	// Layout flags
	cmd.Flags().StringVarP(&opts.Engine, "engine", "e", opts.Engine, "layout engine: neato (default), fdp, sfdp, circo, twopi, dot")

	return cmd
}

// runLayout loads the view, computes positions, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	v, err := view.ReadViewFile(input)
	if err != nil {
		return fmt.Errorf("load view %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	positions, cacheHit, err := runner.PositionsWithCacheInfo(ctx, v, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = derivedPath(input, ".positions.json")
	}

	if err := layout.WritePositionsFile(positions, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(positions), 0, cacheHit)
	printNewline()
	printNextStep("Align", fmt.Sprintf("flockview align previous.json %s", outputPath))

	return nil
}

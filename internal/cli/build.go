package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flockview/flockview/pkg/pipeline"
	"github.com/flockview/flockview/pkg/socialgraph"
	"github.com/flockview/flockview/pkg/view"
)

// buildCommand creates the build command for assembling views from snapshots.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		output    string
		noCache   bool
		seedsStr  string
		seedsFile string
	)
	opts := pipeline.Options{}
	c.setCLIDefaults(&opts)

	cmd := &cobra.Command{
		Use:   "build [snapshot.json]",
		Short: "Build a bounded, connected view from a graph snapshot",
		Long: `Build a bounded, connected view from a graph snapshot.

The build command ranks accounts around the seed set, admits the best ones
up to the requested size, adds bridge nodes until the view is connected, and
writes the render-ready view as JSON. Compute positions for it with 'layout'.

Seeds default to the ones embedded in the snapshot. Results are cached
locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seeds, err := resolveSeeds(seedsStr, seedsFile)
			if err != nil {
				return err
			}
			opts.Params.Seeds = seeds
			return c.runBuild(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.view.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")

	// Build flags
	cmd.Flags().StringVarP(&seedsStr, "seeds", "s", "", "comma-separated seed handles or ids (default: snapshot seeds)")
	cmd.Flags().StringVar(&seedsFile, "seeds-file", "", "file with one seed handle or id per line")
	cmd.Flags().IntVarP(&opts.Params.SubgraphSize, "size", "n", opts.Params.SubgraphSize, "maximum nodes admitted by ranking")
	cmd.Flags().BoolVar(&opts.Params.IncludeShadows, "include-shadows", opts.Params.IncludeShadows, "keep shadow accounts in the view")
	cmd.Flags().BoolVar(&opts.Params.MutualOnly, "mutual-only", opts.Params.MutualOnly, "restrict view links to mutual edges")
	cmd.Flags().BoolVar(&opts.Params.MetricsReady, "metrics-ready", opts.Params.MetricsReady, "rank by composite scores instead of snapshot order")
	cmd.Flags().IntVar(&opts.Params.BridgeBudget, "bridge-budget", opts.Params.BridgeBudget, "maximum bridge nodes added during connectivity repair")

	return cmd
}

// runBuild loads the snapshot, builds the view, and writes output.
func (c *CLI) runBuild(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	snap, err := socialgraph.ReadSnapshotFile(input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}
	if len(opts.Params.Seeds) == 0 {
		opts.Params.Seeds = snap.Seeds
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Building view...")
	spinner.Start()

	v, cacheHit, err := runner.BuildWithCacheInfo(ctx, snap, opts)
	if err != nil {
		spinner.StopWithError("Build failed")
		return fmt.Errorf("build view: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = derivedPath(input, ".view.json")
	}

	if err := view.WriteViewFile(v, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("View complete")
	printFile(outputPath)
	printStats(v.Stats.VisibleNodes, v.Stats.VisibleEdges, cacheHit)
	if v.Stats.FallbackRanking {
		printDetail("no composite scores; admitted nodes in snapshot order")
	}
	if v.Stats.OrphanCount > 0 {
		printDetail("%d nodes stayed disconnected", v.Stats.OrphanCount)
	}
	printNewline()
	printNextStep("Layout", "flockview layout "+outputPath)

	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flockview/flockview/pkg/pipeline"
	"github.com/flockview/flockview/pkg/session"
	"github.com/flockview/flockview/pkg/socialgraph"
)

// exploreOpts holds the command-line flags for the explore command.
type exploreOpts struct {
	pipeline    pipeline.Options
	session     string // session name
	noCache     bool
	interactive bool

	// Flags given explicitly, so session values know when to yield.
	sizeSet   bool
	engineSet bool
}

// mergeSession fills options the user left unset from the session's last
// run, so a session keeps its shape across invocations.
func (o *exploreOpts) mergeSession(sess *session.Session) {
	if len(o.pipeline.Params.Seeds) == 0 {
		o.pipeline.Params.Seeds = sess.Params.Seeds
	}
	if !o.sizeSet && sess.Params.SubgraphSize > 0 {
		o.pipeline.Params.SubgraphSize = sess.Params.SubgraphSize
	}
	if !o.engineSet && sess.Engine != "" {
		o.pipeline.Engine = sess.Engine
	}
}

// exploreCommand creates the explore command: the full pipeline against a
// named session.
func (c *CLI) exploreCommand() *cobra.Command {
	var seedsStr string
	opts := exploreOpts{}
	c.setCLIDefaults(&opts.pipeline)

	cmd := &cobra.Command{
		Use:   "explore [snapshot.json]",
		Short: "Build, lay out, and align a view in one step",
		Long: `Build, lay out, and align a view in one step.

Explore runs the full pipeline and keeps the result in a named session. The
first run of a session lays the graph out fresh; every following run fits
the new frame onto the session's last one, so the picture holds still while
seeds and parameters change between invocations.

With --interactive the resulting view opens in a terminal browser: pick any
node to re-center the view around it, and the session follows along.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.pipeline.Params.Seeds = parseSeeds(seedsStr)
			opts.sizeSet = cmd.Flags().Changed("size")
			opts.engineSet = cmd.Flags().Changed("engine")
			return c.runExplore(cmd.Context(), args[0], &opts)
		},
	}

	// Common flags
	cmd.Flags().StringVar(&opts.session, "session", "default", "session name")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse the view and re-center interactively")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.pipeline.Refresh, "refresh", false, "recompute even when cached")

	// Pipeline flags
	cmd.Flags().StringVarP(&seedsStr, "seeds", "s", "", "comma-separated seed handles or ids (default: session, then snapshot)")
	cmd.Flags().IntVarP(&opts.pipeline.Params.SubgraphSize, "size", "n", opts.pipeline.Params.SubgraphSize, "maximum nodes admitted by ranking")
	cmd.Flags().StringVarP(&opts.pipeline.Engine, "engine", "e", opts.pipeline.Engine, "layout engine: neato (default), fdp, sfdp, circo, twopi, dot")
	cmd.Flags().BoolVar(&opts.pipeline.Params.IncludeShadows, "include-shadows", opts.pipeline.Params.IncludeShadows, "keep shadow accounts in the view")
	cmd.Flags().BoolVar(&opts.pipeline.Params.MetricsReady, "metrics-ready", opts.pipeline.Params.MetricsReady, "rank by composite scores instead of snapshot order")

	return cmd
}

// runExplore loads the snapshot and session, then runs the pipeline once,
// or in a re-centering loop when interactive.
func (c *CLI) runExplore(ctx context.Context, input string, opts *exploreOpts) error {
	if err := pipeline.ValidateEngine(opts.pipeline.Engine); err != nil {
		return err
	}

	snap, err := socialgraph.ReadSnapshotFile(input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}

	store, err := c.newSessionStore()
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	sess, err := store.Get(ctx, opts.session)
	switch {
	case errors.Is(err, session.ErrNotFound):
		sess = session.New(opts.session, opts.pipeline.Params, opts.pipeline.Engine)
	case err != nil:
		return fmt.Errorf("load session %q: %w", opts.session, err)
	default:
		opts.mergeSession(sess)
		c.Logger.Debug("resuming session", "name", sess.Name, "frames", sess.Frames)
	}

	if len(opts.pipeline.Params.Seeds) == 0 {
		opts.pipeline.Params.Seeds = snap.Seeds
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	for {
		opts.pipeline.Previous = sess.Positions

		prog := newProgress(c.Logger)
		result, err := runner.Execute(ctx, snap, opts.pipeline)
		if err != nil {
			return fmt.Errorf("explore: %w", err)
		}
		prog.done(fmt.Sprintf("Placed %d nodes", len(result.Positions)))

		sess.Params = opts.pipeline.Params
		sess.Engine = opts.pipeline.Engine
		sess.SnapshotPath = input
		sess.Record(result.Positions, result.ViewHash)
		if err := store.Set(ctx, sess); err != nil {
			return fmt.Errorf("save session %q: %w", opts.session, err)
		}

		printSuccess("Frame %d of session %q", sess.Frames, sess.Name)
		printStats(result.View.Stats.VisibleNodes, result.View.Stats.VisibleEdges,
			result.CacheInfo.BuildHit && result.CacheInfo.LayoutHit)
		if result.Align.Overlap > 0 {
			printAlignStats(result.Align)
		}

		if !opts.interactive {
			printNewline()
			printNextStep("Continue", fmt.Sprintf("flockview explore %s --session %s", input, sess.Name))
			return nil
		}

		selected, err := browseView(result.View)
		if err != nil {
			return err
		}
		if selected == "" {
			return nil
		}

		printInfo("Re-centering on %s", selected)
		opts.pipeline.Params.Seeds = []string{string(selected)}
	}
}

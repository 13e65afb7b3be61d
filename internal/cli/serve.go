package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flockview/flockview/internal/server"
)

// serveCommand creates the serve command exposing the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		backend string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the view pipeline over HTTP",
		Long: `Serve the view pipeline over HTTP.

The server exposes the same build, layout, and align stages the CLI runs,
as a JSON API for web frontends:

  POST /api/v1/view    build a view from a snapshot and compute positions
  POST /api/v1/align   fit a position frame onto a previous frame
  GET  /healthz        liveness probe
  GET  /version        build information

The cache backend comes from the config file (see 'flockview config show');
--cache overrides it for this server only. Redis and MongoDB connection
details always come from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, backend, noCache)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, then :8080)")
	cmd.Flags().StringVar(&backend, "cache", "", "cache backend: file, memory, redis, mongo, none (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe builds the runner and blocks serving until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, addr, backend string, noCache bool) error {
	if addr == "" {
		addr = c.Config.Server.Addr
	}
	if backend != "" {
		c.Config.Cache.Backend = backend
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := server.New(server.Config{
		Addr:   addr,
		Logger: c.Logger,
		Runner: runner,
	})

	return srv.Start(ctx)
}

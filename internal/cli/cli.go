package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/flockview/flockview/pkg/buildinfo"
	"github.com/flockview/flockview/pkg/cache"
	"github.com/flockview/flockview/pkg/pipeline"
	"github.com/flockview/flockview/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "flockview"

	// defaultSubgraphSize is the view size used when neither the config
	// file nor the --size flag sets one.
	defaultSubgraphSize = 150
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config
}

// New creates a new CLI instance with a default logger and the on-disk
// configuration. A broken config file is logged and ignored.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level)}

	cfg, err := LoadConfig("")
	if err != nil {
		c.Logger.Warn("ignoring config file", "error", err)
		cfg = DefaultConfig()
	}
	c.Config = cfg

	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "flockview",
		Short: "Flockview builds explorable views of social graphs",
		Long: `Flockview turns social graph snapshots into bounded, connected views:
it ranks accounts around a set of seed handles, repairs connectivity with
bridge nodes, computes positions with Graphviz, and keeps successive frames
visually aligned.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.alignCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.sessionsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	backend, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(backend, nil, c.Logger), nil
}

// newCache builds the cache backend selected in the config. File is the
// default; an unusable cache directory degrades to the null cache rather
// than failing the command.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}

	cfg := c.Config.Cache
	switch cfg.Backend {
	case "", BackendFile:
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	case BackendMemory:
		return cache.NewMemoryCache(), nil
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		var rc *cache.RedisCache
		err := cache.RetryWithBackoff(ctx, func() error {
			var err error
			rc, err = cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		return rc, nil
	case BackendMongo:
		var mc *cache.MongoCache
		err := cache.RetryWithBackoff(ctx, func() error {
			var err error
			mc, err = cache.NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		return mc, nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", cfg.Backend)
	}
}

// newSessionStore opens the exploration session store.
func (c *CLI) newSessionStore() (*session.FileStore, error) {
	return session.NewFileStore(c.Config.SessionsDir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/flockview/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// setCLIDefaults applies config-file defaults on top of pipeline defaults.
func (c *CLI) setCLIDefaults(opts *pipeline.Options) {
	opts.Params.SubgraphSize = defaultSubgraphSize
	if c.Config.SubgraphSize > 0 {
		opts.Params.SubgraphSize = c.Config.SubgraphSize
	}
	if c.Config.Engine != "" {
		opts.Engine = c.Config.Engine
	}
}

// parseSeeds splits a comma-separated seed list, dropping blanks.
func parseSeeds(s string) []string {
	if s == "" {
		return nil
	}
	var seeds []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			seeds = append(seeds, p)
		}
	}
	return seeds
}

// resolveSeeds merges the --seeds flag with a --seeds-file (one handle or id
// per line, # starts a comment).
func resolveSeeds(seedsStr, seedsFile string) ([]string, error) {
	seeds := parseSeeds(seedsStr)
	if seedsFile == "" {
		return seeds, nil
	}

	data, err := os.ReadFile(seedsFile)
	if err != nil {
		return nil, fmt.Errorf("read seeds file %s: %w", seedsFile, err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		seeds = append(seeds, line)
	}
	return seeds, nil
}

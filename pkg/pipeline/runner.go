package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/flockview/flockview/pkg/cache"
	"github.com/flockview/flockview/pkg/layout"
	"github.com/flockview/flockview/pkg/observability"
	"github.com/flockview/flockview/pkg/socialgraph"
	"github.com/flockview/flockview/pkg/view"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → layout → align pipeline with caching.
func (r *Runner) Execute(ctx context.Context, snap *socialgraph.Snapshot, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		BuildID: uuid.NewString(),
	}
	result.Stats.NodeCount = len(snap.Nodes)

	// Compute snapshot hash for cache keys and API responses
	if snapData, err := socialgraph.MarshalSnapshot(snap); err == nil {
		result.SnapshotHash = cache.Hash(snapData)
	}

	// Stage 1: Build
	buildStart := time.Now()
	observability.Pipeline().OnBuildStart(ctx, result.SnapshotHash, result.Stats.NodeCount)
	v, buildHit, err := r.BuildWithCacheInfo(ctx, snap, opts)
	result.Stats.BuildTime = time.Since(buildStart)
	if err != nil {
		observability.Pipeline().OnBuildComplete(ctx, result.SnapshotHash, 0, result.Stats.BuildTime, err)
		return nil, fmt.Errorf("build: %w", err)
	}
	result.View = v
	result.Stats.VisibleNodes = v.Stats.VisibleNodes
	result.CacheInfo.BuildHit = buildHit
	observability.Pipeline().OnBuildComplete(ctx, result.SnapshotHash, v.Stats.VisibleNodes, result.Stats.BuildTime, nil)

	if viewData, err := view.MarshalView(v); err == nil {
		result.ViewHash = cache.Hash(viewData)
	}

	r.Logger.Info("built view",
		"build_id", result.BuildID,
		"visible", v.Stats.VisibleNodes,
		"orphans", v.Stats.OrphanCount,
		"cached", buildHit,
		"duration", result.Stats.BuildTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.Engine, v.Stats.VisibleNodes)
	positions, layoutHit, err := r.PositionsWithCacheInfo(ctx, v, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	observability.Pipeline().OnLayoutComplete(ctx, opts.Engine, result.Stats.LayoutTime, err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Positions = positions
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed positions",
		"build_id", result.BuildID,
		"engine", opts.Engine,
		"nodes", len(positions),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Align (optional, never cached)
	if opts.ShouldAlign() {
		alignStart := time.Now()
		aligned, stats := layout.Align(opts.Previous, positions)
		result.Stats.AlignTime = time.Since(alignStart)
		result.Positions = aligned
		result.Align = stats
		observability.Pipeline().OnAlignComplete(ctx, stats.Aligned, stats.Overlap, result.Stats.AlignTime)

		r.Logger.Info("aligned to previous frame",
			"build_id", result.BuildID,
			"aligned", stats.Aligned,
			"overlap", stats.Overlap,
			"rms_before", stats.RMSBefore,
			"rms_after", stats.RMSAfter)
	}

	return result, nil
}

// BuildWithCacheInfo assembles a view with caching and returns cache hit info.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, snap *socialgraph.Snapshot, opts Options) (*view.View, bool, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from snapshot content and build params
	cacheKey := ""
	if snapData, err := socialgraph.MarshalSnapshot(snap); err == nil {
		cacheKey = r.Keyer.ViewKey(cache.Hash(snapData), opts.ViewKeyOpts())
	}

	// Try cache first (unless refresh requested)
	if cacheKey != "" && !opts.Refresh {
		if data, hit := r.cacheGet(ctx, cacheKey, "view"); hit {
			v, err := view.ReadView(bytes.NewReader(data))
			if err == nil {
				return v, true, nil // Cache hit
			}
		}
	}

	// Build
	v, err := view.Build(snap, opts.Params)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if cacheKey != "" {
		if data, err := view.MarshalView(v); err == nil {
			r.cacheSet(ctx, cacheKey, "view", data, cache.ViewTTL)
		}
	}

	return v, false, nil // Cache miss
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Build(ctx context.Context, snap *socialgraph.Snapshot, opts Options) (*view.View, error) {
	v, _, err := r.BuildWithCacheInfo(ctx, snap, opts)
	return v, err
}

// PositionsWithCacheInfo computes positions with caching and returns cache
// hit info.
func (r *Runner) PositionsWithCacheInfo(ctx context.Context, v *view.View, opts Options) (layout.PositionMap, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from view content and layout options
	viewData, err := view.MarshalView(v)
	if err != nil {
		return nil, false, fmt.Errorf("serialize view for cache key: %w", err)
	}
	cacheKey := r.Keyer.PositionsKey(cache.Hash(viewData), opts.PositionsKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit := r.cacheGet(ctx, cacheKey, "positions"); hit {
			cached, err := layout.ReadPositions(bytes.NewReader(data))
			if err == nil {
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
	}

	// Compute positions
	positions, err := layout.Compute(ctx, v, layout.Engine(opts.Engine))
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := layout.MarshalPositions(positions); err == nil {
		r.cacheSet(ctx, cacheKey, "positions", data, cache.PositionsTTL)
	}

	return positions, false, nil // Cache miss
}

// Positions is a convenience wrapper that calls PositionsWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Positions(ctx context.Context, v *view.View, opts Options) (layout.PositionMap, error) {
	positions, _, err := r.PositionsWithCacheInfo(ctx, v, opts)
	return positions, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// cacheGet reads a key and reports the outcome to the cache hooks.
func (r *Runner) cacheGet(ctx context.Context, key, keyType string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

// cacheSet writes a key and reports the write to the cache hooks. Write
// failures are logged, not returned; caching is best effort.
func (r *Runner) cacheSet(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key_type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

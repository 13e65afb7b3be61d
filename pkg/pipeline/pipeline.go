// Package pipeline provides the core view pipeline for Flockview.
//
// This package implements the complete build → layout → align pipeline that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Assemble a render-ready view from a graph snapshot
//  2. Layout: Compute 2D positions for the view with Graphviz
//  3. Align: Fit new positions onto the previous frame for visual continuity
//
// Build and layout outputs are content-addressed and cached. Align is never
// cached: it depends on whatever frame the caller saw last, not on content.
//
// Snapshot loading is the caller's job; see socialgraph.ReadSnapshotFile.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Params: view.Params{
//	        SubgraphSize: 150,
//	        Seeds:        []string{"visakanv"},
//	    },
//	    Engine: "neato",
//	}
//	result, err := runner.Execute(ctx, snap, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	positions := result.Positions
//
// Run individual stages:
//
//	// Build only
//	v, err := runner.Build(ctx, snap, opts)
//
//	// Layout with an existing view
//	positions, err := runner.Positions(ctx, v, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/flockview/flockview/pkg/cache"
	flockerrors "github.com/flockview/flockview/pkg/errors"
	"github.com/flockview/flockview/pkg/layout"
	"github.com/flockview/flockview/pkg/view"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultEngine is the default Graphviz layout engine.
const DefaultEngine = string(layout.DefaultEngine)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the view pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Build options
	Params view.Params `json:"params"`

	// Layout options
	Engine string `json:"engine,omitempty"`

	// Align options. When Previous is non-empty the computed positions
	// are fitted onto it before being returned.
	Previous layout.PositionMap `json:"previous,omitempty"`

	// Refresh bypasses cache reads. Results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// BuildID uniquely identifies this pipeline run in logs.
	BuildID string

	// View is the assembled view.
	View *view.View

	// SnapshotHash is the content hash of the input snapshot.
	SnapshotHash string

	// ViewHash is the content hash of the assembled view.
	ViewHash string

	// Positions are the computed (and possibly aligned) 2D positions.
	Positions layout.PositionMap

	// Align describes the alignment fit when a previous frame was given.
	Align layout.AlignStats

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int // snapshot nodes
	VisibleNodes int // nodes emitted into the view
	BuildTime    time.Duration
	LayoutTime   time.Duration
	AlignTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the view came from cache
	LayoutHit bool // Whether positions came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateEngine checks that a layout engine name is valid. An empty name
// is valid and means the default engine.
func ValidateEngine(engine string) error {
	if engine == "" {
		return nil
	}
	if !layout.Engine(engine).Valid() {
		return flockerrors.New(flockerrors.ErrCodeInvalidEngine,
			"invalid engine: %q (must be one of: neato, fdp, sfdp, circo, twopi, dot)", engine)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild checks required fields for the build stage.
func (o *Options) ValidateForBuild() error {
	if err := o.Params.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ShouldAlign returns true when a previous frame was supplied.
func (o *Options) ShouldAlign() bool {
	return len(o.Previous) > 0
}

// ViewKeyOpts returns cache key options for the build stage.
func (o *Options) ViewKeyOpts() cache.ViewKeyOpts {
	return cache.ViewKeyOpts{
		Params: o.Params.CanonicalJSON(),
	}
}

// PositionsKeyOpts returns cache key options for the layout stage.
func (o *Options) PositionsKeyOpts() cache.PositionsKeyOpts {
	return cache.PositionsKeyOpts{
		Engine: o.Engine,
	}
}

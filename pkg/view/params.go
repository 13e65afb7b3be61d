package view

import (
	"encoding/json"
	"errors"

	"github.com/flockview/flockview/pkg/socialgraph"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Pipeline
// =============================================================================

const (
	// DefaultBridgeBudget is the global cap on extra nodes admitted to
	// restore connectivity in one build.
	DefaultBridgeBudget = 50

	// DefaultPathBridgeCap is the per-path cap on newly introduced bridge
	// nodes during repair search.
	DefaultPathBridgeCap = 5

	// DefaultSearchDepth is the hop cap for a single repair search.
	DefaultSearchDepth = 8

	// DefaultRepairIterations bounds the repair loop regardless of how
	// many orphans remain.
	DefaultRepairIterations = 100

	// FallbackFloor is the minimum number of nodes admitted in fallback
	// mode. Without scores the build takes the first
	// max(SubgraphSize, FallbackFloor) nodes in snapshot order.
	FallbackFloor = 50
)

var (
	// ErrInvalidSubgraphSize is returned by [Params.ValidateAndSetDefaults]
	// and [Build] when SubgraphSize is zero or negative.
	ErrInvalidSubgraphSize = errors.New("subgraph size must be positive")

	// ErrMissingSeedSet is returned by [Params.ValidateAndSetDefaults] and
	// [Build] when no seeds are supplied. Everything in a view is measured
	// from the seed set; an empty one is a programming error, not a
	// data-quality condition.
	ErrMissingSeedSet = errors.New("seed set is required")
)

// Params configures a single view build. The struct supports JSON
// serialization for API requests and stage cache keys.
//
// Bad input data never fails a build; the two validation errors above are
// the only hard failures. Everything else degrades into stats and
// diagnostics.
type Params struct {
	// SubgraphSize caps how many nodes ranking admits (seeds and bridges
	// can exceed it). Required, must be positive.
	SubgraphSize int `json:"subgraphSize"`

	// Seeds are the anchor ids or usernames, matched case-insensitively.
	// Required.
	Seeds []string `json:"seeds"`

	// IncludeShadows keeps shadow-provenance nodes in the view.
	IncludeShadows bool `json:"includeShadows,omitempty"`

	// MutualOnly restricts view links to mutual edges.
	MutualOnly bool `json:"mutualOnly,omitempty"`

	// MetricsReady signals that external composite scores are usable.
	// Ranked mode needs both MetricsReady and a non-empty score map;
	// otherwise the build falls back to snapshot order.
	MetricsReady bool `json:"metricsReady,omitempty"`

	// Scores are the external composite ("tpotness") scores keyed by id
	// or username. Overrides any scores embedded in the snapshot when set.
	Scores *socialgraph.ScoreMap `json:"tpotness,omitempty"`

	// Metrics are attached to node records for display. Overrides any
	// metrics embedded in the snapshot when set.
	Metrics *socialgraph.Metrics `json:"metrics,omitempty"`

	// Repair caps. Zero values take the defaults above.
	BridgeBudget     int `json:"bridgeBudget,omitempty"`
	PathBridgeCap    int `json:"pathBridgeCap,omitempty"`
	SearchDepth      int `json:"searchDepth,omitempty"`
	RepairIterations int `json:"repairIterations,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (p *Params) ValidateAndSetDefaults() error {
	if p.validated {
		return nil
	}
	if p.SubgraphSize <= 0 {
		return ErrInvalidSubgraphSize
	}
	if len(socialgraph.NewSeedSet(p.Seeds)) == 0 {
		return ErrMissingSeedSet
	}
	if p.BridgeBudget <= 0 {
		p.BridgeBudget = DefaultBridgeBudget
	}
	if p.PathBridgeCap <= 0 {
		p.PathBridgeCap = DefaultPathBridgeCap
	}
	if p.SearchDepth <= 0 {
		p.SearchDepth = DefaultSearchDepth
	}
	if p.RepairIterations <= 0 {
		p.RepairIterations = DefaultRepairIterations
	}
	p.validated = true
	return nil
}

// CanonicalJSON serializes the params for cache keys. Fields marshal in
// struct order and score maps preserve insertion order, so equal params
// always produce equal bytes.
func (p *Params) CanonicalJSON() string {
	data, _ := json.Marshal(p)
	return string(data)
}

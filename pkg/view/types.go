package view

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/flockview/flockview/pkg/socialgraph"
)

// =============================================================================
// View - Assembled Subgraph
// =============================================================================

// View is the assembled, render-ready subgraph: the admitted node records,
// the links between them, summary statistics, and the connectivity-repair
// diagnostics. It is the canonical serialization format for build output,
// used by the CLI, the HTTP API, and stage caching.
type View struct {
	Nodes       []NodeRecord       `json:"nodes" bson:"nodes"`
	Links       []socialgraph.Edge `json:"links" bson:"links"`
	Stats       Stats              `json:"stats" bson:"stats"`
	Diagnostics Diagnostics        `json:"diagnostics" bson:"diagnostics"`
}

// NodeRecord is one visible node: the raw profile attributes merged with
// every field computed during the build. Records are created fresh on every
// build and never mutated across builds; frame-to-frame continuity is the
// layout aligner's job, not this type's.
type NodeRecord struct {
	ID          socialgraph.ID `json:"id" bson:"id"`
	Username    string         `json:"username,omitempty" bson:"username,omitempty"`
	DisplayName string         `json:"displayName,omitempty" bson:"displayName,omitempty"`
	Bio         string         `json:"bio,omitempty" bson:"bio,omitempty"`
	Provenance  string         `json:"provenance,omitempty" bson:"provenance,omitempty"`
	Shadow      bool           `json:"shadow,omitempty" bson:"shadow,omitempty"`

	// HopDistance is the mutual-graph distance to the nearest seed.
	// Nil when no seed is reachable.
	HopDistance *int `json:"hopDistance,omitempty" bson:"hopDistance,omitempty"`

	MutualCount    int     `json:"mutualCount" bson:"mutualCount"`
	SeedTouchCount int     `json:"seedTouchCount" bson:"seedTouchCount"`
	InGroupScore   float64 `json:"inGroupScore" bson:"inGroupScore"`

	// TpotnessScore is the externally computed composite score, when one
	// arrived for this node.
	TpotnessScore *float64 `json:"tpotnessScore,omitempty" bson:"tpotnessScore,omitempty"`

	IsSeed   bool `json:"isSeed,omitempty" bson:"isSeed,omitempty"`
	IsBridge bool `json:"isBridge,omitempty" bson:"isBridge,omitempty"`

	// Attached analytics, present only when the caller supplied metrics.
	Community   socialgraph.Community `json:"community,omitempty" bson:"community,omitempty"`
	Pagerank    *float64              `json:"pagerank,omitempty" bson:"pagerank,omitempty"`
	Betweenness *float64              `json:"betweenness,omitempty" bson:"betweenness,omitempty"`
	Engagement  *float64              `json:"engagement,omitempty" bson:"engagement,omitempty"`

	// Val is a bounded display-size hint derived from the in-group score,
	// seed membership, and the shadow flag. Renderers may use it or ignore
	// it; nothing else reads it.
	Val float64 `json:"val" bson:"val"`

	// Connectivity-repair diagnostics, present on the nodes they describe.
	Connector    *ConnectorInfo `json:"bridgeConnectorInfo,omitempty" bson:"bridgeConnectorInfo,omitempty"`
	BridgeTarget *RepairedInfo  `json:"bridgeTargetInfo,omitempty" bson:"bridgeTargetInfo,omitempty"`
	Orphan       *OrphanInfo    `json:"orphanInfo,omitempty" bson:"orphanInfo,omitempty"`
}

// Stats summarizes a build. Visible counts are computed from the exact node
// and link sets placed in the view, never recomputed independently, so the
// numbers always agree with the graph they describe.
type Stats struct {
	TotalNodes   int `json:"totalNodes" bson:"totalNodes"`
	VisibleNodes int `json:"visibleNodes" bson:"visibleNodes"`
	TotalEdges   int `json:"totalEdges" bson:"totalEdges"`
	VisibleEdges int `json:"visibleEdges" bson:"visibleEdges"`
	MutualEdges  int `json:"mutualEdges" bson:"mutualEdges"`

	// ShadowHidden counts admitted nodes dropped by the shadow filter.
	ShadowHidden int `json:"shadowHidden" bson:"shadowHidden"`

	SeedCount   int `json:"seedCount" bson:"seedCount"`
	BridgeCount int `json:"bridgeCount" bson:"bridgeCount"`
	OrphanCount int `json:"orphanCount" bson:"orphanCount"`

	// FallbackRanking records that composite scores were absent and the
	// build admitted nodes in raw snapshot order instead of by rank.
	FallbackRanking bool `json:"fallbackRanking,omitempty" bson:"fallbackRanking,omitempty"`
}

// =============================================================================
// Diagnostics - Connectivity Repair Record
// =============================================================================

// Diagnostics records what connectivity repair did: which bridge nodes
// support which targets, how each repaired target was reconnected, and why
// irreparable orphans stayed orphaned. Advisory data only; nothing computes
// from it.
type Diagnostics struct {
	Connectors map[socialgraph.ID]*ConnectorInfo `json:"connectors,omitempty" bson:"connectors,omitempty"`
	Repaired   map[socialgraph.ID]*RepairedInfo  `json:"repaired,omitempty" bson:"repaired,omitempty"`
	Orphans    map[socialgraph.ID]*OrphanInfo    `json:"orphans,omitempty" bson:"orphans,omitempty"`
}

// ConnectorInfo describes a bridge node: the repaired targets it carries a
// path for, with up to three sample paths.
type ConnectorInfo struct {
	Targets     []socialgraph.ID   `json:"targets" bson:"targets"`
	SamplePaths [][]socialgraph.ID `json:"samplePaths,omitempty" bson:"samplePaths,omitempty"`
}

// RepairedInfo describes how an orphaned target was reconnected: the full
// path back to a seed, how many bridge nodes it introduced, and its length.
type RepairedInfo struct {
	Path        []socialgraph.ID `json:"path" bson:"path"`
	BridgeCount int              `json:"bridgeCount" bson:"bridgeCount"`
	HopCount    int              `json:"hopCount" bson:"hopCount"`
}

// OrphanReason explains why an admitted node could not be reconnected.
type OrphanReason string

const (
	// OrphanNoPath means no seed is reachable within the search caps.
	OrphanNoPath OrphanReason = "NO_PATH"
	// OrphanBridgeBudget means a path exists but the bridge budget could
	// not cover it.
	OrphanBridgeBudget OrphanReason = "BRIDGE_BUDGET"
)

// OrphanInfo records an irreparable orphan. RequiredBridges is the size of
// the cheapest path's bridge set when one was found (budget failures only).
type OrphanInfo struct {
	Reason          OrphanReason `json:"reason" bson:"reason"`
	RequiredBridges int          `json:"requiredBridges,omitempty" bson:"requiredBridges,omitempty"`
}

// =============================================================================
// View Serialization API
// =============================================================================

// MarshalView converts a view to indented JSON bytes.
func MarshalView(v *View) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeViewTo(v, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteViewFile writes a view to a JSON file.
// The file is created with 0644 permissions.
func WriteViewFile(v *View, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeViewTo(v, f)
}

// ReadViewFile reads a JSON file and returns the decoded view.
func ReadViewFile(path string) (*View, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadView(f)
}

// ReadView decodes a JSON view from an io.Reader.
func ReadView(r io.Reader) (*View, error) {
	var v View
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &v, nil
}

func writeViewTo(v *View, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

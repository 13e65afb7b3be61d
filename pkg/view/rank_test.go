package view

import (
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/flockview/flockview/pkg/socialgraph"
)

// chainIndex builds an index over the mutual chain s-a-b with seed s plus
// the isolated node d.
func chainIndex() *socialgraph.Index {
	snap := &socialgraph.Snapshot{
		Nodes: []socialgraph.Profile{{ID: "s"}, {ID: "a"}, {ID: "b"}, {ID: "d"}},
		Edges: []socialgraph.Edge{
			{Source: "s", Target: "a", Mutual: true},
			{Source: "a", Target: "b", Mutual: true},
		},
	}
	return socialgraph.NewIndex(snap, socialgraph.NewSeedSet([]string{"s"}))
}

func TestInGroupScores(t *testing.T) {
	ix := chainIndex()
	dist := ix.SeedDistances(nil)
	scores := inGroupScores(ix, dist, ix.Universe(nil))

	// s: full hop term, half the max mutual degree, seed bonus.
	// a: hop 1, max mutual degree, touches the seed.
	// b: hop 2, half degree, touches nothing.
	// d: isolated, contributes on no term.
	want := map[socialgraph.ID]float64{
		"s": 0.6 + 0.25*0.5 + 0.1,
		"a": 0.6/2 + 0.25 + 0.15,
		"b": 0.6/3 + 0.25*0.5,
		"d": 0,
	}
	if len(scores) != len(want) {
		t.Fatalf("inGroupScores returned %d entries, want %d", len(scores), len(want))
	}
	for id, w := range want {
		if got := scores[id]; math.Abs(got-w) > 1e-9 {
			t.Errorf("inGroupScores[%s] = %v, want %v", id, got, w)
		}
	}
}

func TestInGroupScoresBounded(t *testing.T) {
	ix := chainIndex()
	dist := ix.SeedDistances(nil)
	for id, score := range inGroupScores(ix, dist, ix.Universe(nil)) {
		if score < 0 || score > 1 {
			t.Errorf("inGroupScores[%s] = %v, want within [0, 1]", id, score)
		}
	}
}

func TestResolveScores(t *testing.T) {
	snap := &socialgraph.Snapshot{
		Nodes: []socialgraph.Profile{
			{ID: "a", Username: "Alice"},
			{ID: "b", Username: "bob"},
		},
	}
	ix := socialgraph.NewIndex(snap, socialgraph.NewSeedSet([]string{"a"}))

	scores := socialgraph.NewScoreMap()
	scores.Set("alice", 0.9) // resolves to id a
	scores.Set("a", 0.5)     // duplicate of a, dropped
	scores.Set("b", 0.7)
	scores.Set("ghost", 0.3) // no profile, kept under its own id

	got := resolveScores(ix, scores)
	want := []scoreEntry{
		{id: "a", score: 0.9, index: 0},
		{id: "b", score: 0.7, index: 2},
		{id: "ghost", score: 0.3, index: 3},
	}
	if !slices.Equal(got, want) {
		t.Errorf("resolveScores() = %v, want %v", got, want)
	}
}

func TestResolveScoresEmpty(t *testing.T) {
	ix := chainIndex()
	if got := resolveScores(ix, nil); got != nil {
		t.Errorf("resolveScores(nil) = %v, want nil", got)
	}
	if got := resolveScores(ix, socialgraph.NewScoreMap()); got != nil {
		t.Errorf("resolveScores(empty) = %v, want nil", got)
	}
}

func TestRankNodesRanked(t *testing.T) {
	snap := &socialgraph.Snapshot{
		Nodes: []socialgraph.Profile{{ID: "s"}, {ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}},
	}
	ix := socialgraph.NewIndex(snap, socialgraph.NewSeedSet([]string{"s"}))

	// b and c tie on score; b entered the map first and must stay ahead.
	scores := socialgraph.NewScoreMap()
	scores.Set("b", 0.5)
	scores.Set("a", 0.9)
	scores.Set("c", 0.5)
	scores.Set("d", 0.2)

	p := Params{SubgraphSize: 3, Seeds: []string{"s"}, MetricsReady: true}
	if err := p.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	entries := resolveScores(ix, scores)
	admitted, fallback := rankNodes(ix, entries, ix.Universe(scoreIDs(entries)), &p)
	if fallback {
		t.Error("rankNodes() fallback = true, want false")
	}
	want := []socialgraph.ID{"a", "b", "c", "s"}
	if !slices.Equal(admitted, want) {
		t.Errorf("rankNodes() admitted = %v, want %v", admitted, want)
	}
}

func TestRankNodesFallback(t *testing.T) {
	nodes := make([]socialgraph.Profile, 60)
	for i := range nodes {
		nodes[i] = socialgraph.Profile{ID: socialgraph.ID(fmt.Sprintf("n%02d", i))}
	}
	snap := &socialgraph.Snapshot{Nodes: nodes}
	ix := socialgraph.NewIndex(snap, socialgraph.NewSeedSet([]string{"n55"}))

	tests := []struct {
		name         string
		subgraphSize int
		metricsReady bool
		wantLen      int
	}{
		// Small requests still take the floor of 50 nodes, plus the
		// seed sitting past the cutoff. Scores are present here but not
		// flagged ready, so they stay unused.
		{name: "FloorApplies", subgraphSize: 3, wantLen: 51},
		{name: "AboveFloor", subgraphSize: 55, wantLen: 56},
		{name: "ReadyWithoutScores", subgraphSize: 3, metricsReady: true, wantLen: 51},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Params{SubgraphSize: tt.subgraphSize, Seeds: []string{"n55"}, MetricsReady: tt.metricsReady}
			if err := p.ValidateAndSetDefaults(); err != nil {
				t.Fatalf("ValidateAndSetDefaults() error = %v", err)
			}

			var entries []scoreEntry
			if !tt.metricsReady {
				scores := socialgraph.NewScoreMap()
				scores.Set("n00", 0.9)
				entries = resolveScores(ix, scores)
			}

			admitted, fallback := rankNodes(ix, entries, ix.Universe(scoreIDs(entries)), &p)
			if !fallback {
				t.Error("rankNodes() fallback = false, want true")
			}
			if len(admitted) != tt.wantLen {
				t.Fatalf("rankNodes() admitted %d nodes, want %d", len(admitted), tt.wantLen)
			}
			if got, want := admitted[0], socialgraph.ID("n00"); got != want {
				t.Errorf("admitted[0] = %s, want %s", got, want)
			}
			if got, want := admitted[len(admitted)-1], socialgraph.ID("n55"); got != want {
				t.Errorf("admitted[last] = %s, want %s (forced seed)", got, want)
			}
		})
	}
}

func TestRankNodesForcesGhostSeed(t *testing.T) {
	snap := &socialgraph.Snapshot{
		Nodes: []socialgraph.Profile{{ID: "a"}},
	}
	ix := socialgraph.NewIndex(snap, socialgraph.NewSeedSet([]string{"ghost"}))

	// The seed has no profile; it enters the universe through the score
	// map and must still be admitted past the size cap.
	scores := socialgraph.NewScoreMap()
	scores.Set("a", 0.9)
	scores.Set("ghost", 0.1)

	p := Params{SubgraphSize: 1, Seeds: []string{"ghost"}, MetricsReady: true}
	if err := p.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	entries := resolveScores(ix, scores)
	admitted, _ := rankNodes(ix, entries, ix.Universe(scoreIDs(entries)), &p)
	want := []socialgraph.ID{"a", "ghost"}
	if !slices.Equal(admitted, want) {
		t.Errorf("rankNodes() admitted = %v, want %v", admitted, want)
	}
}

func TestRenderValBounds(t *testing.T) {
	tests := []struct {
		name    string
		inGroup float64
		isSeed  bool
		shadow  bool
		want    float64
	}{
		{name: "Baseline", inGroup: 0, want: 1},
		{name: "FullScore", inGroup: 1, want: 3},
		{name: "SeedCapped", inGroup: 1, isSeed: true, want: maxVal},
		{name: "ShadowHalved", inGroup: 0.5, shadow: true, want: 1},
		{name: "ShadowFloor", inGroup: 0, shadow: true, want: minVal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderVal(tt.inGroup, tt.isSeed, tt.shadow)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("renderVal(%v, %v, %v) = %v, want %v", tt.inGroup, tt.isSeed, tt.shadow, got, tt.want)
			}
		})
	}
}

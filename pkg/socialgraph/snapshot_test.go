package socialgraph

import (
	"strings"
	"testing"
)

func TestReadSnapshotNodesArray(t *testing.T) {
	input := `{
		"nodes": [
			{"id": "alice", "username": "Alice", "bio": "first"},
			{"id": 42, "username": "bob"},
			{"id": {"id": 7}, "handle": "carol"},
			{"username": "dave"},
			{"bio": "no identity at all"}
		],
		"edges": [
			{"source": "alice", "target": 42, "mutual": true},
			{"source": "alice", "target": {"id": 7}},
			{"source": "alice"},
			{"target": "alice"}
		]
	}`

	snap, err := ReadSnapshot(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}

	wantIDs := []ID{"alice", "42", "7", "dave"}
	if len(snap.Nodes) != len(wantIDs) {
		t.Fatalf("nodes = %d, want %d", len(snap.Nodes), len(wantIDs))
	}
	for i, want := range wantIDs {
		if snap.Nodes[i].ID != want {
			t.Errorf("node[%d].ID = %q, want %q", i, snap.Nodes[i].ID, want)
		}
	}
	if snap.SkippedNodes != 1 {
		t.Errorf("SkippedNodes = %d, want 1", snap.SkippedNodes)
	}

	if len(snap.Edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(snap.Edges))
	}
	if snap.Edges[0].Source != "alice" || snap.Edges[0].Target != "42" || !snap.Edges[0].Mutual {
		t.Errorf("edge[0] = %+v, want alice->42 mutual", snap.Edges[0])
	}
	if snap.Edges[1].Target != "7" || snap.Edges[1].Mutual {
		t.Errorf("edge[1] = %+v, want alice->7 non-mutual", snap.Edges[1])
	}
	if snap.SkippedEdges != 2 {
		t.Errorf("SkippedEdges = %d, want 2", snap.SkippedEdges)
	}
}

func TestReadSnapshotNodesObject(t *testing.T) {
	input := `{
		"nodes": {
			"zeta": {"username": "zeta"},
			"alpha": {"username": "alpha"},
			"9": {"bio": "id from key"},
			"override": {"id": "actual", "username": "override"}
		},
		"edges": []
	}`

	snap, err := ReadSnapshot(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}

	// Object key order must survive: fallback ranking depends on it.
	wantIDs := []ID{"zeta", "alpha", "9", "actual"}
	if len(snap.Nodes) != len(wantIDs) {
		t.Fatalf("nodes = %d, want %d", len(snap.Nodes), len(wantIDs))
	}
	for i, want := range wantIDs {
		if snap.Nodes[i].ID != want {
			t.Errorf("node[%d].ID = %q, want %q", i, snap.Nodes[i].ID, want)
		}
	}
}

func TestReadSnapshotDuplicateNodes(t *testing.T) {
	input := `{
		"nodes": [
			{"id": "a", "bio": "kept"},
			{"id": "a", "bio": "dropped"},
			{"id": 5},
			{"id": "5"}
		]
	}`

	snap, err := ReadSnapshot(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if len(snap.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(snap.Nodes))
	}
	if snap.Nodes[0].Bio != "kept" {
		t.Errorf("first occurrence must win, got bio %q", snap.Nodes[0].Bio)
	}
	if snap.SkippedNodes != 2 {
		t.Errorf("SkippedNodes = %d, want 2", snap.SkippedNodes)
	}
}

func TestReadSnapshotInlineExtras(t *testing.T) {
	input := `{
		"nodes": [{"id": "s"}],
		"edges": [],
		"seeds": ["s"],
		"tpotness": {"b": 0.5, "a": 0.9, "c": 0.5},
		"metrics": {
			"pagerank": {"s": 0.12},
			"communities": {"s": 3}
		}
	}`

	snap, err := ReadSnapshot(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}

	if len(snap.Seeds) != 1 || snap.Seeds[0] != "s" {
		t.Errorf("seeds = %v, want [s]", snap.Seeds)
	}

	if got := snap.Tpotness.Len(); got != 3 {
		t.Fatalf("tpotness entries = %d, want 3", got)
	}
	wantOrder := []string{"b", "a", "c"}
	for i, key := range snap.Tpotness.Keys() {
		if key != wantOrder[i] {
			t.Errorf("tpotness key[%d] = %q, want %q", i, key, wantOrder[i])
		}
	}
	if v, ok := snap.Tpotness.Get("a"); !ok || v != 0.9 {
		t.Errorf("tpotness[a] = %v (%v), want 0.9", v, ok)
	}

	if snap.Metrics == nil {
		t.Fatal("metrics missing")
	}
	if snap.Metrics.Pagerank["s"] != 0.12 {
		t.Errorf("pagerank[s] = %v, want 0.12", snap.Metrics.Pagerank["s"])
	}
	if snap.Metrics.Communities["s"] != "3" {
		t.Errorf("communities[s] = %q, want 3", snap.Metrics.Communities["s"])
	}
}

func TestSnapshotMarshalRoundTrip(t *testing.T) {
	snap := &Snapshot{
		Nodes: []Profile{
			{ID: "a", Username: "alice"},
			{ID: "b", Shadow: true},
		},
		Edges: []Edge{{Source: "a", Target: "b", Mutual: true}},
		Seeds: []string{"alice"},
	}

	data, err := MarshalSnapshot(snap)
	if err != nil {
		t.Fatalf("MarshalSnapshot: %v", err)
	}
	got, err := ReadSnapshot(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}

	if len(got.Nodes) != 2 || got.Nodes[0].ID != "a" || got.Nodes[1].ID != "b" {
		t.Errorf("nodes = %+v", got.Nodes)
	}
	if !got.Nodes[1].Shadow {
		t.Error("shadow flag lost")
	}
	if len(got.Edges) != 1 || !got.Edges[0].Mutual {
		t.Errorf("edges = %+v", got.Edges)
	}
}

func TestProfileIsShadow(t *testing.T) {
	tests := []struct {
		name string
		p    Profile
		want bool
	}{
		{name: "Flag", p: Profile{Shadow: true}, want: true},
		{name: "Provenance", p: Profile{Provenance: "shadow"}, want: true},
		{name: "ProvenanceCase", p: Profile{Provenance: "Shadow"}, want: true},
		{name: "Crawled", p: Profile{Provenance: "crawl"}, want: false},
		{name: "Plain", p: Profile{}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.IsShadow(); got != tt.want {
				t.Errorf("IsShadow = %v, want %v", got, tt.want)
			}
		})
	}
}

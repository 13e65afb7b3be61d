package socialgraph

import (
	"slices"
	"testing"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		Nodes: []Profile{
			{ID: "s", Username: "Seed"},
			{ID: "a", Username: "alice"},
			{ID: "b", Username: "bob"},
			{ID: "c"},
		},
		Edges: []Edge{
			{Source: "s", Target: "a", Mutual: true},
			{Source: "a", Target: "s", Mutual: true}, // mirrored duplicate
			{Source: "a", Target: "b", Mutual: true},
			{Source: "b", Target: "c"},               // not mutual
			{Source: "c", Target: "c", Mutual: true}, // self loop
			{Source: "x", Target: "s", Mutual: true}, // endpoint without profile
		},
	}
}

func TestNewIndexAdjacency(t *testing.T) {
	ix := NewIndex(testSnapshot(), NewSeedSet([]string{"seed"}))

	tests := []struct {
		id   ID
		want []ID
	}{
		{id: "s", want: []ID{"a", "x"}},
		{id: "a", want: []ID{"b", "s"}},
		{id: "b", want: []ID{"a"}},
		{id: "c", want: nil},
		{id: "x", want: []ID{"s"}},
	}
	for _, tt := range tests {
		if got := ix.Neighbors(tt.id); !slices.Equal(got, tt.want) {
			t.Errorf("Neighbors(%s) = %v, want %v", tt.id, got, tt.want)
		}
	}

	if got := ix.MutualCount("s"); got != 2 {
		t.Errorf("MutualCount(s) = %d, want 2", got)
	}
	if got := ix.MaxMutualCount(); got != 2 {
		t.Errorf("MaxMutualCount = %d, want 2", got)
	}
}

func TestNewIndexSeeds(t *testing.T) {
	ix := NewIndex(testSnapshot(), NewSeedSet([]string{"Seed", "c"}))

	if !ix.IsSeed("s") {
		t.Error("s must match the seed set through its username")
	}
	if !ix.IsSeed("c") {
		t.Error("c must match the seed set by id")
	}
	if ix.IsSeed("a") {
		t.Error("a must not be a seed")
	}

	// Ids the snapshot never saw (e.g. score-map keys) still match directly.
	ix2 := NewIndex(testSnapshot(), NewSeedSet([]string{"score-only-seed"}))
	if !ix2.IsSeed("score-only-seed") {
		t.Error("ids outside the snapshot must still match the seed set")
	}

	if got := ix.SeedIDs(); !slices.Equal(got, []ID{"c", "s"}) {
		t.Errorf("SeedIDs = %v, want [c s]", got)
	}

	// a and x touch seed s; b touches none.
	if got := ix.SeedTouchCount("a"); got != 1 {
		t.Errorf("SeedTouchCount(a) = %d, want 1", got)
	}
	if got := ix.SeedTouchCount("b"); got != 0 {
		t.Errorf("SeedTouchCount(b) = %d, want 0", got)
	}
	if got := ix.MaxSeedTouchCount(); got != 1 {
		t.Errorf("MaxSeedTouchCount = %d, want 1", got)
	}
}

func TestIndexResolve(t *testing.T) {
	ix := NewIndex(testSnapshot(), NewSeedSet(nil))

	tests := []struct {
		key  string
		want ID
	}{
		{key: "alice", want: "a"},
		{key: "ALICE", want: "a"},
		{key: "b", want: "b"},
		{key: "unknown", want: "unknown"},
		{key: " padded ", want: "padded"},
	}
	for _, tt := range tests {
		if got := ix.Resolve(tt.key); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestIndexUniverse(t *testing.T) {
	ix := NewIndex(testSnapshot(), NewSeedSet(nil))

	got := ix.Universe([]ID{"z", "a"})
	want := []ID{"a", "b", "c", "s", "x", "z"}
	if !slices.Equal(got, want) {
		t.Errorf("Universe = %v, want %v", got, want)
	}
}

func TestSeedSet(t *testing.T) {
	set := NewSeedSet([]string{" Alice ", "BOB", "", "alice"})
	if len(set) != 2 {
		t.Fatalf("len = %d, want 2", len(set))
	}
	if !set.Has("alice") || !set.Has("Alice") || !set.Has("bob") {
		t.Error("membership must be case-insensitive")
	}
	if set.Has("carol") {
		t.Error("carol is not a member")
	}
	if got := set.Values(); !slices.Equal(got, []string{"alice", "bob"}) {
		t.Errorf("Values = %v", got)
	}
}

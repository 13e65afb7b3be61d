package view

import (
	"slices"
	"testing"

	"github.com/flockview/flockview/pkg/socialgraph"
)

// repairIndex builds an index from node ids and mutual edge pairs, with s
// as the only seed.
func repairIndex(ids []string, pairs [][2]string) *socialgraph.Index {
	snap := &socialgraph.Snapshot{}
	for _, id := range ids {
		snap.Nodes = append(snap.Nodes, socialgraph.Profile{ID: socialgraph.ID(id)})
	}
	for _, p := range pairs {
		snap.Edges = append(snap.Edges, socialgraph.Edge{
			Source: socialgraph.ID(p[0]),
			Target: socialgraph.ID(p[1]),
			Mutual: true,
		})
	}
	return socialgraph.NewIndex(snap, socialgraph.NewSeedSet([]string{"s"}))
}

func repairParams(t *testing.T, mutate func(*Params)) *Params {
	t.Helper()
	p := &Params{SubgraphSize: 10, Seeds: []string{"s"}}
	if mutate != nil {
		mutate(p)
	}
	if err := p.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	return p
}

func idSet(ids ...socialgraph.ID) map[socialgraph.ID]bool {
	set := make(map[socialgraph.ID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func TestRepairConnectedNoOp(t *testing.T) {
	ix := repairIndex(
		[]string{"s", "a", "b"},
		[][2]string{{"s", "a"}, {"a", "b"}},
	)
	admitted := idSet("s", "a", "b")

	out := repairConnectivity(ix, admitted, nil, repairParams(t, nil))
	if len(out.bridges) != 0 {
		t.Errorf("bridges = %v, want none", out.bridges)
	}
	if len(out.diag.Orphans) != 0 {
		t.Errorf("orphans = %v, want none", out.diag.Orphans)
	}
	if len(out.diag.Repaired) != 0 {
		t.Errorf("repaired = %v, want none", out.diag.Repaired)
	}
}

func TestRepairAdmitsBridge(t *testing.T) {
	// b is admitted but its only route to the seed runs through the
	// unadmitted x.
	ix := repairIndex(
		[]string{"s", "x", "b"},
		[][2]string{{"s", "x"}, {"x", "b"}},
	)
	admitted := idSet("s", "b")

	out := repairConnectivity(ix, admitted, nil, repairParams(t, nil))

	if want := []socialgraph.ID{"x"}; !slices.Equal(out.bridges, want) {
		t.Fatalf("bridges = %v, want %v", out.bridges, want)
	}
	if !admitted["x"] {
		t.Error("admitted[x] = false, want bridge admitted in place")
	}
	if len(out.diag.Orphans) != 0 {
		t.Errorf("orphans = %v, want none after repair", out.diag.Orphans)
	}

	conn := out.diag.Connectors["x"]
	if conn == nil {
		t.Fatal("Connectors[x] = nil, want connector info")
	}
	if want := []socialgraph.ID{"b"}; !slices.Equal(conn.Targets, want) {
		t.Errorf("Connectors[x].Targets = %v, want %v", conn.Targets, want)
	}
	wantPath := []socialgraph.ID{"b", "x", "s"}
	if len(conn.SamplePaths) != 1 || !slices.Equal(conn.SamplePaths[0], wantPath) {
		t.Errorf("Connectors[x].SamplePaths = %v, want [%v]", conn.SamplePaths, wantPath)
	}

	rep := out.diag.Repaired["b"]
	if rep == nil {
		t.Fatal("Repaired[b] = nil, want repair info")
	}
	if !slices.Equal(rep.Path, wantPath) {
		t.Errorf("Repaired[b].Path = %v, want %v", rep.Path, wantPath)
	}
	if got, want := rep.BridgeCount, 1; got != want {
		t.Errorf("Repaired[b].BridgeCount = %d, want %d", got, want)
	}
	if got, want := rep.HopCount, 2; got != want {
		t.Errorf("Repaired[b].HopCount = %d, want %d", got, want)
	}
}

func TestRepairPrefersPromisingBridge(t *testing.T) {
	// Two equal-length routes from t to the seed. The candidate bridge z
	// carries a far better in-group score than a, so the biased cost must
	// pick it even though a sorts first.
	ix := repairIndex(
		[]string{"s", "t", "a", "z"},
		[][2]string{{"t", "a"}, {"a", "s"}, {"t", "z"}, {"z", "s"}},
	)
	admitted := idSet("s", "t")
	inGroup := map[socialgraph.ID]float64{"a": 0.1, "z": 0.9}

	out := repairConnectivity(ix, admitted, inGroup, repairParams(t, nil))

	if want := []socialgraph.ID{"z"}; !slices.Equal(out.bridges, want) {
		t.Fatalf("bridges = %v, want %v", out.bridges, want)
	}
	rep := out.diag.Repaired["t"]
	if rep == nil {
		t.Fatal("Repaired[t] = nil, want repair info")
	}
	if want := []socialgraph.ID{"t", "z", "s"}; !slices.Equal(rep.Path, want) {
		t.Errorf("Repaired[t].Path = %v, want %v", rep.Path, want)
	}
}

func TestRepairSharedBridgeCuresSiblings(t *testing.T) {
	// Repairing b1 admits x, which reconnects b2 for free. Only b1 shows
	// up in the connector's target list.
	ix := repairIndex(
		[]string{"s", "x", "b1", "b2"},
		[][2]string{{"s", "x"}, {"x", "b1"}, {"x", "b2"}},
	)
	admitted := idSet("s", "b1", "b2")

	out := repairConnectivity(ix, admitted, nil, repairParams(t, nil))

	if want := []socialgraph.ID{"x"}; !slices.Equal(out.bridges, want) {
		t.Fatalf("bridges = %v, want %v", out.bridges, want)
	}
	if len(out.diag.Orphans) != 0 {
		t.Errorf("orphans = %v, want none", out.diag.Orphans)
	}
	if len(out.diag.Repaired) != 1 || out.diag.Repaired["b1"] == nil {
		t.Errorf("repaired = %v, want exactly b1", out.diag.Repaired)
	}
	if want := []socialgraph.ID{"b1"}; !slices.Equal(out.diag.Connectors["x"].Targets, want) {
		t.Errorf("Connectors[x].Targets = %v, want %v", out.diag.Connectors["x"].Targets, want)
	}
}

func TestRepairNoPath(t *testing.T) {
	// c sits on an island with d; no amount of bridging reaches the seed.
	ix := repairIndex(
		[]string{"s", "a", "c", "d"},
		[][2]string{{"s", "a"}, {"c", "d"}},
	)
	admitted := idSet("s", "a", "c")

	out := repairConnectivity(ix, admitted, nil, repairParams(t, nil))

	if len(out.bridges) != 0 {
		t.Errorf("bridges = %v, want none", out.bridges)
	}
	info := out.diag.Orphans["c"]
	if info == nil {
		t.Fatal("Orphans[c] = nil, want orphan info")
	}
	if got, want := info.Reason, OrphanNoPath; got != want {
		t.Errorf("Orphans[c].Reason = %s, want %s", got, want)
	}
	if !admitted["c"] {
		t.Error("admitted[c] = false, want orphan kept in the view")
	}
}

func TestRepairBridgeBudget(t *testing.T) {
	// The only path needs two bridges but the budget covers one. Nothing
	// is partially admitted and the orphan records what it would take.
	ix := repairIndex(
		[]string{"s", "x1", "x2", "b"},
		[][2]string{{"s", "x1"}, {"x1", "x2"}, {"x2", "b"}},
	)
	admitted := idSet("s", "b")

	out := repairConnectivity(ix, admitted, nil, repairParams(t, func(p *Params) {
		p.BridgeBudget = 1
	}))

	if len(out.bridges) != 0 {
		t.Errorf("bridges = %v, want none", out.bridges)
	}
	if admitted["x1"] || admitted["x2"] {
		t.Error("partial bridge admission, want none")
	}
	info := out.diag.Orphans["b"]
	if info == nil {
		t.Fatal("Orphans[b] = nil, want orphan info")
	}
	if got, want := info.Reason, OrphanBridgeBudget; got != want {
		t.Errorf("Orphans[b].Reason = %s, want %s", got, want)
	}
	if got, want := info.RequiredBridges, 2; got != want {
		t.Errorf("Orphans[b].RequiredBridges = %d, want %d", got, want)
	}
}

func TestRepairBudgetExhaustedLeftover(t *testing.T) {
	// The first repair spends the whole budget, so the second orphan
	// never gets a search.
	ix := repairIndex(
		[]string{"s", "x1", "x2", "b1", "b2"},
		[][2]string{{"s", "x1"}, {"x1", "b1"}, {"s", "x2"}, {"x2", "b2"}},
	)
	admitted := idSet("s", "b1", "b2")

	out := repairConnectivity(ix, admitted, nil, repairParams(t, func(p *Params) {
		p.BridgeBudget = 1
	}))

	if want := []socialgraph.ID{"x1"}; !slices.Equal(out.bridges, want) {
		t.Fatalf("bridges = %v, want %v", out.bridges, want)
	}
	if out.diag.Repaired["b1"] == nil {
		t.Error("Repaired[b1] = nil, want repair info")
	}
	info := out.diag.Orphans["b2"]
	if info == nil {
		t.Fatal("Orphans[b2] = nil, want orphan info")
	}
	if got, want := info.Reason, OrphanBridgeBudget; got != want {
		t.Errorf("Orphans[b2].Reason = %s, want %s", got, want)
	}
	if got, want := info.RequiredBridges, 0; got != want {
		t.Errorf("Orphans[b2].RequiredBridges = %d, want %d (no path was costed)", got, want)
	}
}

func TestRepairPathBridgeCap(t *testing.T) {
	// The route exists but would introduce two bridges on one path; with
	// the per-path cap at one the search must fail it.
	ix := repairIndex(
		[]string{"s", "x1", "x2", "b"},
		[][2]string{{"s", "x1"}, {"x1", "x2"}, {"x2", "b"}},
	)
	admitted := idSet("s", "b")

	out := repairConnectivity(ix, admitted, nil, repairParams(t, func(p *Params) {
		p.PathBridgeCap = 1
	}))

	if len(out.bridges) != 0 {
		t.Errorf("bridges = %v, want none", out.bridges)
	}
	info := out.diag.Orphans["b"]
	if info == nil {
		t.Fatal("Orphans[b] = nil, want orphan info")
	}
	if got, want := info.Reason, OrphanNoPath; got != want {
		t.Errorf("Orphans[b].Reason = %s, want %s", got, want)
	}
}

func TestRepairSearchDepth(t *testing.T) {
	// A nine-hop route to the seed. The default depth cap of eight blocks
	// it; raising the cap by one repairs it.
	ids := []string{"s", "b", "x1", "x2", "x3", "x4", "x5", "x6", "x7", "x8"}
	pairs := [][2]string{
		{"b", "x1"}, {"x1", "x2"}, {"x2", "x3"}, {"x3", "x4"},
		{"x4", "x5"}, {"x5", "x6"}, {"x6", "x7"}, {"x7", "x8"}, {"x8", "s"},
	}

	tests := []struct {
		name        string
		searchDepth int
		wantRepair  bool
	}{
		{name: "DefaultDepthBlocks", searchDepth: 0, wantRepair: false},
		{name: "RaisedDepthRepairs", searchDepth: 9, wantRepair: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := repairIndex(ids, pairs)
			admitted := idSet("s", "b")

			out := repairConnectivity(ix, admitted, nil, repairParams(t, func(p *Params) {
				p.SearchDepth = tt.searchDepth
				p.PathBridgeCap = 10
			}))

			if tt.wantRepair {
				rep := out.diag.Repaired["b"]
				if rep == nil {
					t.Fatal("Repaired[b] = nil, want repair info")
				}
				if got, want := rep.BridgeCount, 8; got != want {
					t.Errorf("Repaired[b].BridgeCount = %d, want %d", got, want)
				}
				if got, want := rep.HopCount, 9; got != want {
					t.Errorf("Repaired[b].HopCount = %d, want %d", got, want)
				}
				return
			}
			info := out.diag.Orphans["b"]
			if info == nil {
				t.Fatal("Orphans[b] = nil, want orphan info")
			}
			if got, want := info.Reason, OrphanNoPath; got != want {
				t.Errorf("Orphans[b].Reason = %s, want %s", got, want)
			}
		})
	}
}

package view

import (
	"slices"

	"github.com/flockview/flockview/pkg/search"
	"github.com/flockview/flockview/pkg/socialgraph"
)

// Repair search constants. The cost bias steers bridge selection toward
// well-connected, already-promising nodes instead of purely shortest paths:
// stepping onto a node that is not yet admitted costs an extra
// biasWeight·(1 − inGroupScore) on top of the hop.
const (
	biasWeight     = 0.75
	maxSamplePaths = 3
)

// repairOutcome carries everything connectivity repair produced: the bridge
// nodes admitted (in admission order) and the diagnostics maps.
type repairOutcome struct {
	bridges   []socialgraph.ID
	bridgeSet map[socialgraph.ID]bool
	diag      Diagnostics
}

// repairConnectivity restores the admitted-set invariant: every admitted
// non-seed node must reach a seed through admitted nodes, or be recorded as
// an irreparable orphan with a reason.
//
// For each orphan, in sorted order, it runs a cost-biased uniform-cost
// search from the orphan over the full mutual adjacency until any seed is
// found, then admits the path's not-yet-admitted nodes as bridges. Three
// hard caps keep the loop bounded: the per-path bridge cap and hop cap
// inside the search, the global bridge budget across the build, and the
// iteration cap on the loop itself. Orphans that cannot be repaired stay
// admitted and are recorded with [OrphanNoPath] or [OrphanBridgeBudget].
//
// admittedSet is grown in place.
func repairConnectivity(ix *socialgraph.Index, admittedSet map[socialgraph.ID]bool, inGroup map[socialgraph.ID]float64, p *Params) repairOutcome {
	out := repairOutcome{
		bridgeSet: make(map[socialgraph.ID]bool),
		diag: Diagnostics{
			Connectors: make(map[socialgraph.ID]*ConnectorInfo),
			Repaired:   make(map[socialgraph.ID]*RepairedInfo),
			Orphans:    make(map[socialgraph.ID]*OrphanInfo),
		},
	}

	// isNew marks nodes that would enter the view only as bridges.
	isNew := func(id socialgraph.ID) bool {
		return !admittedSet[id] && !ix.IsSeed(id)
	}

	budgetLeft := p.BridgeBudget
	orphans := findOrphans(ix, admittedSet, out.diag.Orphans)

	for iter := 0; len(orphans) > 0 && budgetLeft > 0 && iter < p.RepairIterations; iter++ {
		target := orphans[0]

		path, ok := search.UniformCost(target, search.Options[socialgraph.ID]{
			Neighbors: ix.Neighbors,
			Cost: func(_, to socialgraph.ID) float64 {
				cost := 1.0
				if isNew(to) {
					cost += biasWeight * (1 - inGroup[to])
				}
				return cost
			},
			Goal:       ix.IsSeed,
			MaxDepth:   p.SearchDepth,
			Counted:    isNew,
			MaxCounted: p.PathBridgeCap,
		})
		if !ok {
			out.diag.Orphans[target] = &OrphanInfo{Reason: OrphanNoPath}
			orphans = orphans[1:]
			continue
		}

		var bridges []socialgraph.ID
		for _, id := range path.Nodes {
			if isNew(id) {
				bridges = append(bridges, id)
			}
		}
		if len(bridges) > budgetLeft {
			out.diag.Orphans[target] = &OrphanInfo{
				Reason:          OrphanBridgeBudget,
				RequiredBridges: len(bridges),
			}
			orphans = orphans[1:]
			continue
		}

		for _, b := range bridges {
			admittedSet[b] = true
			out.bridges = append(out.bridges, b)
			out.bridgeSet[b] = true
			out.diag.Connectors[b] = &ConnectorInfo{}
			budgetLeft--
		}

		// Every bridge on the path supports this target, including ones
		// admitted for earlier targets.
		for _, id := range path.Nodes {
			info, isBridge := out.diag.Connectors[id]
			if !isBridge {
				continue
			}
			info.Targets = append(info.Targets, target)
			if len(info.SamplePaths) < maxSamplePaths {
				info.SamplePaths = append(info.SamplePaths, slices.Clone(path.Nodes))
			}
		}
		out.diag.Repaired[target] = &RepairedInfo{
			Path:        slices.Clone(path.Nodes),
			BridgeCount: len(bridges),
			HopCount:    path.Hops,
		}

		orphans = findOrphans(ix, admittedSet, out.diag.Orphans)
	}

	// Whatever is left when the loop exits ran out of budget or iterations.
	for _, id := range orphans {
		if _, recorded := out.diag.Orphans[id]; !recorded {
			out.diag.Orphans[id] = &OrphanInfo{Reason: OrphanBridgeBudget}
		}
	}
	return out
}

// findOrphans returns the admitted non-seed nodes with no path to an
// admitted seed through admitted nodes, minus orphans already recorded as
// irreparable. Sorted, so the repair loop processes them in a reproducible
// order.
func findOrphans(ix *socialgraph.Index, admittedSet map[socialgraph.ID]bool, recorded map[socialgraph.ID]*OrphanInfo) []socialgraph.ID {
	reachable := reachableWithin(ix, admittedSet)
	var orphans []socialgraph.ID
	for id := range admittedSet {
		if reachable[id] || ix.IsSeed(id) {
			continue
		}
		if _, done := recorded[id]; done {
			continue
		}
		orphans = append(orphans, id)
	}
	slices.Sort(orphans)
	return orphans
}

// reachableWithin runs breadth-first search from the admitted seeds using
// only edges whose both endpoints are admitted.
func reachableWithin(ix *socialgraph.Index, admittedSet map[socialgraph.ID]bool) map[socialgraph.ID]bool {
	var seeds []socialgraph.ID
	for id := range admittedSet {
		if ix.IsSeed(id) {
			seeds = append(seeds, id)
		}
	}
	slices.Sort(seeds)

	reachable := make(map[socialgraph.ID]bool, len(admittedSet))
	frontier := seeds
	for _, id := range frontier {
		reachable[id] = true
	}
	for len(frontier) > 0 {
		id := frontier[0]
		frontier = frontier[1:]
		for _, nb := range ix.Neighbors(id) {
			if !admittedSet[nb] || reachable[nb] {
				continue
			}
			reachable[nb] = true
			frontier = append(frontier, nb)
		}
	}
	return reachable
}

package view

import (
	"github.com/flockview/flockview/pkg/socialgraph"
)

// Display-size hint bounds. Derived values stay inside [minVal, maxVal]
// whatever the inputs.
const (
	minVal = 0.5
	maxVal = 4.5
)

// renderVal derives the bounded display-size hint for a node. Seeds are
// enlarged, shadow nodes shrunk; nothing downstream computes from this.
func renderVal(inGroup float64, isSeed, shadow bool) float64 {
	v := 1 + 2*inGroup
	if isSeed {
		v += 1.5
	}
	if shadow {
		v *= 0.5
	}
	return clamp(v, minVal, maxVal)
}

type linkKey struct {
	source, target socialgraph.ID
}

// assembleInput gathers everything the assembler consumes. All fields are
// read-only at this point in the build.
type assembleInput struct {
	snap     *socialgraph.Snapshot
	ix       *socialgraph.Index
	order    []socialgraph.ID
	dist     map[socialgraph.ID]int
	inGroup  map[socialgraph.ID]float64
	tpotness map[socialgraph.ID]float64
	metrics  *socialgraph.Metrics
	repair   repairOutcome
	fallback bool
}

// assemble merges the admitted ids with their profiles, computed scores,
// metrics, and repair diagnostics into the final view. Shadow nodes are
// dropped here unless requested, links keep only pairs whose endpoints both
// survived, and the stats count exactly the records and links emitted.
func assemble(in assembleInput, p *Params) *View {
	visible := make(map[socialgraph.ID]bool, len(in.order))
	nodes := make([]NodeRecord, 0, len(in.order))
	shadowHidden := 0

	for _, id := range in.order {
		profile, _ := in.ix.Profile(id)
		shadow := profile != nil && profile.IsShadow()
		if shadow && !p.IncludeShadows {
			shadowHidden++
			continue
		}

		rec := NodeRecord{
			ID:             id,
			Shadow:         shadow,
			MutualCount:    in.ix.MutualCount(id),
			SeedTouchCount: in.ix.SeedTouchCount(id),
			InGroupScore:   in.inGroup[id],
			IsSeed:         in.ix.IsSeed(id),
			IsBridge:       in.repair.bridgeSet[id],
			Connector:      in.repair.diag.Connectors[id],
			BridgeTarget:   in.repair.diag.Repaired[id],
			Orphan:         in.repair.diag.Orphans[id],
		}
		if profile != nil {
			rec.Username = profile.Username
			rec.DisplayName = profile.DisplayName
			rec.Bio = profile.Bio
			rec.Provenance = profile.Provenance
		}
		if d, ok := in.dist[id]; ok {
			rec.HopDistance = &d
		}
		if score, ok := in.tpotness[id]; ok {
			rec.TpotnessScore = &score
		}
		if m := in.metrics; m != nil {
			if v, ok := m.Pagerank[id]; ok {
				rec.Pagerank = &v
			}
			if v, ok := m.Betweenness[id]; ok {
				rec.Betweenness = &v
			}
			if v, ok := m.Engagement[id]; ok {
				rec.Engagement = &v
			}
			rec.Community = m.Communities[id]
		}
		rec.Val = renderVal(rec.InGroupScore, rec.IsSeed, shadow)

		visible[id] = true
		nodes = append(nodes, rec)
	}

	links := make([]socialgraph.Edge, 0)
	seen := make(map[linkKey]bool)
	for _, e := range in.snap.Edges {
		if p.MutualOnly && !e.Mutual {
			continue
		}
		if !visible[e.Source] || !visible[e.Target] {
			continue
		}
		key := linkKey{source: e.Source, target: e.Target}
		if seen[key] {
			continue
		}
		seen[key] = true
		links = append(links, e)
	}

	stats := Stats{
		TotalNodes:      len(in.snap.Nodes),
		VisibleNodes:    len(nodes),
		TotalEdges:      len(in.snap.Edges),
		VisibleEdges:    len(links),
		ShadowHidden:    shadowHidden,
		FallbackRanking: in.fallback,
	}
	for _, l := range links {
		if l.Mutual {
			stats.MutualEdges++
		}
	}
	for i := range nodes {
		if nodes[i].IsSeed {
			stats.SeedCount++
		}
		if nodes[i].IsBridge {
			stats.BridgeCount++
		}
		if nodes[i].Orphan != nil {
			stats.OrphanCount++
		}
	}

	return &View{
		Nodes:       nodes,
		Links:       links,
		Stats:       stats,
		Diagnostics: in.repair.diag,
	}
}

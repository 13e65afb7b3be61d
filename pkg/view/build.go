package view

import (
	"slices"

	"github.com/flockview/flockview/pkg/socialgraph"
)

// Build turns a snapshot and build parameters into a render-ready view:
// index, distance field, ranking, connectivity repair, assembly, in that
// order. It is a pure synchronous function of its inputs; given identical
// inputs it produces identical views, including tie orders and diagnostics.
//
// The only errors are the parameter violations ([ErrInvalidSubgraphSize],
// [ErrMissingSeedSet]). Data-quality problems degrade into stats and
// diagnostics instead.
func Build(snap *socialgraph.Snapshot, params Params) (*View, error) {
	if err := params.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	ix := socialgraph.NewIndex(snap, socialgraph.NewSeedSet(params.Seeds))

	scores := params.Scores
	if scores.Len() == 0 {
		scores = snap.Tpotness
	}
	metrics := params.Metrics
	if metrics == nil {
		metrics = snap.Metrics
	}

	entries := resolveScores(ix, scores)
	extra := scoreIDs(entries)
	dist := ix.SeedDistances(extra)
	universe := ix.Universe(extra)
	inGroup := inGroupScores(ix, dist, universe)

	admitted, fallback := rankNodes(ix, entries, universe, &params)
	admittedSet := make(map[socialgraph.ID]bool, len(admitted))
	for _, id := range admitted {
		admittedSet[id] = true
	}

	repair := repairConnectivity(ix, admittedSet, inGroup, &params)

	tpotness := make(map[socialgraph.ID]float64, len(entries))
	for _, e := range entries {
		tpotness[e.id] = e.score
	}

	return assemble(assembleInput{
		snap:     snap,
		ix:       ix,
		order:    slices.Concat(admitted, repair.bridges),
		dist:     dist,
		inGroup:  inGroup,
		tpotness: tpotness,
		metrics:  metrics,
		repair:   repair,
		fallback: fallback,
	}, &params), nil
}

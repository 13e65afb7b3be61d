package view

import (
	"slices"

	"github.com/flockview/flockview/pkg/socialgraph"
)

// In-group score weights. The composite stays in [0,1]: the four weights
// sum to 1 and every term is normalized before weighting.
const (
	weightHop       = 0.6
	weightMutual    = 0.25
	weightSeedTouch = 0.15
	weightSeed      = 0.1
)

// scoreEntry is one resolved external score. The original position in the
// score map is the ranked-mode tie-break, so it travels with the value.
type scoreEntry struct {
	id    socialgraph.ID
	score float64
	index int
}

// resolveScores canonicalizes score-map keys against the index. Usernames
// resolve to their profile's id; when two keys land on the same id (say a
// username and its numeric id) the earlier entry wins.
func resolveScores(ix *socialgraph.Index, scores *socialgraph.ScoreMap) []scoreEntry {
	if scores.Len() == 0 {
		return nil
	}
	entries := make([]scoreEntry, 0, scores.Len())
	seen := make(map[socialgraph.ID]bool, scores.Len())
	for i, key := range scores.Keys() {
		id := ix.Resolve(key)
		if seen[id] {
			continue
		}
		seen[id] = true
		value, _ := scores.Get(key)
		entries = append(entries, scoreEntry{id: id, score: value, index: i})
	}
	return entries
}

// scoreIDs extracts the resolved ids in entry order.
func scoreIDs(entries []scoreEntry) []socialgraph.ID {
	ids := make([]socialgraph.ID, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}
	return ids
}

// inGroupScores computes the bounded [0,1] composite for every id in the
// universe:
//
//	0.6·(1/(hop+1)) + 0.25·(mutual/maxMutual) + 0.15·(touch/maxTouch) + 0.1·isSeed
//
// Unreachable nodes contribute nothing on the hop term, and each normalized
// term contributes nothing when its normalizer is zero. The score feeds the
// repair search's cost bias and node display hints, never the primary
// ranking.
func inGroupScores(ix *socialgraph.Index, dist map[socialgraph.ID]int, universe []socialgraph.ID) map[socialgraph.ID]float64 {
	maxMutual := ix.MaxMutualCount()
	maxTouch := ix.MaxSeedTouchCount()

	out := make(map[socialgraph.ID]float64, len(universe))
	for _, id := range universe {
		var score float64
		if d, ok := dist[id]; ok {
			score += weightHop * (1.0 / float64(d+1))
		}
		if maxMutual > 0 {
			score += weightMutual * float64(ix.MutualCount(id)) / float64(maxMutual)
		}
		if maxTouch > 0 {
			score += weightSeedTouch * float64(ix.SeedTouchCount(id)) / float64(maxTouch)
		}
		if ix.IsSeed(id) {
			score += weightSeed
		}
		out[id] = clamp(score, 0, 1)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// rankNodes selects the admitted set. In ranked mode (metrics ready and at
// least one score resolved) it takes the top SubgraphSize ids by score
// descending, ties broken by score-map entry order (an explicit stable
// sort, not map iteration luck). Without usable scores it falls back to the
// first max(SubgraphSize, FallbackFloor) nodes in snapshot order: a
// structural placeholder, not a ranking.
//
// Either way, every seed in the universe is force-admitted afterwards, in
// sorted order, even when it ranked below the cutoff.
func rankNodes(ix *socialgraph.Index, entries []scoreEntry, universe []socialgraph.ID, p *Params) (admitted []socialgraph.ID, fallback bool) {
	if p.MetricsReady && len(entries) > 0 {
		ranked := slices.Clone(entries)
		slices.SortStableFunc(ranked, func(a, b scoreEntry) int {
			switch {
			case a.score > b.score:
				return -1
			case a.score < b.score:
				return 1
			}
			return a.index - b.index
		})
		if len(ranked) > p.SubgraphSize {
			ranked = ranked[:p.SubgraphSize]
		}
		for _, e := range ranked {
			admitted = append(admitted, e.id)
		}
	} else {
		fallback = true
		ids := ix.NodeIDs()
		take := max(p.SubgraphSize, FallbackFloor)
		if len(ids) > take {
			ids = ids[:take]
		}
		admitted = ids
	}

	inSet := make(map[socialgraph.ID]bool, len(admitted))
	for _, id := range admitted {
		inSet[id] = true
	}
	for _, id := range universe {
		if ix.IsSeed(id) && !inSet[id] {
			inSet[id] = true
			admitted = append(admitted, id)
		}
	}
	return admitted, fallback
}

package socialgraph

// SeedDistances runs a multi-source breadth-first search from every seed in
// the build universe over the mutual adjacency and returns hop distances.
// Ids missing from the result are unreachable from every seed.
//
// The extra ids extend the universe the same way they do in
// [Index.Universe]; a seed contributed only by a score map becomes a source
// with distance 0 even though it has no neighbors.
//
// Sources and neighbors are visited in sorted order, so the first-discovered
// distance for every node is reproducible across runs. The field is computed
// in one pass per build, never per query.
func (ix *Index) SeedDistances(extra []ID) map[ID]int {
	dist := make(map[ID]int)
	var frontier []ID
	for _, id := range ix.Universe(extra) {
		if ix.IsSeed(id) {
			dist[id] = 0
			frontier = append(frontier, id)
		}
	}

	for len(frontier) > 0 {
		id := frontier[0]
		frontier = frontier[1:]
		next := dist[id] + 1
		for _, nb := range ix.adj[id] {
			if _, seen := dist[nb]; seen {
				continue
			}
			dist[nb] = next
			frontier = append(frontier, nb)
		}
	}
	return dist
}

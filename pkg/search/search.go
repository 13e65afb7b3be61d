// Package search provides a generic uniform-cost search over implicit
// graphs. The connectivity repairer uses it to find admission-biased paths
// from orphaned nodes back to seeds, but nothing in here knows about views:
// the graph is a neighbor function, the weights are a cost function, and
// the destination is a goal predicate, so path costs are testable in
// isolation from the repair loop.
package search

import (
	"github.com/emirpasic/gods/queues/priorityqueue"
)

// Options configures a [UniformCost] search. Neighbors and Goal are
// required; everything else defaults to an unweighted, uncapped search.
type Options[N comparable] struct {
	// Neighbors returns the nodes adjacent to n. Order matters for
	// determinism: equal-cost frontier entries pop in insertion order,
	// so callers should return neighbors in a stable order.
	Neighbors func(n N) []N

	// Cost returns the non-negative cost of stepping from one node to an
	// adjacent one. When nil every step costs 1 and the search degenerates
	// to breadth-first order.
	Cost func(from, to N) float64

	// Goal reports whether a node terminates the search.
	Goal func(n N) bool

	// MaxDepth caps the number of hops from the start node. 0 disables
	// the cap.
	MaxDepth int

	// Counted reports whether a node consumes the per-path budget.
	// The start node is never counted.
	Counted func(n N) bool

	// MaxCounted caps how many counted nodes a single path may contain.
	// Paths that would exceed it are pruned. 0 disables the cap.
	MaxCounted int
}

// Path is a route found by [UniformCost], listed from the start node to the
// goal node inclusive.
type Path[N comparable] struct {
	Nodes   []N
	Cost    float64
	Hops    int
	Counted int
}

// UniformCost runs Dijkstra-style best-first search from start until the
// goal predicate matches or the frontier is exhausted. The first goal node
// popped has minimal cost among paths respecting the depth and budget caps.
//
// Visited nodes close on first pop, so the search touches each node at most
// once and always terminates on finite graphs. Ties between equal-cost
// frontier entries break by insertion order, which makes results
// reproducible whenever Neighbors returns a stable order.
func UniformCost[N comparable](start N, opts Options[N]) (Path[N], bool) {
	if opts.Neighbors == nil || opts.Goal == nil {
		return Path[N]{}, false
	}

	var seq uint64
	pq := priorityqueue.NewWith(func(a, b interface{}) int {
		sa, sb := a.(*state[N]), b.(*state[N])
		switch {
		case sa.cost < sb.cost:
			return -1
		case sa.cost > sb.cost:
			return 1
		case sa.seq < sb.seq:
			return -1
		case sa.seq > sb.seq:
			return 1
		}
		return 0
	})

	pq.Enqueue(&state[N]{node: start})
	closed := make(map[N]bool)

	for !pq.Empty() {
		v, _ := pq.Dequeue()
		cur := v.(*state[N])
		if closed[cur.node] {
			continue
		}
		closed[cur.node] = true

		if opts.Goal(cur.node) {
			return cur.path(), true
		}
		if opts.MaxDepth > 0 && cur.hops >= opts.MaxDepth {
			continue
		}

		for _, nb := range opts.Neighbors(cur.node) {
			if closed[nb] {
				continue
			}
			counted := cur.counted
			if opts.Counted != nil && opts.Counted(nb) {
				counted++
				if opts.MaxCounted > 0 && counted > opts.MaxCounted {
					continue
				}
			}
			step := 1.0
			if opts.Cost != nil {
				step = opts.Cost(cur.node, nb)
			}
			seq++
			pq.Enqueue(&state[N]{
				node:    nb,
				cost:    cur.cost + step,
				hops:    cur.hops + 1,
				counted: counted,
				seq:     seq,
				parent:  cur,
			})
		}
	}
	return Path[N]{}, false
}

// state is one frontier entry. The parent chain doubles as the path record,
// so no separate predecessor map is needed.
type state[N comparable] struct {
	node    N
	cost    float64
	hops    int
	counted int
	seq     uint64
	parent  *state[N]
}

func (s *state[N]) path() Path[N] {
	length := s.hops + 1
	nodes := make([]N, length)
	for cur := s; cur != nil; cur = cur.parent {
		length--
		nodes[length] = cur.node
	}
	return Path[N]{Nodes: nodes, Cost: s.cost, Hops: s.hops, Counted: s.counted}
}

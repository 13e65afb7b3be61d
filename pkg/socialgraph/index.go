package socialgraph

import (
	"slices"
	"strings"
)

// SeedSet is the caller-designated anchor set, stored as lowercased ids
// and handles. Membership tests are case-insensitive.
type SeedSet map[string]bool

// NewSeedSet builds a seed set from raw entries. Entries are trimmed and
// lowercased; empties are dropped.
func NewSeedSet(entries []string) SeedSet {
	set := make(SeedSet, len(entries))
	for _, e := range entries {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			set[e] = true
		}
	}
	return set
}

// Has reports whether the set contains the value, compared case-insensitively.
func (s SeedSet) Has(v string) bool {
	return s[strings.ToLower(v)]
}

// Values returns the entries in sorted order.
func (s SeedSet) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Index is the id-keyed lookup structure built once per view build from a
// snapshot and a seed set. It canonicalizes nothing itself (the snapshot
// decoder already did); it derives the mutual-only undirected adjacency,
// per-node mutual degree, per-node seed-touch counts, and seed membership.
//
// The zero value is not usable. Use [NewIndex]. An Index is read-only after
// construction and therefore safe for concurrent readers.
type Index struct {
	profiles  map[ID]*Profile
	order     []ID
	byUser    map[string]ID
	adj       map[ID][]ID
	seedTouch map[ID]int
	seeds     map[ID]bool
	seedSet   SeedSet
	touched   []ID

	maxMutual    int
	maxSeedTouch int
}

// NewIndex builds an index over the snapshot's nodes and edges.
//
// Adjacency keeps only edges flagged mutual and is stored symmetrically with
// neighbors deduplicated and sorted, so traversal order is reproducible.
// Self-referencing edges contribute nothing to adjacency. A node counts as a
// seed when its id or its username appears in the seed set, compared
// case-insensitively.
func NewIndex(snap *Snapshot, seeds SeedSet) *Index {
	ix := &Index{
		profiles:  make(map[ID]*Profile, len(snap.Nodes)),
		byUser:    make(map[string]ID),
		adj:       make(map[ID][]ID),
		seedTouch: make(map[ID]int),
		seeds:     make(map[ID]bool),
		seedSet:   seeds,
	}

	for i := range snap.Nodes {
		p := &snap.Nodes[i]
		if _, exists := ix.profiles[p.ID]; exists {
			continue
		}
		ix.profiles[p.ID] = p
		ix.order = append(ix.order, p.ID)
		if p.Username != "" {
			user := strings.ToLower(p.Username)
			if _, taken := ix.byUser[user]; !taken {
				ix.byUser[user] = p.ID
			}
		}
	}

	adjSet := make(map[ID]map[ID]bool)
	touched := make(map[ID]bool)
	link := func(a, b ID) {
		if adjSet[a] == nil {
			adjSet[a] = make(map[ID]bool)
		}
		adjSet[a][b] = true
	}
	for _, e := range snap.Edges {
		touched[e.Source] = true
		touched[e.Target] = true
		if !e.Mutual || e.Source == e.Target {
			continue
		}
		link(e.Source, e.Target)
		link(e.Target, e.Source)
	}

	for id, set := range adjSet {
		neighbors := make([]ID, 0, len(set))
		for nb := range set {
			neighbors = append(neighbors, nb)
		}
		slices.Sort(neighbors)
		ix.adj[id] = neighbors
		if len(neighbors) > ix.maxMutual {
			ix.maxMutual = len(neighbors)
		}
	}

	ix.touched = make([]ID, 0, len(touched))
	for id := range touched {
		ix.touched = append(ix.touched, id)
	}
	slices.Sort(ix.touched)

	for id := range ix.profiles {
		ix.seeds[id] = ix.matchesSeedSet(id)
	}
	for _, id := range ix.touched {
		if _, done := ix.seeds[id]; !done {
			ix.seeds[id] = ix.matchesSeedSet(id)
		}
	}

	for id, neighbors := range ix.adj {
		count := 0
		for _, nb := range neighbors {
			if ix.seeds[nb] {
				count++
			}
		}
		ix.seedTouch[id] = count
		if count > ix.maxSeedTouch {
			ix.maxSeedTouch = count
		}
	}

	return ix
}

func (ix *Index) matchesSeedSet(id ID) bool {
	if ix.seedSet.Has(string(id)) {
		return true
	}
	if p, ok := ix.profiles[id]; ok && p.Username != "" {
		return ix.seedSet.Has(p.Username)
	}
	return false
}

// Profile returns the profile for an id and whether it exists.
func (ix *Index) Profile(id ID) (*Profile, bool) {
	p, ok := ix.profiles[id]
	return p, ok
}

// NodeIDs returns the snapshot's node ids in their original order.
// The returned slice is a copy.
func (ix *Index) NodeIDs() []ID {
	return slices.Clone(ix.order)
}

// NodeCount returns the number of distinct profiles in the snapshot.
func (ix *Index) NodeCount() int { return len(ix.profiles) }

// Neighbors returns the node's mutual neighbors in sorted order.
// Returns nil for nodes with no mutual edges. The returned slice should
// not be modified - use it as a read-only view.
func (ix *Index) Neighbors(id ID) []ID { return ix.adj[id] }

// MutualCount returns the number of distinct mutual neighbors of the node.
func (ix *Index) MutualCount(id ID) int { return len(ix.adj[id]) }

// SeedTouchCount returns how many of the node's mutual neighbors are seeds.
func (ix *Index) SeedTouchCount(id ID) int { return ix.seedTouch[id] }

// MaxMutualCount returns the largest mutual degree observed, 0 if no
// mutual edges exist. Used to normalize the in-group score.
func (ix *Index) MaxMutualCount() int { return ix.maxMutual }

// MaxSeedTouchCount returns the largest seed-touch count observed, 0 if no
// node touches a seed. Used to normalize the in-group score.
func (ix *Index) MaxSeedTouchCount() int { return ix.maxSeedTouch }

// IsSeed reports whether the id belongs to the seed set, either directly or
// through the username of its profile. Ids never seen in the snapshot are
// still matched against the seed set, so seeds known only from external
// score maps test true.
func (ix *Index) IsSeed(id ID) bool {
	if v, ok := ix.seeds[id]; ok {
		return v
	}
	return ix.seedSet.Has(string(id))
}

// SeedIDs returns the sorted seed ids known to the snapshot (profiles and
// edge endpoints). Seeds that exist only in the seed set, with no trace in
// the data, are not listed.
func (ix *Index) SeedIDs() []ID {
	var out []ID
	for id, isSeed := range ix.seeds {
		if isSeed {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// Resolve maps a raw score-map key to a canonical id: a known username
// resolves to its profile's id, anything else canonicalizes as itself.
func (ix *Index) Resolve(key string) ID {
	if id, ok := ix.byUser[strings.ToLower(key)]; ok {
		return id
	}
	if id, ok := CanonicalID(key); ok {
		return id
	}
	return ID(key)
}

// Universe returns the sorted union of every id this build knows about:
// profile ids, ids touched by any edge (mutual or not), and the extra ids
// passed in (typically ids resolved from an external score map).
func (ix *Index) Universe(extra []ID) []ID {
	seen := make(map[ID]bool, len(ix.order)+len(ix.touched)+len(extra))
	out := make([]ID, 0, len(seen))
	add := func(id ID) {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range ix.order {
		add(id)
	}
	for _, id := range ix.touched {
		add(id)
	}
	for _, id := range extra {
		add(id)
	}
	slices.Sort(out)
	return out
}

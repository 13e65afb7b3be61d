// Package socialgraph ingests raw account-graph snapshots and derives the
// lookup structures every view build starts from.
//
// # Overview
//
// Flockview explores social graphs outward from a set of seed accounts.
// This package owns the input side of that pipeline: decoding snapshots
// collected by external tooling, canonicalizing their loosely-typed
// identifiers, and indexing the mutual-relationship structure that distance
// and connectivity computations run on.
//
// # Canonical IDs
//
// Collected snapshots identify accounts three different ways: plain strings,
// bare numbers, and wrapper objects like {"id": 123}. Every raw identifier
// is normalized into an [ID] exactly once, at decode time, by [CanonicalID]
// or [CanonicalIDJSON]. Downstream packages only ever handle canonical IDs;
// nothing re-derives them.
//
// # Snapshot Decoding
//
// [Snapshot] accepts nodes as an array or as an object keyed by id, and
// tolerates missing or malformed entries: nodes without a usable identifier
// and edges missing either endpoint are skipped and counted, never raised
// as errors. The data is best-effort by nature, so decoding degrades
// silently instead of failing a whole file for one bad row.
//
// Node order is preserved through decoding (object key order included)
// because the view builder's fallback ranking admits nodes in their
// original order.
//
// # Mutual Adjacency
//
// [NewIndex] builds the undirected adjacency restricted to edges flagged
// mutual, plus per-node mutual degree and seed-touch counts and the seed
// membership test (id or username, case-insensitive). Neighbor lists are
// deduplicated and sorted so traversals are reproducible.
//
// # Seed Distances
//
// [Index.SeedDistances] computes hop distances from all seeds at once with
// a single breadth-first pass over the mutual adjacency. Unreachable nodes
// have no entry. The field is computed once per view build and shared by
// ranking and connectivity repair.
//
// # Concurrency
//
// An Index is immutable after construction and safe for concurrent readers.
// Snapshots are plain data; decode and index in one goroutine, then share.
package socialgraph

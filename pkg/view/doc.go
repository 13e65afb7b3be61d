// Package view builds bounded, seed-connected subgraphs from raw social
// graph snapshots.
//
// # Overview
//
// A flockview rendering shows a budgeted slice of a much larger account
// graph, anchored on caller-chosen seed accounts. [Build] is the whole
// pipeline in one pure call: index the snapshot, compute seed distances,
// select nodes under the budget, repair connectivity, and assemble the
// final records, links, stats, and diagnostics. Two calls with identical
// inputs return identical views, bit for bit.
//
// # Ranking
//
// Selection has two modes. When external composite scores are ready, nodes
// rank by score descending with ties broken by score-map entry order. When
// they are not, the build admits the first max(SubgraphSize, 50) nodes in
// snapshot order as a structural placeholder. Seeds are force-admitted in
// both modes. Each node also gets a bounded in-group score blending seed
// distance, mutual degree, and seed-touch count; it biases repair-path
// costs and display sizing but never the primary ranking.
//
// # Connectivity Repair
//
// Every admitted non-seed node must reach a seed through admitted nodes.
// Nodes that cannot ("orphans") trigger a cost-biased uniform-cost search
// over the full mutual graph; the not-yet-admitted nodes on a found path
// are admitted as bridges. Hard caps bound the work: hops and new bridges
// per path, total bridges per build, iterations per repair loop. Orphans
// that stay disconnected are kept in the view and recorded with a reason
// ([OrphanNoPath], [OrphanBridgeBudget]) rather than dropped or raised.
//
// # Assembly
//
// The assembler excludes shadow-provenance nodes unless asked otherwise,
// attaches external metrics and repair diagnostics per node, filters links
// to visible endpoint pairs (mutual-only when requested), and derives the
// stats from exactly the records and links it emits, so displayed counts
// always match the displayed graph.
//
// # Errors
//
// The input data is best-effort by nature, so builds degrade silently:
// malformed rows were already skipped at decode time, and connectivity
// failures become diagnostics. Only two programmer-error conditions fail a
// build: a non-positive SubgraphSize and an empty seed set.
//
// # Concurrency
//
// Everything here is synchronous, in-memory computation without shared
// state across calls. Callers may run independent builds concurrently.
package view

// Package pkg provides the core libraries for Flockview social graph
// exploration.
//
// # Overview
//
// Flockview turns raw social graph snapshots into bounded, connected,
// stably positioned views centered on a set of seed accounts. The pkg
// directory is organized into four main areas:
//
//  1. [socialgraph] - Domain model (snapshots, ids, adjacency, distances)
//  2. [view] - View building (ranked selection, connectivity repair, assembly)
//  3. [layout] - Positioning (Graphviz engines, frame alignment)
//  4. [pipeline] - Orchestration (build → layout → align) with stage caching
//
// # Architecture
//
// The typical data flow through Flockview:
//
//	Snapshot JSON (accounts + follow edges)
//	         ↓
//	    [socialgraph] package (decode, canonical ids, mutual adjacency)
//	         ↓
//	    [view] package (rank candidates, repair connectivity, assemble)
//	         ↓
//	    [layout] package (Graphviz positions, Procrustes alignment)
//	         ↓
//	    View + position frames (JSON)
//
// # Quick Start
//
// Build a view and position it:
//
//	import (
//	    "context"
//	    "github.com/flockview/flockview/pkg/pipeline"
//	    "github.com/flockview/flockview/pkg/socialgraph"
//	)
//
//	// 1. Load a snapshot
//	snap, _ := socialgraph.ReadSnapshotFile("snapshot.json")
//
//	// 2. Run the pipeline
//	runner := pipeline.NewRunner(nil, nil, nil)
//	opts := pipeline.Options{}
//	opts.Params.Seeds = []string{"visakanv"}
//	opts.Params.SubgraphSize = 150
//
//	result, _ := runner.Execute(context.Background(), snap, opts)
//	// result.View holds the nodes and links, result.Positions the coordinates.
//
// # Main Packages
//
// ## Domain Model
//
// [socialgraph] - Snapshot decoding with tolerant id canonicalization,
// mutual-only adjacency indexing, multi-source BFS hop distances, ordered
// composite score maps, and optional per-node metrics.
//
// [view] - The view builder. Ranked candidate selection around the seeds
// (composite scores with an in-group fallback), connectivity repair that
// bridges disconnected admitted nodes back to the seed component, and
// assembly into node and link records with structural annotations.
//
// [layout] - Position computation and stabilization. Runs a Graphviz layout
// engine (neato, fdp, sfdp, circo, twopi, dot) over the view's mutual
// skeleton and fits successive frames together with a similarity transform
// so repeated layouts stay visually continuous.
//
// ## Infrastructure
//
// [pipeline] - Complete exploration pipeline (build → layout → align) used
// by the CLI and the HTTP server. Content-addressed stage caching keyed by
// snapshot and view hashes; alignment always runs fresh.
//
// [cache] - Stage cache backends: file (CLI), memory (tests), Redis and
// MongoDB (servers), plus a null backend that disables caching. Includes
// SHA-256 content hashing and connection retry with backoff.
//
// [session] - Exploration session persistence: named sessions record seeds,
// parameters, and the latest position frame so a follow-up build can align
// against it.
//
// [search] - In-memory node search over built views with prefix and
// substring matching, backed by ordered sets.
//
// [errors] - Coded error values shared across the CLI and server, with
// user-facing messages and parameter validation helpers.
//
// [httputil] - HTTP plumbing for the API server: request ids, structured
// request logging, JSON responses, and the error envelope.
//
// [observability] - Hook points invoked at stage and cache boundaries,
// for metrics and tracing without wiring a specific backend.
//
// [buildinfo] - Build metadata (version, commit, date) injected at link
// time and shared by the CLI and the server.
//
// # Common Workflows
//
// Decode a snapshot from memory:
//
//	snap, _ := socialgraph.ReadSnapshot(bytes.NewReader(data))
//
// Build a view directly, without the pipeline:
//
//	params := view.Params{Seeds: []string{"visakanv"}, SubgraphSize: 150}
//	v, _ := view.Build(snap, params)
//
// Align a fresh frame onto a previous one:
//
//	aligned, stats := layout.Align(previous, current)
//	if stats.Aligned {
//	    // aligned is current re-expressed in previous's coordinate system
//	}
//
// Cache pipeline stages across runs:
//
//	c, _ := cache.NewFileCache(dir)
//	runner := pipeline.NewRunner(c, nil, logger)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...             # All tests
//	go test ./pkg/view/...        # Specific package
//	go test -run Example          # Examples only
//
// [socialgraph]: https://pkg.go.dev/github.com/flockview/flockview/pkg/socialgraph
// [view]: https://pkg.go.dev/github.com/flockview/flockview/pkg/view
// [layout]: https://pkg.go.dev/github.com/flockview/flockview/pkg/layout
// [pipeline]: https://pkg.go.dev/github.com/flockview/flockview/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/flockview/flockview/pkg/cache
// [session]: https://pkg.go.dev/github.com/flockview/flockview/pkg/session
// [search]: https://pkg.go.dev/github.com/flockview/flockview/pkg/search
// [errors]: https://pkg.go.dev/github.com/flockview/flockview/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/flockview/flockview/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/flockview/flockview/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/flockview/flockview/pkg/buildinfo
package pkg

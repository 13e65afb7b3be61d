// Package layout computes 2-D positions for built views and keeps them
// stable across rebuilds.
//
// # Overview
//
// Two independent halves live here. [Compute] runs a Graphviz layout engine
// over a view's visible graph and returns raw positions per node.
// [Align] then fits the similarity transform that best maps those fresh
// positions onto the previous frame's and re-expresses the whole frame in
// the old coordinate system, so parameter tweaks between rebuilds nudge the
// picture instead of scrambling it. Callers that keep no previous frame use
// [Compute] alone.
//
// # Alignment
//
// The fit is full 2-D Procrustes analysis over the ids present in both
// frames: subtract the centroids, normalize both point sets, and take the
// closed-form polar decomposition of their 2x2 cross-covariance, which
// yields the optimal rotation angle and uniform scale directly. Degenerate
// inputs (under two shared ids, coincident points, non-finite arithmetic)
// fall back to the unaligned positions per frame or per point instead of
// returning an error.
//
// # Positions
//
// Positions serialize as [x, y] pairs keyed by canonical id, the format
// renderers and the position cache share. Layout units are Graphviz inches;
// consumers scale to their own viewport.
package layout

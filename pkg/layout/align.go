package layout

import (
	"math"
	"slices"

	"github.com/flockview/flockview/pkg/socialgraph"
)

// degenerateNorm is the centered-norm threshold below which a point set is
// treated as a single point and alignment is skipped.
const degenerateNorm = 1e-12

// AlignStats reports what [Align] did. RMS values are root-of-summed
// squared distances between the two frames over the overlapping ids, before
// and after the transform.
type AlignStats struct {
	Aligned   bool    `json:"aligned" bson:"aligned"`
	Overlap   int     `json:"overlap" bson:"overlap"`
	RMSBefore float64 `json:"rmsBefore" bson:"rmsBefore"`
	RMSAfter  float64 `json:"rmsAfter" bson:"rmsAfter"`
	Scale     float64 `json:"scale" bson:"scale"`
}

// Align re-expresses a freshly computed frame in the previous frame's
// coordinate system, so that repeated rebuilds of roughly the same graph
// stay visually continuous instead of jumping.
//
// It fits the similarity transform (rotation, uniform scale, translation)
// that best maps the current positions onto the previous ones over the ids
// both frames share, by full Procrustes analysis: center both overlap sets,
// normalize each to unit size, and read the optimal rotation and scale off
// the closed-form 2x2 polar decomposition of their cross-covariance. The
// fitted transform is then applied to every position in the current frame,
// overlapping or not.
//
// Alignment degrades instead of failing. Fewer than two overlapping ids, or
// an overlap collapsed onto a single point, skips the transform entirely
// (Aligned false); a non-finite transformed coordinate keeps that node's
// original position. Whenever the transform is applied, RMSAfter never
// exceeds RMSBefore: the fitted family includes the identity, so doing
// nothing is the worst case.
func Align(previous, current PositionMap) (PositionMap, AlignStats) {
	overlap := make([]socialgraph.ID, 0, min(len(previous), len(current)))
	for id := range current {
		if _, ok := previous[id]; ok {
			overlap = append(overlap, id)
		}
	}
	slices.Sort(overlap)

	stats := AlignStats{Overlap: len(overlap), Scale: 1}
	out := make(PositionMap, len(current))
	for id, p := range current {
		out[id] = p
	}

	stats.RMSBefore = rms(previous, out, overlap)
	stats.RMSAfter = stats.RMSBefore
	if len(overlap) < 2 {
		return out, stats
	}

	// Centroids and centered norms of the overlapping points.
	var cp, cc Position
	for _, id := range overlap {
		cp.X += previous[id].X
		cp.Y += previous[id].Y
		cc.X += current[id].X
		cc.Y += current[id].Y
	}
	n := float64(len(overlap))
	cp.X, cp.Y = cp.X/n, cp.Y/n
	cc.X, cc.Y = cc.X/n, cc.Y/n

	var normPrev, normCur float64
	for _, id := range overlap {
		px, py := previous[id].X-cp.X, previous[id].Y-cp.Y
		qx, qy := current[id].X-cc.X, current[id].Y-cc.Y
		normPrev += px*px + py*py
		normCur += qx*qx + qy*qy
	}
	normPrev = math.Sqrt(normPrev)
	normCur = math.Sqrt(normCur)
	if normPrev < degenerateNorm || normCur < degenerateNorm {
		return out, stats
	}

	// Cross-covariance of the unit-normalized sets, reduced to the two
	// sums the 2x2 polar decomposition needs: dot is the trace, cross the
	// antisymmetric part. atan2(cross, dot) is the optimal rotation and
	// hypot(dot, cross) the optimal scale between the normalized sets.
	var dot, cross float64
	for _, id := range overlap {
		px, py := (previous[id].X-cp.X)/normPrev, (previous[id].Y-cp.Y)/normPrev
		qx, qy := (current[id].X-cc.X)/normCur, (current[id].Y-cc.Y)/normCur
		dot += px*qx + py*qy
		cross += py*qx - px*qy
	}

	theta := math.Atan2(cross, dot)
	sin, cos := math.Sincos(theta)
	scale := math.Hypot(dot, cross) * normPrev / normCur

	if !isFinite(scale) || !isFinite(sin) || !isFinite(cos) {
		return out, stats
	}

	for id, p := range out {
		x := (p.X - cc.X) * scale
		y := (p.Y - cc.Y) * scale
		aligned := Position{
			X: cp.X + x*cos - y*sin,
			Y: cp.Y + x*sin + y*cos,
		}
		if !isFinite(aligned.X) || !isFinite(aligned.Y) {
			continue
		}
		out[id] = aligned
	}

	stats.Aligned = true
	stats.Scale = scale
	stats.RMSAfter = rms(previous, out, overlap)
	return out, stats
}

// rms is the root of the summed squared distances between the two frames
// over the given ids.
func rms(previous, current PositionMap, ids []socialgraph.ID) float64 {
	var sum float64
	for _, id := range ids {
		dx := current[id].X - previous[id].X
		dy := current[id].Y - previous[id].Y
		sum += dx*dx + dy*dy
	}
	return math.Sqrt(sum)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

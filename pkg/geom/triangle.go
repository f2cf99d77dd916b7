// Package geom implements the exact triangle queries used by the level set
// passes: closest point on a triangle and 2D point-in-triangle with
// consistent tie breaking.
package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Region identifies the feature of a triangle that holds the closest point.
type Region uint8

// Feature regions of a triangle (a, b, c).
const (
	RegionInterior Region = iota
	RegionEdgeAB
	RegionEdgeBC
	RegionEdgeCA
	RegionVertexA
	RegionVertexB
	RegionVertexC
)

// String returns a human-readable region name.
func (r Region) String() string {
	switch r {
	case RegionInterior:
		return "Interior"
	case RegionEdgeAB:
		return "EdgeAB"
	case RegionEdgeBC:
		return "EdgeBC"
	case RegionEdgeCA:
		return "EdgeCA"
	case RegionVertexA:
		return "VertexA"
	case RegionVertexB:
		return "VertexB"
	case RegionVertexC:
		return "VertexC"
	default:
		return fmt.Sprintf("Unknown(%d)", r)
	}
}

// IsVertex returns true for the three vertex regions.
func (r Region) IsVertex() bool {
	return r == RegionVertexA || r == RegionVertexB || r == RegionVertexC
}

// IsEdge returns true for the three edge regions.
func (r Region) IsEdge() bool {
	return r == RegionEdgeAB || r == RegionEdgeBC || r == RegionEdgeCA
}

// degenerateEps is the relative squared-area threshold below which a
// triangle is treated as a set of segments.
const degenerateEps = 1e-14

// ClosestPointOnTriangle returns the point of triangle (a, b, c) nearest to p,
// its distance from p and the feature region it lies in.
//
// Near-zero-area triangles fall back to the nearest of the three edges, so
// the result is always finite for finite input.
func ClosestPointOnTriangle(p, a, b, c r3.Vec) (r3.Vec, float64, Region) {
	ab := r3.Sub(b, a)
	ac := r3.Sub(c, a)

	area2 := r3.Norm2(r3.Cross(ab, ac))
	scale := r3.Norm2(ab) * r3.Norm2(ac)
	if area2 <= degenerateEps*scale || scale == 0 {
		return closestOnEdges(p, a, b, c)
	}

	ap := r3.Sub(p, a)
	d1 := r3.Dot(ab, ap)
	d2 := r3.Dot(ac, ap)
	if d1 <= 0 && d2 <= 0 {
		return a, r3.Norm(ap), RegionVertexA
	}

	bp := r3.Sub(p, b)
	d3 := r3.Dot(ab, bp)
	d4 := r3.Dot(ac, bp)
	if d3 >= 0 && d4 <= d3 {
		return b, r3.Norm(bp), RegionVertexB
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		q := r3.Add(a, r3.Scale(v, ab))
		return q, r3.Norm(r3.Sub(p, q)), RegionEdgeAB
	}

	cp := r3.Sub(p, c)
	d5 := r3.Dot(ab, cp)
	d6 := r3.Dot(ac, cp)
	if d6 >= 0 && d5 <= d6 {
		return c, r3.Norm(cp), RegionVertexC
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		q := r3.Add(a, r3.Scale(w, ac))
		return q, r3.Norm(r3.Sub(p, q)), RegionEdgeCA
	}

	va := d3*d6 - d5*d4
	if va <= 0 && d4-d3 >= 0 && d5-d6 >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		q := r3.Add(b, r3.Scale(w, r3.Sub(c, b)))
		return q, r3.Norm(r3.Sub(p, q)), RegionEdgeBC
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	q := r3.Add(a, r3.Add(r3.Scale(v, ab), r3.Scale(w, ac)))
	return q, r3.Norm(r3.Sub(p, q)), RegionInterior
}

// PointTriangleDistance returns only the distance part of ClosestPointOnTriangle.
func PointTriangleDistance(p, a, b, c r3.Vec) float64 {
	_, d, _ := ClosestPointOnTriangle(p, a, b, c)
	return d
}

// closestOnEdges handles degenerate triangles by testing the three edges.
func closestOnEdges(p, a, b, c r3.Vec) (r3.Vec, float64, Region) {
	best, bestD, bestR := segmentRegion(p, a, b, RegionVertexA, RegionVertexB, RegionEdgeAB)
	if q, d, r := segmentRegion(p, b, c, RegionVertexB, RegionVertexC, RegionEdgeBC); d < bestD {
		best, bestD, bestR = q, d, r
	}
	if q, d, r := segmentRegion(p, c, a, RegionVertexC, RegionVertexA, RegionEdgeCA); d < bestD {
		best, bestD, bestR = q, d, r
	}
	return best, bestD, bestR
}

func segmentRegion(p, a, b r3.Vec, ra, rb, edge Region) (r3.Vec, float64, Region) {
	q, d, t := ClosestPointOnSegment(p, a, b)
	switch {
	case t <= 0:
		return q, d, ra
	case t >= 1:
		return q, d, rb
	default:
		return q, d, edge
	}
}

// ClosestPointOnSegment returns the point of segment ab nearest to p, its
// distance and the segment parameter t in [0, 1]. A zero-length segment
// yields a with t = 0.
func ClosestPointOnSegment(p, a, b r3.Vec) (r3.Vec, float64, float64) {
	ab := r3.Sub(b, a)
	l2 := r3.Norm2(ab)
	var t float64
	if l2 > 0 {
		t = r3.Dot(r3.Sub(p, a), ab) / l2
		t = math.Max(0, math.Min(1, t))
	}
	q := r3.Add(a, r3.Scale(t, ab))
	return q, r3.Norm(r3.Sub(p, q)), t
}

// PointSegmentDistance returns the distance from p to segment ab.
func PointSegmentDistance(p, a, b r3.Vec) float64 {
	_, d, _ := ClosestPointOnSegment(p, a, b)
	return d
}

// Normal returns the unit normal of triangle (a, b, c) following the
// right-hand rule, or the zero vector for a degenerate triangle.
func Normal(a, b, c r3.Vec) r3.Vec {
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	l := r3.Norm(n)
	if l == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/l, n)
}

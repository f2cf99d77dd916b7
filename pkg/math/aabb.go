package math

import (
	gomath "math"

	"gonum.org/v1/gonum/spatial/r3"
)

// AABB is an axis-aligned bounding box. The zero value is not empty; use
// EmptyAABB to start an accumulation.
type AABB struct {
	Min r3.Vec
	Max r3.Vec
}

// EmptyAABB returns a box that contains nothing. Extending it with a point
// yields the degenerate box at that point.
func EmptyAABB() AABB {
	inf := gomath.Inf(1)
	return AABB{Min: Splat(inf), Max: Splat(-inf)}
}

// IsEmpty reports whether the box contains no point.
func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend returns the smallest box containing b and p.
func (b AABB) Extend(p r3.Vec) AABB {
	return AABB{Min: MinElem(b.Min, p), Max: MaxElem(b.Max, p)}
}

// Union returns the smallest box containing both boxes.
func (b AABB) Union(o AABB) AABB {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return AABB{Min: MinElem(b.Min, o.Min), Max: MaxElem(b.Max, o.Max)}
}

// Expand grows the box by pad on all sides.
func (b AABB) Expand(pad float64) AABB {
	p := Splat(pad)
	return AABB{Min: r3.Sub(b.Min, p), Max: r3.Add(b.Max, p)}
}

// Size returns the extent along each axis.
func (b AABB) Size() r3.Vec {
	return r3.Sub(b.Max, b.Min)
}

// Center returns the center point.
func (b AABB) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// Contains reports whether p lies inside or on the box.
func (b AABB) Contains(p r3.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// TriangleBounds returns the bounding box of a triangle.
func TriangleBounds(a, b, c r3.Vec) AABB {
	return AABB{
		Min: MinElem(a, MinElem(b, c)),
		Max: MaxElem(a, MaxElem(b, c)),
	}
}

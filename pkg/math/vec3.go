// Package math provides vector helpers on top of gonum's r3 package.
package math

import (
	gomath "math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Component returns the coordinate of v along axis (0 = X, 1 = Y, 2 = Z).
func Component(v r3.Vec, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// WithComponent returns v with the coordinate along axis replaced by s.
func WithComponent(v r3.Vec, axis int, s float64) r3.Vec {
	switch axis {
	case 0:
		v.X = s
	case 1:
		v.Y = s
	default:
		v.Z = s
	}
	return v
}

// MinElem returns the component-wise minimum of a and b.
func MinElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: gomath.Min(a.X, b.X), Y: gomath.Min(a.Y, b.Y), Z: gomath.Min(a.Z, b.Z)}
}

// MaxElem returns the component-wise maximum of a and b.
func MaxElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: gomath.Max(a.X, b.X), Y: gomath.Max(a.Y, b.Y), Z: gomath.Max(a.Z, b.Z)}
}

// Splat returns a vector with all components set to s.
func Splat(s float64) r3.Vec {
	return r3.Vec{X: s, Y: s, Z: s}
}

// Dist2 returns the squared distance between a and b.
func Dist2(a, b r3.Vec) float64 {
	return r3.Norm2(r3.Sub(a, b))
}

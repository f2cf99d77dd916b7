// Package levelset computes dense signed distance fields from closed
// triangle meshes.
//
// The computation runs in three passes over a uniform grid: exact distances
// are seeded in a narrow band around every triangle, fast sweeping
// propagates closest-triangle references to the rest of the grid, and a
// ray-parity count along grid lines decides inside and outside.
package levelset

import (
	"errors"
	"fmt"
	gomath "math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/sdfgen/pkg/math"
)

// ErrInvalidGrid is returned for non-positive dimensions or spacing.
var ErrInvalidGrid = errors.New("invalid grid")

// Axis names a grid axis.
type Axis int

// Grid axes.
const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns the lowercase axis name.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// ParseAxis converts "x", "y" or "z" to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x", "X", "i":
		return AxisX, nil
	case "y", "Y", "j":
		return AxisY, nil
	case "z", "Z", "k", "":
		return AxisZ, nil
	default:
		return 0, fmt.Errorf("unknown axis %q", s)
	}
}

// Grid describes a uniform lattice of NI x NJ x NK nodes. Node (i, j, k)
// sits at Origin + (i, j, k) * Spacing.
type Grid struct {
	NI, NJ, NK int
	Origin     r3.Vec
	Spacing    float64
}

// MaxAxisNodes bounds each grid dimension so buffers can use int32
// triangle and crossing indices.
const MaxAxisNodes = gomath.MaxInt32 - 1

// Validate checks that all dimensions are in [1, MaxAxisNodes], that the
// node count fits in an int and that the spacing is a positive finite number.
func (g Grid) Validate() error {
	if g.NI < 1 || g.NJ < 1 || g.NK < 1 {
		return fmt.Errorf("%w: dimensions %dx%dx%d", ErrInvalidGrid, g.NI, g.NJ, g.NK)
	}
	if _, ok := g.Cells(); !ok {
		return fmt.Errorf("%w: dimensions %dx%dx%d overflow", ErrInvalidGrid, g.NI, g.NJ, g.NK)
	}
	if !(g.Spacing > 0) || gomath.IsInf(g.Spacing, 0) {
		return fmt.Errorf("%w: spacing %v", ErrInvalidGrid, g.Spacing)
	}
	return nil
}

// Len returns the number of nodes. It wraps for grids that fail Cells.
func (g Grid) Len() int {
	return g.NI * g.NJ * g.NK
}

// Cells returns the number of nodes, or false when a dimension exceeds
// MaxAxisNodes or the product does not fit in an int.
func (g Grid) Cells() (int, bool) {
	n := 1
	for _, d := range g.Dims() {
		if d < 0 || d > MaxAxisNodes {
			return 0, false
		}
		if d != 0 && n > gomath.MaxInt/d {
			return 0, false
		}
		n *= d
	}
	return n, true
}

// Dims returns the dimensions as an array indexed by Axis.
func (g Grid) Dims() [3]int {
	return [3]int{g.NI, g.NJ, g.NK}
}

// Index returns the flat index of node (i, j, k); i varies fastest.
func (g Grid) Index(i, j, k int) int {
	return i + g.NI*(j+g.NJ*k)
}

// Coords is the inverse of Index.
func (g Grid) Coords(idx int) (i, j, k int) {
	i = idx % g.NI
	idx /= g.NI
	j = idx % g.NJ
	k = idx / g.NJ
	return i, j, k
}

// Contains reports whether (i, j, k) is a node of the grid.
func (g Grid) Contains(i, j, k int) bool {
	return i >= 0 && j >= 0 && k >= 0 && i < g.NI && j < g.NJ && k < g.NK
}

// Position returns the world position of node (i, j, k).
func (g Grid) Position(i, j, k int) r3.Vec {
	return r3.Vec{
		X: g.Origin.X + float64(i)*g.Spacing,
		Y: g.Origin.Y + float64(j)*g.Spacing,
		Z: g.Origin.Z + float64(k)*g.Spacing,
	}
}

// ToGrid converts a world position to continuous grid coordinates.
func (g Grid) ToGrid(p r3.Vec) r3.Vec {
	return r3.Scale(1/g.Spacing, r3.Sub(p, g.Origin))
}

// Bounds returns the box spanned by the grid nodes.
func (g Grid) Bounds() math.AABB {
	return math.AABB{Min: g.Origin, Max: g.Position(g.NI-1, g.NJ-1, g.NK-1)}
}

// GridForBounds builds the grid used for a mesh with bounding box b.
// The box is padded by padding cells on every side; padding below 1 is
// raised to 1 and the effective value is returned. Each axis gets enough
// nodes to cover the padded box, so the node count is at least
// extent/spacing + 2. Axes that would need more than MaxAxisNodes nodes
// get MaxAxisNodes+1, which Validate rejects.
func GridForBounds(b math.AABB, spacing float64, padding int) (Grid, int) {
	if padding < 1 {
		padding = 1
	}
	padded := b.Expand(float64(padding) * spacing)
	size := padded.Size()

	// Ratios too large for an axis saturate one past MaxAxisNodes, so the
	// grid fails Validate instead of wrapping.
	count := func(span float64) int {
		r := gomath.Ceil(span/spacing - 1e-9)
		if !(r < MaxAxisNodes) {
			return MaxAxisNodes + 1
		}
		n := int(r) + 1
		if n < 1 {
			n = 1
		}
		return n
	}

	return Grid{
		NI:      count(size.X),
		NJ:      count(size.Y),
		NK:      count(size.Z),
		Origin:  padded.Min,
		Spacing: spacing,
	}, padding
}

// Array3 is a dense 3D array laid out like Grid.Index.
type Array3[T any] struct {
	NI, NJ, NK int
	Data       []T
}

// NewArray3 allocates an array filled with fill.
func NewArray3[T any](ni, nj, nk int, fill T) *Array3[T] {
	a := &Array3[T]{NI: ni, NJ: nj, NK: nk, Data: make([]T, ni*nj*nk)}
	a.Fill(fill)
	return a
}

// Fill sets every element to v.
func (a *Array3[T]) Fill(v T) {
	for i := range a.Data {
		a.Data[i] = v
	}
}

// Index returns the flat index of (i, j, k).
func (a *Array3[T]) Index(i, j, k int) int {
	return i + a.NI*(j+a.NJ*k)
}

// At returns the element at (i, j, k).
func (a *Array3[T]) At(i, j, k int) T {
	return a.Data[a.Index(i, j, k)]
}

// Set stores v at (i, j, k).
func (a *Array3[T]) Set(i, j, k int, v T) {
	a.Data[a.Index(i, j, k)] = v
}

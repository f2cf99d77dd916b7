package levelset

import (
	"fmt"
	gomath "math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Field is a dense signed distance field. Values are laid out like
// Grid.Index: i varies fastest, then j, then k. Negative values are inside.
type Field struct {
	Grid
	Values []float64
}

// NewField allocates a zero field on g.
func NewField(g Grid) *Field {
	return &Field{Grid: g, Values: make([]float64, g.Len())}
}

// Check verifies that the value count matches the grid.
func (f *Field) Check() error {
	if err := f.Grid.Validate(); err != nil {
		return err
	}
	if len(f.Values) != f.Len() {
		return fmt.Errorf("field has %d values for a %dx%dx%d grid", len(f.Values), f.NI, f.NJ, f.NK)
	}
	return nil
}

// At returns the value at node (i, j, k).
func (f *Field) At(i, j, k int) float64 {
	return f.Values[f.Index(i, j, k)]
}

// Set stores v at node (i, j, k).
func (f *Field) Set(i, j, k int, v float64) {
	f.Values[f.Index(i, j, k)] = v
}

// Range returns the smallest and largest finite value. Both are NaN when
// the field holds no finite value.
func (f *Field) Range() (lo, hi float64) {
	lo, hi = gomath.Inf(1), gomath.Inf(-1)
	for _, v := range f.Values {
		if gomath.IsInf(v, 0) || gomath.IsNaN(v) {
			continue
		}
		lo = gomath.Min(lo, v)
		hi = gomath.Max(hi, v)
	}
	if lo > hi {
		return gomath.NaN(), gomath.NaN()
	}
	return lo, hi
}

// InsideCount returns the number of nodes with a negative value.
func (f *Field) InsideCount() int {
	n := 0
	for _, v := range f.Values {
		if v < 0 {
			n++
		}
	}
	return n
}

// Sample interpolates the field trilinearly at world position p. Positions
// outside the grid are clamped to its boundary.
func (f *Field) Sample(p r3.Vec) float64 {
	gp := f.ToGrid(p)
	i0, i1, tx := lerpCell(gp.X, f.NI)
	j0, j1, ty := lerpCell(gp.Y, f.NJ)
	k0, k1, tz := lerpCell(gp.Z, f.NK)

	lerp := func(a, b, t float64) float64 { return a + (b-a)*t }

	c00 := lerp(f.At(i0, j0, k0), f.At(i1, j0, k0), tx)
	c10 := lerp(f.At(i0, j1, k0), f.At(i1, j1, k0), tx)
	c01 := lerp(f.At(i0, j0, k1), f.At(i1, j0, k1), tx)
	c11 := lerp(f.At(i0, j1, k1), f.At(i1, j1, k1), tx)
	return lerp(lerp(c00, c10, ty), lerp(c01, c11, ty), tz)
}

func lerpCell(x float64, n int) (int, int, float64) {
	if n == 1 {
		return 0, 0, 0
	}
	x = gomath.Max(0, gomath.Min(float64(n-1), x))
	i := int(gomath.Floor(x))
	if i >= n-1 {
		i = n - 2
	}
	return i, i + 1, x - float64(i)
}

// Assemble combines unsigned distances with the inside mask: inside nodes
// take the negated distance.
func Assemble(dist *Array3[float64], inside *Array3[bool], g Grid) *Field {
	f := &Field{Grid: g, Values: make([]float64, len(dist.Data))}
	for i, d := range dist.Data {
		if inside.Data[i] {
			d = -d
		}
		f.Values[i] = d
	}
	return f
}

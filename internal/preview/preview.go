// Package preview renders axis-aligned slices of a distance field as PNG
// heat maps with the zero level drawn as a contour.
package preview

import (
	"fmt"
	"image/color"
	gomath "math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Faultbox/sdfgen/pkg/levelset"
	"github.com/Faultbox/sdfgen/pkg/math"
)

// Size is the edge length of the rendered image.
const Size = 6 * vg.Inch

// slice adapts one layer of a field to plotter.GridXYZ. Columns run along
// the first in-plane axis and rows along the second.
type slice struct {
	f        *levelset.Field
	normal   levelset.Axis
	u, v     int
	index    int
	clampVal float64
}

func newSlice(f *levelset.Field, normal levelset.Axis, index int) (*slice, error) {
	dims := f.Dims()
	n := dims[normal]
	if index < 0 {
		index = n / 2
	}
	if index >= n {
		return nil, fmt.Errorf("slice %d out of range: %v axis has %d nodes", index, normal, n)
	}
	s := &slice{f: f, normal: normal, index: index}
	s.u = (int(normal) + 1) % 3
	s.v = (int(normal) + 2) % 3
	if s.u > s.v {
		s.u, s.v = s.v, s.u
	}
	return s, nil
}

func (s *slice) node(c, r int) (i, j, k int) {
	var ijk [3]int
	ijk[s.normal] = s.index
	ijk[s.u] = c
	ijk[s.v] = r
	return ijk[0], ijk[1], ijk[2]
}

func (s *slice) Dims() (c, r int) {
	dims := s.f.Dims()
	return dims[s.u], dims[s.v]
}

// Z returns the field value, with unreached cells clamped to clampVal so
// the heat map and contour only see finite numbers.
func (s *slice) Z(c, r int) float64 {
	z := s.f.At(s.node(c, r))
	switch {
	case gomath.IsInf(z, 1) || gomath.IsNaN(z):
		return s.clampVal
	case gomath.IsInf(z, -1):
		return -s.clampVal
	}
	return z
}

func (s *slice) X(c int) float64 {
	return math.Component(s.f.Origin, s.u) + float64(c)*s.f.Spacing
}

func (s *slice) Y(r int) float64 {
	return math.Component(s.f.Origin, s.v) + float64(r)*s.f.Spacing
}

// finiteBound returns the largest finite magnitude in the slice, or 1 when
// there is none.
func (s *slice) finiteBound() float64 {
	nc, nr := s.Dims()
	m := 0.0
	for r := 0; r < nr; r++ {
		for c := 0; c < nc; c++ {
			z := s.f.At(s.node(c, r))
			if !gomath.IsInf(z, 0) && !gomath.IsNaN(z) {
				m = gomath.Max(m, gomath.Abs(z))
			}
		}
	}
	if m == 0 {
		return 1
	}
	return m
}

type solid struct{ c color.Color }

func (p solid) Colors() []color.Color { return []color.Color{p.c} }

// Plot builds the plot of one slice. index -1 selects the middle slice.
func Plot(f *levelset.Field, normal levelset.Axis, index int) (*plot.Plot, error) {
	if err := f.Check(); err != nil {
		return nil, err
	}
	if normal < levelset.AxisX || normal > levelset.AxisZ {
		return nil, fmt.Errorf("invalid slice axis %v", normal)
	}
	s, err := newSlice(f, normal, index)
	if err != nil {
		return nil, err
	}
	bound := s.finiteBound()
	s.clampVal = bound

	p := plot.New()
	p.Title.Text = fmt.Sprintf("phi, %v = %d", normal, s.index)
	p.X.Label.Text = levelset.Axis(s.u).String()
	p.Y.Label.Text = levelset.Axis(s.v).String()

	hm := plotter.NewHeatMap(s, palette.Heat(12, 1))
	hm.Min, hm.Max = -bound, bound
	p.Add(hm)

	zero := plotter.NewContour(s, []float64{0}, solid{color.Black})
	p.Add(zero)
	return p, nil
}

// RenderSlice saves a PNG of one slice of f to path. index -1 selects the
// middle slice along normal.
func RenderSlice(f *levelset.Field, normal levelset.Axis, index int, path string) error {
	p, err := Plot(f, normal, index)
	if err != nil {
		return err
	}
	if err := p.Save(Size, Size, path); err != nil {
		return fmt.Errorf("saving preview %s: %w", path, err)
	}
	return nil
}

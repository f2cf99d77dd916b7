package preview

import (
	"bytes"
	gomath "math"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/sdfgen/pkg/levelset"
)

// sphereField fills a grid with the analytic distance to a unit sphere.
func sphereField() *levelset.Field {
	g := levelset.Grid{NI: 9, NJ: 7, NK: 5, Origin: r3.Vec{X: -2, Y: -1.5, Z: -1}, Spacing: 0.5}
	f := levelset.NewField(g)
	for idx := range f.Values {
		i, j, k := g.Coords(idx)
		f.Values[idx] = r3.Norm(g.Position(i, j, k)) - 1
	}
	return f
}

func TestSliceAdapter(t *testing.T) {
	f := sphereField()

	tests := []struct {
		normal       levelset.Axis
		wantC, wantR int
	}{
		{levelset.AxisZ, 9, 7},
		{levelset.AxisY, 9, 5},
		{levelset.AxisX, 7, 5},
	}
	for _, tt := range tests {
		t.Run(tt.normal.String(), func(t *testing.T) {
			s, err := newSlice(f, tt.normal, -1)
			if err != nil {
				t.Fatal(err)
			}
			if c, r := s.Dims(); c != tt.wantC || r != tt.wantR {
				t.Errorf("Dims = %d, %d; want %d, %d", c, r, tt.wantC, tt.wantR)
			}
			if s.index != f.Dims()[tt.normal]/2 {
				t.Errorf("middle index = %d", s.index)
			}
		})
	}

	s, err := newSlice(f, levelset.AxisZ, 2)
	if err != nil {
		t.Fatal(err)
	}
	// Column 4, row 3 of the middle z slice is the origin node.
	if got := s.Z(4, 3); gomath.Abs(got+1) > 1e-12 {
		t.Errorf("Z(4, 3) = %v, want -1", got)
	}
	if s.X(4) != 0 || s.Y(3) != 0 {
		t.Errorf("X, Y = %v, %v; want 0, 0", s.X(4), s.Y(3))
	}

	if _, err := newSlice(f, levelset.AxisZ, 5); err == nil {
		t.Error("expected out of range error")
	}
}

func TestSliceClampsInfinity(t *testing.T) {
	f := sphereField()
	f.Set(0, 0, 2, gomath.Inf(1))

	s, err := newSlice(f, levelset.AxisZ, 2)
	if err != nil {
		t.Fatal(err)
	}
	s.clampVal = s.finiteBound()
	if z := s.Z(0, 0); gomath.IsInf(z, 0) || z != s.clampVal {
		t.Errorf("Z of unreached cell = %v, want %v", z, s.clampVal)
	}
}

func TestRenderSlice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slice.png")
	if err := RenderSlice(sphereField(), levelset.AxisZ, -1, path); err != nil {
		t.Fatalf("RenderSlice failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestRenderSliceConstantField(t *testing.T) {
	f := levelset.NewField(levelset.Grid{NI: 3, NJ: 3, NK: 3, Spacing: 1})
	for i := range f.Values {
		f.Values[i] = gomath.Inf(1)
	}
	path := filepath.Join(t.TempDir(), "flat.png")
	if err := RenderSlice(f, levelset.AxisX, 0, path); err != nil {
		t.Fatalf("RenderSlice failed: %v", err)
	}
}

func TestPlotErrors(t *testing.T) {
	f := sphereField()
	if _, err := Plot(f, levelset.Axis(7), 0); err == nil {
		t.Error("expected error for bad axis")
	}
	f.Values = f.Values[:1]
	if _, err := Plot(f, levelset.AxisZ, 0); err == nil {
		t.Error("expected error for inconsistent field")
	}
}

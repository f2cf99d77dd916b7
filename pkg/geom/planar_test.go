package geom

import (
	"math"
	"testing"
)

type tri2 [3][2]float64

func (t tri2) contains(x, y float64) bool {
	_, _, _, ok := PointInTriangle2D(x, y, t[0][0], t[0][1], t[1][0], t[1][1], t[2][0], t[2][1])
	return ok
}

func (t tri2) reversed() tri2 {
	return tri2{t[0], t[2], t[1]}
}

func TestOrientation2D_Antisymmetric(t *testing.T) {
	pts := [][2]float64{{0, 0}, {1, 0}, {0, 1}, {-1, -1}, {2, 2}, {1, 1}, {0, -3}}
	for _, p := range pts {
		for _, q := range pts {
			s1, a1 := Orientation2D(p[0], p[1], q[0], q[1])
			s2, a2 := Orientation2D(q[0], q[1], p[0], p[1])
			if s1 != -s2 {
				t.Errorf("Orientation2D(%v,%v)=%d but reversed=%d", p, q, s1, s2)
			}
			if a1 != -a2 {
				t.Errorf("area not antisymmetric: %v vs %v", a1, a2)
			}
			if p == q && s1 != 0 {
				t.Errorf("coincident points should give 0, got %d", s1)
			}
		}
	}
}

func TestPointInTriangle2D_Barycentric(t *testing.T) {
	a, b, c, ok := PointInTriangle2D(0.25, 0.25, 0, 0, 1, 0, 0, 1)
	if !ok {
		t.Fatal("interior point not contained")
	}
	if math.Abs(a+b+c-1) > 1e-12 {
		t.Errorf("weights sum to %v", a+b+c)
	}
	x := a*0 + b*1 + c*0
	y := a*0 + b*0 + c*1
	if math.Abs(x-0.25) > 1e-12 || math.Abs(y-0.25) > 1e-12 {
		t.Errorf("weights reconstruct (%v,%v), want (0.25,0.25)", x, y)
	}

	if _, _, _, ok := PointInTriangle2D(2, 2, 0, 0, 1, 0, 0, 1); ok {
		t.Error("outside point reported as contained")
	}
}

func TestPointInTriangle2D_Degenerate(t *testing.T) {
	if _, _, _, ok := PointInTriangle2D(0.5, 0, 0, 0, 1, 0, 2, 0); ok {
		t.Error("degenerate triangle must not contain points on its segment")
	}
	if _, _, _, ok := PointInTriangle2D(0, 0, 0, 0, 0, 0, 0, 0); ok {
		t.Error("point triangle must not contain its point")
	}
}

// A unit square split along its diagonal: every lattice point strictly inside
// the square, including those on the shared diagonal, is claimed by exactly
// one triangle, with either winding.
func TestPointInTriangle2D_SharedEdgeCountedOnce(t *testing.T) {
	lower := tri2{{0, 0}, {1, 0}, {1, 1}}
	upper := tri2{{0, 0}, {1, 1}, {0, 1}}

	windings := map[string][2]tri2{
		"ccw": {lower, upper},
		"cw":  {lower.reversed(), upper.reversed()},
	}

	const n = 8
	for name, pair := range windings {
		t.Run(name, func(t *testing.T) {
			for i := 0; i <= n; i++ {
				for j := 0; j <= n; j++ {
					x := float64(i) / n
					y := float64(j) / n
					count := 0
					for _, tr := range pair {
						if tr.contains(x, y) {
							count++
						}
					}
					onBoundary := i == 0 || j == 0 || i == n || j == n
					if !onBoundary && count != 1 {
						t.Errorf("(%v,%v) claimed %d times, want 1", x, y, count)
					}
					if onBoundary && count > 1 {
						t.Errorf("boundary point (%v,%v) claimed %d times", x, y, count)
					}
				}
			}
		})
	}
}

// Reversing the winding of a triangle must not change which points it
// contains; the sign pass relies on this for front and back faces.
func TestPointInTriangle2D_WindingInvariant(t *testing.T) {
	tr := tri2{{0, 0}, {2, 0}, {0, 2}}
	for i := -1; i <= 5; i++ {
		for j := -1; j <= 5; j++ {
			x, y := float64(i)/2, float64(j)/2
			if tr.contains(x, y) != tr.reversed().contains(x, y) {
				t.Errorf("(%v,%v): winding changed containment", x, y)
			}
		}
	}
}

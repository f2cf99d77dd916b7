package mesh

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// tetrahedron returns a closed, outward-oriented unit corner tetrahedron.
func tetrahedron() ([]Vertex, []Face) {
	vertices := []Vertex{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	}
	faces := []Face{
		{0, 2, 1},
		{0, 1, 3},
		{0, 3, 2},
		{1, 2, 3},
	}
	return vertices, faces
}

func TestNew_Valid(t *testing.T) {
	m, err := New(tetrahedron())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if m.VertexCount() != 4 {
		t.Errorf("expected 4 vertices, got %d", m.VertexCount())
	}
	if m.FaceCount() != 4 {
		t.Errorf("expected 4 faces, got %d", m.FaceCount())
	}
	if m.IsEmpty() {
		t.Error("mesh should not be empty")
	}
	if m.Bounds.Min != (r3.Vec{}) || m.Bounds.Max != (r3.Vec{X: 1, Y: 1, Z: 1}) {
		t.Errorf("unexpected bounds %v..%v", m.Bounds.Min, m.Bounds.Max)
	}
}

func TestNew_FaceIndexOutOfRange(t *testing.T) {
	vertices, faces := tetrahedron()

	tests := []struct {
		name string
		face Face
	}{
		{"too large", Face{0, 1, 4}},
		{"negative", Face{-1, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := append(append([]Face(nil), faces...), tt.face)
			_, err := New(vertices, bad)
			if !errors.Is(err, ErrFaceIndex) {
				t.Errorf("expected ErrFaceIndex, got %v", err)
			}
		})
	}
}

func TestTriangleAndBounds(t *testing.T) {
	m, err := New(tetrahedron())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	a, b, c := m.Triangle(3)
	if a != m.Vertices[1] || b != m.Vertices[2] || c != m.Vertices[3] {
		t.Errorf("Triangle(3) = %v %v %v", a, b, c)
	}

	bb := m.TriangleBounds(0)
	if bb.Min != (r3.Vec{}) || bb.Max != (r3.Vec{X: 1, Y: 1}) {
		t.Errorf("TriangleBounds(0) = %v..%v", bb.Min, bb.Max)
	}
}

func TestSurfaceArea(t *testing.T) {
	m, err := New(tetrahedron())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	// Three right triangles of area 1/2 plus an equilateral one of side sqrt(2).
	want := 1.5 + math.Sqrt(3)/2
	if got := m.SurfaceArea(); math.Abs(got-want) > 1e-12 {
		t.Errorf("SurfaceArea() = %v, want %v", got, want)
	}
}

func TestTranslate(t *testing.T) {
	m, err := New(tetrahedron())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	moved := m.Translate(r3.Vec{X: 2, Y: -1, Z: 0.5})

	if moved.Bounds.Min != (r3.Vec{X: 2, Y: -1, Z: 0.5}) {
		t.Errorf("translated min = %v", moved.Bounds.Min)
	}
	if m.Vertices[0] != (r3.Vec{}) {
		t.Error("Translate mutated the original mesh")
	}
}

func TestAudit(t *testing.T) {
	vertices, faces := tetrahedron()

	tests := []struct {
		name        string
		faces       []Face
		closed      bool
		boundary    int
		conflicts   int
		degenerate  int
		nonManifold int
	}{
		{"closed", faces, true, 0, 0, 0, 0},
		{"missing face", faces[:3], false, 3, 0, 0, 0},
		{"flipped face", append(append([]Face(nil), faces[:3]...), Face{1, 3, 2}), false, 0, 3, 0, 0},
		{"degenerate face", append(append([]Face(nil), faces...), Face{0, 0, 1}), true, 0, 0, 1, 0},
		{"duplicated face", append(append([]Face(nil), faces...), Face{3, 2, 1}), false, 0, 3, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(vertices, tt.faces)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			a := m.Audit()
			if a.Closed() != tt.closed {
				t.Errorf("Closed() = %v, want %v (%+v)", a.Closed(), tt.closed, a)
			}
			if a.BoundaryEdges != tt.boundary {
				t.Errorf("BoundaryEdges = %d, want %d", a.BoundaryEdges, tt.boundary)
			}
			if a.OrientationConflict != tt.conflicts {
				t.Errorf("OrientationConflict = %d, want %d", a.OrientationConflict, tt.conflicts)
			}
			if a.DegenerateFaces != tt.degenerate {
				t.Errorf("DegenerateFaces = %d, want %d", a.DegenerateFaces, tt.degenerate)
			}
			if a.NonManifoldEdges != tt.nonManifold {
				t.Errorf("NonManifoldEdges = %d, want %d", a.NonManifoldEdges, tt.nonManifold)
			}
		})
	}
}

// Package mesh holds the triangle mesh consumed by the level set engine.
package mesh

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/sdfgen/pkg/math"
)

// ErrFaceIndex is returned when a face references a missing vertex.
var ErrFaceIndex = errors.New("face index out of range")

// Vertex is a mesh vertex position.
type Vertex = r3.Vec

// Face holds three vertex indices. Winding is counter-clockwise when viewed
// from outside for an outward-oriented mesh.
type Face [3]int

// Triangulation is an indexed triangle mesh with its bounding box.
// It is built once by a reader and treated as read-only afterwards.
type Triangulation struct {
	Vertices []Vertex
	Faces    []Face
	Bounds   math.AABB
}

// New builds a Triangulation, validating face indices and accumulating the
// bounding box. The slices are retained, not copied.
func New(vertices []Vertex, faces []Face) (*Triangulation, error) {
	m := &Triangulation{
		Vertices: vertices,
		Faces:    faces,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.Bounds = boundsOf(vertices)
	return m, nil
}

// Validate checks that every face index is within [0, VertexCount).
func (m *Triangulation) Validate() error {
	n := len(m.Vertices)
	for fi, f := range m.Faces {
		for corner, vi := range f {
			if vi < 0 || vi >= n {
				return fmt.Errorf("%w: face %d corner %d references vertex %d of %d",
					ErrFaceIndex, fi, corner, vi, n)
			}
		}
	}
	return nil
}

func boundsOf(vertices []Vertex) math.AABB {
	b := math.EmptyAABB()
	for _, v := range vertices {
		b = b.Extend(v)
	}
	return b
}

// VertexCount returns the number of vertices.
func (m *Triangulation) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of triangles.
func (m *Triangulation) FaceCount() int {
	return len(m.Faces)
}

// IsEmpty returns true if the mesh has no triangles.
func (m *Triangulation) IsEmpty() bool {
	return len(m.Faces) == 0
}

// Triangle returns the corner positions of face f.
func (m *Triangulation) Triangle(f int) (a, b, c r3.Vec) {
	face := m.Faces[f]
	return m.Vertices[face[0]], m.Vertices[face[1]], m.Vertices[face[2]]
}

// TriangleBounds returns the bounding box of face f.
func (m *Triangulation) TriangleBounds(f int) math.AABB {
	a, b, c := m.Triangle(f)
	return math.TriangleBounds(a, b, c)
}

// SurfaceArea returns the total triangle area.
func (m *Triangulation) SurfaceArea() float64 {
	var area float64
	for f := range m.Faces {
		a, b, c := m.Triangle(f)
		area += 0.5 * r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))
	}
	return area
}

// Translate returns a copy of the mesh moved by offset.
func (m *Triangulation) Translate(offset r3.Vec) *Triangulation {
	vertices := make([]Vertex, len(m.Vertices))
	for i, v := range m.Vertices {
		vertices[i] = r3.Add(v, offset)
	}
	faces := make([]Face, len(m.Faces))
	copy(faces, m.Faces)
	return &Triangulation{
		Vertices: vertices,
		Faces:    faces,
		Bounds:   boundsOf(vertices),
	}
}

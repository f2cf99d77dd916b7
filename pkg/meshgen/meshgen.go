// Package meshgen builds closed triangle meshes of simple solids, for tests
// and for generating sample input.
package meshgen

import (
	"errors"
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/sdfgen/pkg/mesh"
)

// ErrUnknownShape is returned by Generate for unsupported shape names.
var ErrUnknownShape = errors.New("unknown shape")

// DefaultCells is the marching cubes resolution along the longest axis.
const DefaultCells = 64

// boxFaces lists the 12 outward-facing triangles of a box whose corner n
// has max coordinates on the axes set in n's bits (x=1, y=2, z=4).
var boxFaces = []mesh.Face{
	{0, 4, 6}, {0, 6, 2}, // -x
	{1, 3, 7}, {1, 7, 5}, // +x
	{0, 1, 5}, {0, 5, 4}, // -y
	{2, 6, 7}, {2, 7, 3}, // +y
	{0, 2, 3}, {0, 3, 1}, // -z
	{4, 5, 7}, {4, 7, 6}, // +z
}

// Box returns an exact axis-aligned box with 8 shared vertices and 12
// triangles wound counter-clockwise seen from outside.
func Box(center, half r3.Vec) *mesh.Triangulation {
	lo := r3.Sub(center, half)
	hi := r3.Add(center, half)

	vertices := make([]mesh.Vertex, 8)
	for n := range vertices {
		v := lo
		if n&1 != 0 {
			v.X = hi.X
		}
		if n&2 != 0 {
			v.Y = hi.Y
		}
		if n&4 != 0 {
			v.Z = hi.Z
		}
		vertices[n] = v
	}
	faces := make([]mesh.Face, len(boxFaces))
	copy(faces, boxFaces)

	m, _ := mesh.New(vertices, faces) // indices are fixed and valid
	return m
}

// FromSolid tessellates an sdfx solid with uniform marching cubes. cells is
// the resolution along the longest axis of the solid's bounding box. The
// result is a triangle soup: three vertices per triangle.
func FromSolid(s sdf.SDF3, cells int) (*mesh.Triangulation, error) {
	if cells < 2 {
		return nil, fmt.Errorf("marching cubes needs at least 2 cells, got %d", cells)
	}
	tris := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))

	vertices := make([]mesh.Vertex, 0, 3*len(tris))
	faces := make([]mesh.Face, 0, len(tris))
	for _, tri := range tris {
		base := len(vertices)
		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, mesh.Vertex{X: v.X, Y: v.Y, Z: v.Z})
		}
		faces = append(faces, mesh.Face{base, base + 1, base + 2})
	}
	if len(faces) == 0 {
		return nil, errors.New("tessellation produced no triangles")
	}
	return mesh.New(vertices, faces)
}

// Sphere tessellates a sphere of the given radius centered at the origin.
func Sphere(radius float64, cells int) (*mesh.Triangulation, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sphere: %w", err)
	}
	return FromSolid(s, cells)
}

// Cylinder tessellates a cylinder along z centered at the origin.
func Cylinder(height, radius float64, cells int) (*mesh.Triangulation, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}
	return FromSolid(s, cells)
}

// TessellatedBox tessellates a box of the given edge lengths centered at the
// origin, optionally with rounded edges.
func TessellatedBox(size r3.Vec, round float64, cells int) (*mesh.Triangulation, error) {
	s, err := sdf.Box3D(v3.Vec{X: size.X, Y: size.Y, Z: size.Z}, round)
	if err != nil {
		return nil, fmt.Errorf("box: %w", err)
	}
	return FromSolid(s, cells)
}

// Generate builds a named shape of characteristic size (edge length for box,
// diameter for sphere and cylinder). A box is always exact; cells only
// applies to tessellated shapes and defaults to DefaultCells when below 2.
func Generate(shape string, size float64, cells int) (*mesh.Triangulation, error) {
	if !(size > 0) {
		return nil, fmt.Errorf("size must be positive, got %v", size)
	}
	if cells < 2 {
		cells = DefaultCells
	}
	switch shape {
	case "box", "cube":
		return Box(r3.Vec{}, r3.Vec{X: size / 2, Y: size / 2, Z: size / 2}), nil
	case "sphere":
		return Sphere(size/2, cells)
	case "cylinder":
		return Cylinder(size, size/2, cells)
	case "rounded-box":
		return TessellatedBox(r3.Vec{X: size, Y: size, Z: size}, size/8, cells)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, shape)
	}
}

package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Audit summarizes the edge topology of a mesh. Edges are matched by vertex
// position, so triangle soups without shared indices are audited the same
// way as indexed meshes.
type Audit struct {
	Edges               int // distinct undirected edges
	BoundaryEdges       int // edges used by a single face
	NonManifoldEdges    int // edges used by more than two faces
	OrientationConflict int // directed edges used twice in the same direction
	DegenerateFaces     int // faces with repeated corner positions
}

// Closed reports whether every edge is shared by exactly two faces with
// opposite directions, which is what the sign pass needs.
func (a Audit) Closed() bool {
	return a.BoundaryEdges == 0 && a.NonManifoldEdges == 0 && a.OrientationConflict == 0
}

type edgeKey [2]r3.Vec

func lessVec(a, b r3.Vec) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}

// Audit walks all faces and classifies their edges.
func (m *Triangulation) Audit() Audit {
	var res Audit
	undirected := make(map[edgeKey]int, len(m.Faces)*3/2)
	directed := make(map[edgeKey]int, len(m.Faces)*3)

	for f := range m.Faces {
		a, b, c := m.Triangle(f)
		if a == b || b == c || c == a {
			res.DegenerateFaces++
			continue
		}
		corners := [3]r3.Vec{a, b, c}
		for e := 0; e < 3; e++ {
			p, q := corners[e], corners[(e+1)%3]
			directed[edgeKey{p, q}]++
			if lessVec(q, p) {
				p, q = q, p
			}
			undirected[edgeKey{p, q}]++
		}
	}

	res.Edges = len(undirected)
	for _, n := range undirected {
		switch {
		case n == 1:
			res.BoundaryEdges++
		case n > 2:
			res.NonManifoldEdges++
		}
	}
	for _, n := range directed {
		if n > 1 {
			res.OrientationConflict++
		}
	}
	return res
}

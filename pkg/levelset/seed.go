package levelset

import (
	"context"
	gomath "math"

	"github.com/Faultbox/sdfgen/pkg/geom"
	"github.com/Faultbox/sdfgen/pkg/math"
	"github.com/Faultbox/sdfgen/pkg/mesh"
)

// NoTriangle marks a cell without a closest-triangle reference.
const NoTriangle int32 = -1

// State is the mutable working set shared by the seeding and sweep passes:
// the unsigned distance of every node and the index of the triangle that
// produced it. Closest is a back-reference only; the distance can always be
// recomputed from the mesh.
type State struct {
	Grid    Grid
	Dist    *Array3[float64]
	Closest *Array3[int32]
}

// NewState allocates a state with every distance at +Inf and no triangle
// references.
func NewState(g Grid) *State {
	return &State{
		Grid:    g,
		Dist:    NewArray3(g.NI, g.NJ, g.NK, gomath.Inf(1)),
		Closest: NewArray3(g.NI, g.NJ, g.NK, NoTriangle),
	}
}

// Seeded returns the number of cells holding a triangle reference.
func (s *State) Seeded() int {
	n := 0
	for _, t := range s.Closest.Data {
		if t != NoTriangle {
			n++
		}
	}
	return n
}

// Unreached returns the number of cells still at +Inf.
func (s *State) Unreached() int {
	n := 0
	for _, d := range s.Dist.Data {
		if gomath.IsInf(d, 1) {
			n++
		}
	}
	return n
}

// cellRange converts a world-space box to the inclusive node range it
// covers, grown by band nodes and clamped to the grid. ok is false when the
// grown box misses the grid entirely.
func cellRange(g Grid, b math.AABB, band int) (lo, hi [3]int, ok bool) {
	gmin := g.ToGrid(b.Min)
	gmax := g.ToGrid(b.Max)
	dims := g.Dims()
	for axis := 0; axis < 3; axis++ {
		l := int(gomath.Floor(math.Component(gmin, axis))) - band
		h := int(gomath.Ceil(math.Component(gmax, axis))) + band
		if h < 0 || l > dims[axis]-1 {
			return lo, hi, false
		}
		lo[axis] = max(l, 0)
		hi[axis] = min(h, dims[axis]-1)
	}
	return lo, hi, true
}

// Seed computes exact distances from every triangle to the nodes inside its
// bounding box grown by band cells (at least 1). A node keeps the strictly
// smallest distance seen and the index of that triangle. Triangles whose
// box misses the grid are skipped.
//
// With workers > 1 the k axis is split into disjoint slabs, one goroutine
// each. Every slab visits triangles in index order, so the result matches
// the serial pass exactly. It returns the number of seeded cells.
func Seed(ctx context.Context, st *State, m *mesh.Triangulation, band, workers int) (int, error) {
	if band < 1 {
		band = 1
	}
	g := st.Grid
	dist := st.Dist.Data
	closest := st.Closest.Data

	err := forEachSpan(ctx, splitRange(g.NK, workerCount(workers)), func(ctx context.Context, slab span) error {
		for f := range m.Faces {
			if f%cancelCheckEvery == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}

			a, b, c := m.Triangle(f)
			lo, hi, ok := cellRange(g, math.TriangleBounds(a, b, c), band)
			if !ok {
				continue
			}
			k0 := max(lo[2], slab.lo)
			k1 := min(hi[2], slab.hi-1)

			for k := k0; k <= k1; k++ {
				for j := lo[1]; j <= hi[1]; j++ {
					for i := lo[0]; i <= hi[0]; i++ {
						d := geom.PointTriangleDistance(g.Position(i, j, k), a, b, c)
						idx := g.Index(i, j, k)
						if d < dist[idx] {
							dist[idx] = d
							closest[idx] = int32(f)
						}
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return st.Seeded(), nil
}

package levelset

import (
	"context"
	gomath "math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/sdfgen/pkg/geom"
	"github.com/Faultbox/sdfgen/pkg/mesh"
)

// Direction selects the traversal order of one sweep: +1 walks an axis in
// increasing index order, -1 in decreasing order.
type Direction struct {
	DI, DJ, DK int
}

// Directions lists the eight octant orderings of one full iteration.
var Directions = [8]Direction{
	{+1, +1, +1},
	{-1, -1, -1},
	{+1, +1, -1},
	{-1, -1, +1},
	{+1, -1, +1},
	{-1, +1, -1},
	{+1, -1, -1},
	{-1, +1, +1},
}

// SweepOptions controls how many iterations the sweep pass runs.
type SweepOptions struct {
	// Iterations is the fixed number of full iterations (8 sweeps each)
	// used when UntilConverged is false.
	Iterations int `yaml:"iterations"`
	// UntilConverged repeats iterations until none improves a cell by more
	// than Tolerance, at most MaxIterations times.
	UntilConverged bool    `yaml:"until_converged"`
	Tolerance      float64 `yaml:"tolerance"`
	MaxIterations  int     `yaml:"max_iterations"`
}

// DefaultSweepOptions returns two fixed iterations.
func DefaultSweepOptions() SweepOptions {
	return SweepOptions{
		Iterations:    2,
		Tolerance:     0,
		MaxIterations: 16,
	}
}

// SweepResult reports one directional sweep.
type SweepResult struct {
	Updates        int
	MaxImprovement float64 // +Inf when a cell was reached for the first time
}

// SweepStats reports a full sweep pass.
type SweepStats struct {
	Iterations int
	Updates    []int // per iteration
	Converged  bool  // the last iteration changed nothing beyond tolerance
}

// SweepOnce runs one traversal of the grid in direction dir. Every node
// re-tests the closest triangles of its seven upwind neighbours; the exact
// point-triangle distance is recomputed instead of adding a grid step, since
// Euclidean distance is not additive on the lattice.
func SweepOnce(st *State, m *mesh.Triangulation, dir Direction) SweepResult {
	g := st.Grid
	i0, i1 := sweepBounds(g.NI, dir.DI)
	j0, j1 := sweepBounds(g.NJ, dir.DJ)
	k0, k1 := sweepBounds(g.NK, dir.DK)

	var res SweepResult
	relax := func(p r3.Vec, idx, i, j, k int) {
		t := st.Closest.Data[g.Index(i, j, k)]
		if t == NoTriangle || t == st.Closest.Data[idx] {
			return
		}
		a, b, c := m.Triangle(int(t))
		d := geom.PointTriangleDistance(p, a, b, c)
		if cur := st.Dist.Data[idx]; d < cur {
			res.Updates++
			res.MaxImprovement = gomath.Max(res.MaxImprovement, cur-d)
			st.Dist.Data[idx] = d
			st.Closest.Data[idx] = t
		}
	}

	for k := k0; k != k1; k += dir.DK {
		pk := k - dir.DK
		hasK := pk >= 0 && pk < g.NK
		for j := j0; j != j1; j += dir.DJ {
			pj := j - dir.DJ
			hasJ := pj >= 0 && pj < g.NJ
			for i := i0; i != i1; i += dir.DI {
				pi := i - dir.DI
				hasI := pi >= 0 && pi < g.NI

				idx := g.Index(i, j, k)
				p := g.Position(i, j, k)
				if hasI {
					relax(p, idx, pi, j, k)
				}
				if hasJ {
					relax(p, idx, i, pj, k)
				}
				if hasI && hasJ {
					relax(p, idx, pi, pj, k)
				}
				if hasK {
					relax(p, idx, i, j, pk)
					if hasI {
						relax(p, idx, pi, j, pk)
					}
					if hasJ {
						relax(p, idx, i, pj, pk)
					}
					if hasI && hasJ {
						relax(p, idx, pi, pj, pk)
					}
				}
			}
		}
	}
	return res
}

// sweepBounds returns the first index and the loop end for an axis of n
// nodes walked in direction d.
func sweepBounds(n, d int) (start, end int) {
	if d > 0 {
		return 0, n
	}
	return n - 1, -1
}

// Sweep propagates distances over the whole grid. By default it runs a fixed
// number of iterations of the eight Directions, which bounds the cost; with
// UntilConverged it stops after the first iteration whose largest
// improvement is within Tolerance. Cells no triangle reference can reach
// stay at +Inf. The context is checked between sweeps.
func Sweep(ctx context.Context, st *State, m *mesh.Triangulation, opts SweepOptions) (SweepStats, error) {
	limit := opts.Iterations
	if opts.UntilConverged {
		limit = opts.MaxIterations
		if limit < 1 {
			limit = DefaultSweepOptions().MaxIterations
		}
	}

	var stats SweepStats
	for it := 0; it < limit; it++ {
		updates := 0
		gain := 0.0
		for _, dir := range Directions {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			r := SweepOnce(st, m, dir)
			updates += r.Updates
			gain = gomath.Max(gain, r.MaxImprovement)
		}
		stats.Iterations++
		stats.Updates = append(stats.Updates, updates)

		if updates == 0 || (opts.UntilConverged && gain <= opts.Tolerance) {
			stats.Converged = true
			break
		}
	}
	return stats, nil
}

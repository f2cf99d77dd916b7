package levelset

import (
	"context"
	"fmt"
	gomath "math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/sdfgen/pkg/geom"
	"github.com/Faultbox/sdfgen/pkg/math"
	"github.com/Faultbox/sdfgen/pkg/mesh"
)

// Parity decides inside/outside for every node by counting surface
// crossings along grid lines parallel to axis. A node is inside when an odd
// number of crossings lie at or before it along the line.
//
// Each triangle is projected onto the two other axes once, and only the grid
// lines inside its projected box are tested, so the cost scales with
// triangles times cross-section, not grid volume. The half-open
// point-in-triangle test counts a line through a shared edge or vertex once.
// The result is only meaningful for closed meshes.
//
// With workers > 1 the rows of the cross-section are split across
// goroutines; rows never share cells.
func Parity(ctx context.Context, g Grid, m *mesh.Triangulation, axis Axis, workers int) (*Array3[bool], error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if axis < AxisX || axis > AxisZ {
		return nil, fmt.Errorf("sign axis %v out of range", axis)
	}

	w := int(axis)
	u := (w + 1) % 3
	v := (w + 2) % 3
	dims := g.Dims()
	nu, nv, nw := dims[u], dims[v], dims[w]
	stride := [3]int{1, g.NI, g.NI * g.NJ}
	su, sv, sw := stride[u], stride[v], stride[w]

	counts := NewArray3[int32](g.NI, g.NJ, g.NK, 0)
	inside := NewArray3(g.NI, g.NJ, g.NK, false)

	gridVerts := make([]r3.Vec, len(m.Vertices))
	for i, p := range m.Vertices {
		gridVerts[i] = g.ToGrid(p)
	}

	err := forEachSpan(ctx, splitRange(nv, workerCount(workers)), func(ctx context.Context, rows span) error {
		for f, face := range m.Faces {
			if f%cancelCheckEvery == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}

			p, q, r := gridVerts[face[0]], gridVerts[face[1]], gridVerts[face[2]]
			pu, qu, ru := math.Component(p, u), math.Component(q, u), math.Component(r, u)
			pv, qv, rv := math.Component(p, v), math.Component(q, v), math.Component(r, v)

			u0 := int(gomath.Ceil(gomath.Min(pu, gomath.Min(qu, ru))))
			u1 := int(gomath.Floor(gomath.Max(pu, gomath.Max(qu, ru))))
			v0 := int(gomath.Ceil(gomath.Min(pv, gomath.Min(qv, rv))))
			v1 := int(gomath.Floor(gomath.Max(pv, gomath.Max(qv, rv))))
			u0, u1 = max(u0, 0), min(u1, nu-1)
			v0, v1 = max(v0, rows.lo), min(v1, rows.hi-1)
			if u0 > u1 || v0 > v1 {
				continue
			}

			pw, qw, rw := math.Component(p, w), math.Component(q, w), math.Component(r, w)
			for jv := v0; jv <= v1; jv++ {
				for iu := u0; iu <= u1; iu++ {
					a, b, c, ok := geom.PointInTriangle2D(float64(iu), float64(jv), pu, pv, qu, qv, ru, rv)
					if !ok {
						continue
					}
					fw := a*pw + b*qw + c*rw
					kw := 0
					if fw >= 0 {
						kw = int(gomath.Ceil(fw))
						if kw >= nw {
							continue
						}
					}
					counts.Data[iu*su+jv*sv+kw*sw]++
				}
			}
		}

		for jv := rows.lo; jv < rows.hi; jv++ {
			for iu := 0; iu < nu; iu++ {
				var total int32
				base := iu*su + jv*sv
				for kw := 0; kw < nw; kw++ {
					idx := base + kw*sw
					total += counts.Data[idx]
					inside.Data[idx] = total%2 == 1
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inside, nil
}

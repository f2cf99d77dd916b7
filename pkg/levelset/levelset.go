package levelset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/sdfgen/pkg/mesh"
)

// ErrEmptyMesh is returned when the mesh has no triangles.
var ErrEmptyMesh = errors.New("mesh has no triangles")

// Options configures Compute.
type Options struct {
	// ExactBand is how many cells around each triangle's bounding box get
	// exact distances during seeding. Values below 1 are raised to 1.
	ExactBand int
	Sweep     SweepOptions
	// SignAxis is the direction of the parity rays.
	SignAxis Axis
	// Workers bounds the goroutines of the seeding and sign passes; 0 means
	// one per CPU and 1 runs everything on the calling goroutine.
	Workers int
	Logger  *zap.Logger
}

// DefaultOptions returns a band of one cell, two sweep iterations, parity
// rays along z and a single worker.
func DefaultOptions() Options {
	return Options{
		ExactBand: 1,
		Sweep:     DefaultSweepOptions(),
		SignAxis:  AxisZ,
		Workers:   1,
	}
}

// Stats summarizes one Compute call.
type Stats struct {
	Seeded       int
	Sweep        SweepStats
	Unreached    int
	Inside       int
	SeedTime     time.Duration
	SweepTime    time.Duration
	SignTime     time.Duration
	AssembleTime time.Duration
}

// Compute builds the signed distance field of m sampled on g.
func Compute(ctx context.Context, m *mesh.Triangulation, g Grid, opts Options) (*Field, Stats, error) {
	var stats Stats
	if err := g.Validate(); err != nil {
		return nil, stats, err
	}
	if m == nil || m.FaceCount() == 0 {
		return nil, stats, ErrEmptyMesh
	}
	if err := m.Validate(); err != nil {
		return nil, stats, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	log.Debug("computing level set",
		zap.Int("ni", g.NI), zap.Int("nj", g.NJ), zap.Int("nk", g.NK),
		zap.Float64("spacing", g.Spacing),
		zap.Int("triangles", m.FaceCount()),
		zap.Int("workers", workerCount(opts.Workers)),
	)

	st := NewState(g)

	start := time.Now()
	seeded, err := Seed(ctx, st, m, opts.ExactBand, opts.Workers)
	if err != nil {
		return nil, stats, fmt.Errorf("seed: %w", err)
	}
	stats.Seeded = seeded
	stats.SeedTime = time.Since(start)
	log.Debug("seeded narrow band", zap.Int("cells", seeded), zap.Duration("took", stats.SeedTime))

	start = time.Now()
	stats.Sweep, err = Sweep(ctx, st, m, opts.Sweep)
	if err != nil {
		return nil, stats, fmt.Errorf("sweep: %w", err)
	}
	stats.SweepTime = time.Since(start)
	stats.Unreached = st.Unreached()
	log.Debug("sweep done",
		zap.Int("iterations", stats.Sweep.Iterations),
		zap.Ints("updates", stats.Sweep.Updates),
		zap.Bool("converged", stats.Sweep.Converged),
		zap.Duration("took", stats.SweepTime),
	)
	if stats.Unreached > 0 {
		log.Warn("cells left without a distance", zap.Int("cells", stats.Unreached))
	}

	start = time.Now()
	inside, err := Parity(ctx, g, m, opts.SignAxis, opts.Workers)
	if err != nil {
		return nil, stats, fmt.Errorf("sign: %w", err)
	}
	stats.SignTime = time.Since(start)
	log.Debug("parity done", zap.Stringer("axis", opts.SignAxis), zap.Duration("took", stats.SignTime))

	start = time.Now()
	field := Assemble(st.Dist, inside, g)
	stats.AssembleTime = time.Since(start)
	stats.Inside = field.InsideCount()

	return field, stats, nil
}

// ComputeSignedDistanceField is the array-level entry point: faces index
// into vertices, and the result is laid out like Grid.Index. It runs with
// DefaultOptions.
func ComputeSignedDistanceField(faces [][3]int, vertices []r3.Vec, origin r3.Vec, spacing float64, ni, nj, nk int) ([]float64, error) {
	fs := make([]mesh.Face, len(faces))
	for i, f := range faces {
		fs[i] = mesh.Face(f)
	}
	m, err := mesh.New(vertices, fs)
	if err != nil {
		return nil, err
	}
	g := Grid{NI: ni, NJ: nj, NK: nk, Origin: origin, Spacing: spacing}
	field, _, err := Compute(context.Background(), m, g, DefaultOptions())
	if err != nil {
		return nil, err
	}
	return field.Values, nil
}

// Package pipeline runs one mesh-to-distance-field conversion: read the mesh,
// size the grid, compute the field and write the result files.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/sdfgen/internal/config"
	"github.com/Faultbox/sdfgen/internal/preview"
	"github.com/Faultbox/sdfgen/pkg/formats"
	"github.com/Faultbox/sdfgen/pkg/levelset"
	"github.com/Faultbox/sdfgen/pkg/mesh"
)

// ErrGridTooLarge is returned when the grid exceeds grid.max_cells.
var ErrGridTooLarge = errors.New("grid too large")

// Result describes the files written by one run.
type Result struct {
	SDFPath string
	VTRPath string // empty unless written
	PNGPath string // empty unless written
	Grid    levelset.Grid
	Padding int
	Audit   mesh.Audit
	Stats   levelset.Stats
	Field   *levelset.Field
}

// Pipeline converts meshes with one configuration.
type Pipeline struct {
	cfg  *config.Config
	opts levelset.Options
	log  *zap.Logger
}

// New validates cfg and prepares the engine options. A nil log discards
// all output.
func New(cfg *config.Config, log *zap.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := cfg.Compute.Options()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	opts.Logger = log.Named("levelset")
	return &Pipeline{cfg: cfg, opts: opts, log: log}, nil
}

// OutputPath replaces the extension of input with ext. A non-empty dir
// replaces the directory as well.
func OutputPath(input, dir, ext string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input)) + ext
	if dir == "" {
		return base
	}
	return filepath.Join(dir, filepath.Base(base))
}

// Run converts the mesh at input and writes the .sdf file plus any
// optional outputs. Failures of optional outputs are logged only.
func (p *Pipeline) Run(ctx context.Context, input string) (*Result, error) {
	start := time.Now()
	m, info, err := formats.ReadMeshFile(input)
	if err != nil {
		return nil, err
	}
	p.log.Info("mesh loaded",
		zap.String("path", input),
		zap.Stringer("format", info.Format),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", m.FaceCount()),
	)
	if info.Format == formats.FormatOBJ && info.OBJ.IgnoredLines > 0 {
		p.log.Debug("obj lines ignored", zap.Int("count", info.OBJ.IgnoredLines))
	}

	res, err := p.RunMesh(ctx, m, OutputPath(input, p.cfg.Output.Dir, ".sdf"))
	if err != nil {
		return nil, err
	}
	p.log.Info("done", zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

// RunMesh computes the field of m and writes it to sdfPath. Optional
// outputs go next to it.
func (p *Pipeline) RunMesh(ctx context.Context, m *mesh.Triangulation, sdfPath string) (*Result, error) {
	res := &Result{SDFPath: sdfPath}

	res.Audit = m.Audit()
	if !res.Audit.Closed() {
		p.log.Warn("mesh is not closed, inside/outside may be wrong",
			zap.Int("boundary_edges", res.Audit.BoundaryEdges),
			zap.Int("non_manifold_edges", res.Audit.NonManifoldEdges),
			zap.Int("orientation_conflicts", res.Audit.OrientationConflict),
		)
	}

	res.Grid, res.Padding = levelset.GridForBounds(m.Bounds, p.cfg.Grid.Spacing, p.cfg.Grid.Padding)
	if res.Padding != p.cfg.Grid.Padding {
		p.log.Warn("padding raised", zap.Int("requested", p.cfg.Grid.Padding), zap.Int("used", res.Padding))
	}
	cells, ok := res.Grid.Cells()
	if !ok {
		return nil, fmt.Errorf("%w: %dx%dx%d cells overflow",
			ErrGridTooLarge, res.Grid.NI, res.Grid.NJ, res.Grid.NK)
	}
	if limit := p.cfg.Grid.MaxCells; limit > 0 && cells > limit {
		return nil, fmt.Errorf("%w: %dx%dx%d = %d cells, limit %d",
			ErrGridTooLarge, res.Grid.NI, res.Grid.NJ, res.Grid.NK, cells, limit)
	}
	p.log.Info("grid",
		zap.Int("ni", res.Grid.NI), zap.Int("nj", res.Grid.NJ), zap.Int("nk", res.Grid.NK),
		zap.Float64("spacing", res.Grid.Spacing),
	)

	if t := p.cfg.Compute.Timeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	f, stats, err := levelset.Compute(ctx, m, res.Grid, p.opts)
	if err != nil {
		return nil, fmt.Errorf("computing distance field: %w", err)
	}
	res.Field, res.Stats = f, stats
	p.log.Info("field computed",
		zap.Int("seeded", stats.Seeded),
		zap.Int("sweep_iterations", stats.Sweep.Iterations),
		zap.Int("inside", stats.Inside),
		zap.Duration("compute", stats.SeedTime+stats.SweepTime+stats.SignTime+stats.AssembleTime),
	)

	if dir := filepath.Dir(sdfPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := formats.WriteSDFFile(sdfPath, f); err != nil {
		return nil, err
	}
	p.log.Info("wrote", zap.String("path", sdfPath))

	p.writeOptional(res)
	return res, nil
}

func (p *Pipeline) writeOptional(res *Result) {
	out := p.cfg.Output
	if out.VTK {
		path := OutputPath(res.SDFPath, "", ".vtr")
		if err := formats.WriteVTRFile(path, res.Field); err != nil {
			p.log.Warn("vtk export failed", zap.Error(err))
		} else {
			res.VTRPath = path
			p.log.Info("wrote", zap.String("path", path))
		}
	}
	if out.PNG {
		path := OutputPath(res.SDFPath, "", ".png")
		axis, _ := levelset.ParseAxis(out.PreviewAxis) // checked by Validate
		if err := preview.RenderSlice(res.Field, axis, out.PreviewSlice, path); err != nil {
			p.log.Warn("preview failed", zap.Error(err))
		} else {
			res.PNGPath = path
			p.log.Info("wrote", zap.String("path", path))
		}
	}
}

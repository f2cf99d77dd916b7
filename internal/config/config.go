// Package config handles sdfgen configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/Faultbox/sdfgen/pkg/levelset"
)

// Config holds all sdfgen settings.
type Config struct {
	Grid    GridConfig    `yaml:"grid"`
	Compute ComputeConfig `yaml:"compute"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`

	// Source is the file the config was read from, if any.
	Source string `yaml:"-"`
}

// GridConfig holds sampling settings. Spacing and Padding are normally
// given on the command line.
type GridConfig struct {
	Spacing  float64 `yaml:"spacing"`
	Padding  int     `yaml:"padding"`   // cells around the mesh bounds, at least 1
	MaxCells int     `yaml:"max_cells"` // refuse larger grids; 0 disables the check
}

// ComputeConfig holds level set engine settings.
type ComputeConfig struct {
	ExactBand int                   `yaml:"exact_band"`
	Sweep     levelset.SweepOptions `yaml:"sweep"`
	SignAxis  string                `yaml:"sign_axis"`
	Workers   int                   `yaml:"workers"` // 0 = one per CPU
	Timeout   time.Duration         `yaml:"timeout"` // 0 = no limit
}

// OutputConfig holds result file settings.
type OutputConfig struct {
	Dir          string `yaml:"dir"` // empty = next to the input mesh
	VTK          bool   `yaml:"vtk"`
	PNG          bool   `yaml:"png"`
	PreviewAxis  string `yaml:"preview_axis"`
	PreviewSlice int    `yaml:"preview_slice"` // -1 = middle slice
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Spacing:  0,
			Padding:  1,
			MaxCells: 512 * 512 * 512,
		},
		Compute: ComputeConfig{
			ExactBand: 1,
			Sweep:     levelset.DefaultSweepOptions(),
			SignAxis:  "z",
			Workers:   0,
		},
		Output: OutputConfig{
			PreviewAxis:  "z",
			PreviewSlice: -1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Options converts the compute settings into engine options.
func (c ComputeConfig) Options() (levelset.Options, error) {
	axis, err := levelset.ParseAxis(c.SignAxis)
	if err != nil {
		return levelset.Options{}, err
	}
	opts := levelset.DefaultOptions()
	opts.ExactBand = c.ExactBand
	opts.Sweep = c.Sweep
	opts.SignAxis = axis
	opts.Workers = c.Workers
	return opts, nil
}

// Validate checks the settings the pipeline depends on.
func (c *Config) Validate() error {
	if !(c.Grid.Spacing > 0) {
		return fmt.Errorf("grid spacing must be positive, got %v", c.Grid.Spacing)
	}
	if c.Grid.MaxCells < 0 {
		return fmt.Errorf("grid max_cells must not be negative, got %d", c.Grid.MaxCells)
	}
	if c.Compute.Sweep.Iterations < 0 || c.Compute.Sweep.MaxIterations < 0 {
		return fmt.Errorf("sweep iteration counts must not be negative")
	}
	if !c.Compute.Sweep.UntilConverged && c.Compute.Sweep.Iterations < 1 {
		return fmt.Errorf("sweep iterations must be at least 1, got %d", c.Compute.Sweep.Iterations)
	}
	if c.Compute.Sweep.Tolerance < 0 {
		return fmt.Errorf("sweep tolerance must not be negative, got %v", c.Compute.Sweep.Tolerance)
	}
	if _, err := levelset.ParseAxis(c.Compute.SignAxis); err != nil {
		return fmt.Errorf("compute sign_axis: %w", err)
	}
	if _, err := levelset.ParseAxis(c.Output.PreviewAxis); err != nil {
		return fmt.Errorf("output preview_axis: %w", err)
	}
	return nil
}

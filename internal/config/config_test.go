package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/sdfgen/pkg/levelset"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Grid defaults
	if cfg.Grid.Padding != 1 {
		t.Errorf("expected padding 1, got %d", cfg.Grid.Padding)
	}
	if cfg.Grid.MaxCells != 512*512*512 {
		t.Errorf("expected max cells 512^3, got %d", cfg.Grid.MaxCells)
	}

	// Compute defaults
	if cfg.Compute.ExactBand != 1 {
		t.Errorf("expected exact band 1, got %d", cfg.Compute.ExactBand)
	}
	if cfg.Compute.Sweep.Iterations != 2 {
		t.Errorf("expected 2 sweep iterations, got %d", cfg.Compute.Sweep.Iterations)
	}
	if cfg.Compute.Sweep.UntilConverged {
		t.Error("expected fixed iteration count by default")
	}
	if cfg.Compute.SignAxis != "z" {
		t.Errorf("expected sign axis z, got %s", cfg.Compute.SignAxis)
	}

	// Output defaults
	if cfg.Output.VTK || cfg.Output.PNG {
		t.Error("expected optional outputs to be disabled by default")
	}
	if cfg.Output.PreviewSlice != -1 {
		t.Errorf("expected middle preview slice, got %d", cfg.Output.PreviewSlice)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
grid:
  spacing: 0.05
  padding: 3
  max_cells: 1000000

compute:
  exact_band: 2
  sweep:
    iterations: 4
    until_converged: true
    tolerance: 1e-9
    max_iterations: 32
  sign_axis: "x"
  workers: 8
  timeout: 90s

output:
  dir: "out"
  vtk: true
  png: true
  preview_axis: "y"
  preview_slice: 12

logging:
  level: "debug"
  log_file: "sdfgen.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Grid.Spacing != 0.05 {
		t.Errorf("expected spacing 0.05, got %v", cfg.Grid.Spacing)
	}
	if cfg.Grid.Padding != 3 {
		t.Errorf("expected padding 3, got %d", cfg.Grid.Padding)
	}
	if cfg.Grid.MaxCells != 1000000 {
		t.Errorf("expected max cells 1000000, got %d", cfg.Grid.MaxCells)
	}

	want := levelset.SweepOptions{Iterations: 4, UntilConverged: true, Tolerance: 1e-9, MaxIterations: 32}
	if cfg.Compute.Sweep != want {
		t.Errorf("expected sweep %+v, got %+v", want, cfg.Compute.Sweep)
	}
	if cfg.Compute.SignAxis != "x" || cfg.Compute.Workers != 8 || cfg.Compute.ExactBand != 2 {
		t.Errorf("unexpected compute settings %+v", cfg.Compute)
	}
	if cfg.Compute.Timeout != 90*time.Second {
		t.Errorf("expected timeout 90s, got %v", cfg.Compute.Timeout)
	}

	if cfg.Output.Dir != "out" || !cfg.Output.VTK || !cfg.Output.PNG {
		t.Errorf("unexpected output settings %+v", cfg.Output)
	}
	if cfg.Output.PreviewAxis != "y" || cfg.Output.PreviewSlice != 12 {
		t.Errorf("unexpected preview settings %+v", cfg.Output)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "sdfgen.log" {
		t.Errorf("expected log file 'sdfgen.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("compute:\n  workers: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Compute.Workers != 2 {
		t.Errorf("expected workers 2, got %d", cfg.Compute.Workers)
	}
	// Untouched keys keep their defaults.
	if cfg.Compute.Sweep.Iterations != 2 || cfg.Grid.Padding != 1 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Errorf("expected empty file to load, got %v", err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "grid:\n  spacing: not a number\n  invalid syntax here\n"},
		{"unknown key", "grid:\n  spcing: 0.1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			cfg := Default()
			if err := loadFromFile(cfg, configPath); err == nil {
				t.Error("expected error loading invalid YAML, got nil")
			}
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "sdfgen.yaml")
	if err := os.WriteFile(configPath, []byte("grid:\n  padding: 2\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Error("expected to find sdfgen.yaml in current directory")
	}
}

func TestLoadFromEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "custom.yaml")
	if err := os.WriteFile(configPath, []byte("grid:\n  padding: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfig, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Source != configPath {
		t.Errorf("expected source %s, got %s", configPath, cfg.Source)
	}
	if cfg.Grid.Padding != 5 {
		t.Errorf("expected padding 5 from env config, got %d", cfg.Grid.Padding)
	}

	t.Setenv(EnvConfig, filepath.Join(tmpDir, "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Error("expected error for missing env config")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "log file flag",
			setup: func() { *flagLogFile = "run.log" },
			verify: func(cfg *Config) {
				if cfg.Logging.LogFile != "run.log" {
					t.Errorf("expected log file run.log, got %s", cfg.Logging.LogFile)
				}
			},
			teardown: func() { *flagLogFile = "" },
		},
		{
			name:  "workers flag",
			setup: func() { *flagWorkers = 6 },
			verify: func(cfg *Config) {
				if cfg.Compute.Workers != 6 {
					t.Errorf("expected 6 workers, got %d", cfg.Compute.Workers)
				}
			},
			teardown: func() { *flagWorkers = 0 },
		},
		{
			name:  "converge and sign axis flags",
			setup: func() { *flagConverge = true; *flagSignAxis = "y" },
			verify: func(cfg *Config) {
				if !cfg.Compute.Sweep.UntilConverged {
					t.Error("expected convergence mode")
				}
				if cfg.Compute.SignAxis != "y" {
					t.Errorf("expected sign axis y, got %s", cfg.Compute.SignAxis)
				}
			},
			teardown: func() { *flagConverge = false; *flagSignAxis = "" },
		},
		{
			name:  "output flags",
			setup: func() { *flagVTK = true; *flagPNG = true; *flagOut = "/tmp/sdf" },
			verify: func(cfg *Config) {
				if !cfg.Output.VTK || !cfg.Output.PNG || cfg.Output.Dir != "/tmp/sdf" {
					t.Errorf("unexpected output settings %+v", cfg.Output)
				}
			},
			teardown: func() { *flagVTK = false; *flagPNG = false; *flagOut = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestApplyFlagsNoOverrides(t *testing.T) {
	cfg := Default()
	cfg.Compute.Workers = 3
	applyFlags(cfg)
	if cfg.Compute.Workers != 3 {
		t.Errorf("unset workers flag changed config to %d", cfg.Compute.Workers)
	}
}

func TestSaveToAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Grid.Spacing = 0.125
	cfg.Compute.Sweep.UntilConverged = true
	cfg.Compute.Timeout = 3 * time.Minute
	cfg.Output.Dir = "results"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loading saved config failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestSave(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("APPDATA", t.TempDir())

	path, err := Default().Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("saved config missing: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"zero spacing", func(c *Config) { c.Grid.Spacing = 0 }, false},
		{"negative max cells", func(c *Config) { c.Grid.MaxCells = -1 }, false},
		{"bad sign axis", func(c *Config) { c.Compute.SignAxis = "w" }, false},
		{"bad preview axis", func(c *Config) { c.Output.PreviewAxis = "q" }, false},
		{"negative tolerance", func(c *Config) { c.Compute.Sweep.Tolerance = -1 }, false},
		{"zero fixed iterations", func(c *Config) { c.Compute.Sweep.Iterations = 0 }, false},
		{"zero iterations while converging", func(c *Config) {
			c.Compute.Sweep.Iterations = 0
			c.Compute.Sweep.UntilConverged = true
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Grid.Spacing = 0.1
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestComputeOptions(t *testing.T) {
	cfg := Default().Compute
	cfg.SignAxis = "x"
	cfg.Workers = 4
	opts, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.SignAxis != levelset.AxisX || opts.Workers != 4 || opts.ExactBand != 1 {
		t.Errorf("unexpected options %+v", opts)
	}

	cfg.SignAxis = "diagonal"
	if _, err := cfg.Options(); err == nil {
		t.Error("expected error for bad sign axis")
	}
}

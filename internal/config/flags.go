package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile  = flag.String("log-file", "", "Also write logs to this file")
	flagWorkers  = flag.Int("workers", 0, "Worker goroutines for seeding and sign passes (0 keeps config)")
	flagConverge = flag.Bool("converge", false, "Sweep until converged instead of a fixed iteration count")
	flagSignAxis = flag.String("sign-axis", "", "Axis of the inside/outside rays: x, y or z")
	flagVTK      = flag.Bool("vtk", false, "Also write a VTK rectilinear grid (.vtr)")
	flagPNG      = flag.Bool("png", false, "Also write a PNG preview of one slice")
	flagOut      = flag.String("out", "", "Directory for output files")
	flagDump     = flag.Bool("dump-config", false, "Write the effective config to the config directory and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// DumpRequested reports whether -dump-config was given.
func DumpRequested() bool {
	return *flagDump
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagWorkers > 0 {
		cfg.Compute.Workers = *flagWorkers
	}
	if *flagConverge {
		cfg.Compute.Sweep.UntilConverged = true
	}
	if *flagSignAxis != "" {
		cfg.Compute.SignAxis = *flagSignAxis
	}
	if *flagVTK {
		cfg.Output.VTK = true
	}
	if *flagPNG {
		cfg.Output.PNG = true
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
}

// Package main is the entry point for sdfgen, which converts a closed
// triangle mesh into a signed distance field on a regular grid.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"go.uber.org/zap"

	"github.com/Faultbox/sdfgen/internal/config"
	"github.com/Faultbox/sdfgen/internal/logger"
	"github.com/Faultbox/sdfgen/internal/pipeline"
)

var errUsage = errors.New("usage")

type arguments struct {
	input   string
	spacing float64
	padding int
}

func parseArgs(args []string) (arguments, error) {
	var a arguments
	if len(args) != 3 {
		return a, errUsage
	}
	a.input = args[0]

	var err error
	a.spacing, err = strconv.ParseFloat(args[1], 64)
	if err != nil {
		return a, fmt.Errorf("cell spacing %q is not a number", args[1])
	}
	if !(a.spacing > 0) {
		return a, fmt.Errorf("cell spacing must be positive, got %v", a.spacing)
	}
	a.padding, err = strconv.Atoi(args[2])
	if err != nil {
		return a, fmt.Errorf("padding %q is not an integer", args[2])
	}
	return a, nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `sdfgen - signed distance field generator

Usage:
  sdfgen [flags] <input-mesh-file> <cell-spacing> <padding-cells>

The input is a closed, consistently oriented .obj or .stl mesh. The field
is written next to it with the extension replaced by .sdf.

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = printUsage
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if config.DumpRequested() {
		path, err := cfg.Save()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(path)
		return
	}

	args, err := parseArgs(config.Args())
	if err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		}
		printUsage()
		os.Exit(1)
	}
	cfg.Grid.Spacing = args.spacing
	cfg.Grid.Padding = args.padding

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Source != "" {
		logger.Info("config loaded", zap.String("path", cfg.Source))
	}
	logger.Sugar.Debugf("Config: %+v", cfg)

	p, err := pipeline.New(cfg, logger.Log)
	if err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := p.Run(ctx, args.input); err != nil {
		logger.Error("conversion failed", zap.String("input", args.input), zap.Error(err))
		stop()
		logger.Sync()
		os.Exit(1)
	}
}

package main

import (
	"flag"

	"github.com/pkg/errors"

	"github.com/askiada/go-vpvs/internal/config"
)

// loadConfig reads -config when given, then applies the flags that were set explicitly.
func loadConfig(args []string) (*config.Config, error) {
	defaults := config.Default()

	fs := flag.NewFlagSet("vpvs", flag.ContinueOnError)

	var (
		configPath    = fs.String("config", "", "Optional YAML configuration file")
		input         = fs.String("input", "", "Differential time file")
		format        = fs.String("format", defaults.Format, "Input format: A (sta diff cc phase) or B (sta t1 t2 cc phase)")
		threshold     = fs.Float64("threshold", defaults.Threshold, "Minimum cross-correlation coefficient")
		method        = fs.String("method", defaults.Method, "Regression method: IRLS, OLS, HUBER or RANSAC")
		maxIterations = fs.Int("max-iterations", defaults.IRLS.MaxIterations, "IRLS maximum iterations")
		tolerance     = fs.Float64("tolerance", defaults.IRLS.Tolerance, "IRLS weight convergence tolerance")
		delta         = fs.Float64("delta", defaults.IRLS.Delta, "IRLS weight scale")
		seed          = fs.Uint64("seed", 0, "RANSAC random seed")
		output        = fs.String("output", defaults.Output.Path, "Plot file (.png, .jpg, .tif or .svg)")
		dpi           = fs.Int("dpi", defaults.Output.DPI, "Raster plot resolution")
		csvOutput     = fs.String("csv", "", "Optional CSV output file path")
		graph         = fs.String("graph", "", "Optional DOT output file path of the processing steps")
		debug         = fs.Bool("debug", false, "Debug logging")
	)

	err := fs.Parse(args)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse flags")
	}

	cfg := defaults
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			return nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input = *input
		case "format":
			cfg.Format = *format
		case "threshold":
			cfg.Threshold = *threshold
		case "method":
			cfg.Method = *method
		case "max-iterations":
			cfg.IRLS.MaxIterations = *maxIterations
		case "tolerance":
			cfg.IRLS.Tolerance = *tolerance
		case "delta":
			cfg.IRLS.Delta = *delta
		case "seed":
			cfg.RANSAC.Seed = seed
		case "output":
			cfg.Output.Path = *output
		case "dpi":
			cfg.Output.DPI = *dpi
		case "csv":
			cfg.Output.CSV = *csvOutput
		case "graph":
			cfg.Output.Graph = *graph
		case "debug":
			cfg.Debug = *debug
		}
	})

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Command vpvs estimates the Vp/Vs ratio of an earthquake cluster from a differential time file and plots the fit.
//
// Settings come from an optional YAML file (-config). Flags given on the command line override it.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/go-vpvs/internal/config"
	"github.com/askiada/go-vpvs/internal/log"
	"github.com/askiada/go-vpvs/pkg/pipeline/drawer"
	"github.com/askiada/go-vpvs/pkg/vpvs"
	"github.com/askiada/go-vpvs/pkg/vpvs/report"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	logger, err := log.New(cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	estCfg, err := cfg.Estimator()
	if err != nil {
		return err
	}

	opts := []vpvs.Option{vpvs.WithLogger(logger)}
	if cfg.Output.Graph != "" {
		opts = append(opts, vpvs.WithDrawer(drawer.NewDOTDrawer(cfg.Output.Graph)))
	}

	est, err := vpvs.New(estCfg, opts...)
	if err != nil {
		return err
	}

	reporter, err := reporters(cfg, logger)
	if err != nil {
		return err
	}

	if cfg.Input == "" {
		return errors.New("no input file, set -input or input in the config file")
	}

	res, err := est.EstimateFile(ctx, cfg.Input)
	if err != nil {
		return err
	}

	err = reporter.Report(ctx, report.NewData(res.P, res.S, res.Fit, cfg.Output.Margin, cfg.Output.Points))
	if err != nil {
		return errors.Wrap(err, "unable to report fit")
	}

	fmt.Fprintf(stdout, "%s\n", report.Equation(res.Fit.Line))
	fmt.Fprintf(stdout, "Vp/Vs: %.4f (%s, %d samples from %d of %d groups)\n",
		res.Fit.Ratio(), res.Fit.Method, res.Fit.Samples, res.Contributing, res.Groups)

	return nil
}

func reporters(cfg *config.Config, logger *zap.SugaredLogger) (report.Multi, error) {
	plt, err := report.NewPlotReporter(cfg.Output.Path, cfg.Output.DPI, cfg.Output.ScatterColor, cfg.Output.LineColor)
	if err != nil {
		return nil, err
	}

	multi := report.Multi{plt}

	if cfg.Output.CSV != "" {
		multi = append(multi, &report.CSVReporter{Path: cfg.Output.CSV})
	}

	return append(multi, &report.LogReporter{Logger: logger}), nil
}

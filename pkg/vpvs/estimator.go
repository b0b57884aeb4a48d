// Package vpvs estimates the in-situ Vp/Vs ratio of an earthquake cluster from P and S differential times.
//
// An Estimator reads a file of event-pair groups, removes the mean differential time of every group, collects the
// residuals of all groups and fits a line through them. The slope of that line is the Vp/Vs ratio.
//
// Parsing, reduction and aggregation run as the steps of a pipeline.Pipeline; the regression starts once the
// pipeline has returned, so every group has contributed before the fit.
package vpvs

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/go-vpvs/pkg/pipeline"
	"github.com/askiada/go-vpvs/pkg/pipeline/drawer"
	"github.com/askiada/go-vpvs/pkg/pipeline/measure"
	pipemodel "github.com/askiada/go-vpvs/pkg/pipeline/model"
	"github.com/askiada/go-vpvs/pkg/vpvs/aggregate"
	"github.com/askiada/go-vpvs/pkg/vpvs/model"
	"github.com/askiada/go-vpvs/pkg/vpvs/parser"
	"github.com/askiada/go-vpvs/pkg/vpvs/reduce"
	"github.com/askiada/go-vpvs/pkg/vpvs/regression"
)

const (
	parseStepName     = "parse"
	reduceStepName    = "reduce"
	aggregateStepName = "aggregate"
)

// Estimator runs the whole estimation. It is not safe for concurrent use.
type Estimator struct {
	parser    *parser.Parser
	regressor regression.Regressor
	logger    *zap.SugaredLogger
	drawer    drawer.Drawer
}

// Option configures an Estimator.
type Option func(e *Estimator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(e *Estimator) {
		e.logger = logger
	}
}

// WithDrawer draws the step graph, with timings, after a successful run.
// A drawer keeps its graph, so the Estimator should run once.
func WithDrawer(d drawer.Drawer) Option {
	return func(e *Estimator) {
		e.drawer = d
	}
}

// New validates cfg. Unknown selectors and out-of-range parameters are ConfigurationErrors.
func New(cfg Config, opts ...Option) (*Estimator, error) {
	p, err := parser.New(cfg.Format, cfg.Threshold)
	if err != nil {
		return nil, err
	}

	r, err := regression.New(cfg.Method, cfg.Regression)
	if err != nil {
		return nil, err
	}

	e := &Estimator{
		parser:    p,
		regressor: r,
		logger:    zap.NewNop().Sugar(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Result is the outcome of one estimation.
type Result struct {
	P, S []float64
	Fit  model.Fit
	// Groups counts every group read; Contributing those with at least one dual-phase station.
	Groups       int
	Contributing int
}

// EstimateFile opens path and runs Estimate on it. The file is closed on every path.
func (e *Estimator) EstimateFile(ctx context.Context, path string) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}
	defer file.Close()

	return e.Estimate(ctx, file)
}

// Estimate collects the residual samples of r and fits them.
func (e *Estimator) Estimate(ctx context.Context, r io.Reader) (*Result, error) {
	set, groups, contributing, err := e.collect(ctx, r)
	if err != nil {
		return nil, err
	}

	p, s, err := set.Values()
	if err != nil {
		return nil, errors.Wrapf(err, "%d groups read, none with both P and S picks", groups)
	}

	fit, err := e.regressor.Fit(p, s)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to fit %d samples", len(p))
	}

	e.logger.Infow("fit done",
		"method", fit.Method,
		"slope", fit.Slope,
		"intercept", fit.Intercept,
		"samples", fit.Samples,
		"groups", groups,
		"contributing_groups", contributing,
	)

	return &Result{P: p, S: s, Fit: fit, Groups: groups, Contributing: contributing}, nil
}

// Samples returns the aggregated residual samples of r without fitting them.
func (e *Estimator) Samples(ctx context.Context, r io.Reader) (*aggregate.SampleSet, error) {
	set, _, _, err := e.collect(ctx, r)

	return set, err
}

func (e *Estimator) collect(ctx context.Context, r io.Reader) (*aggregate.SampleSet, int, int, error) {
	msr := measure.NewDefaultMeasure()

	opts := []pipemodel.PipelineOption{measure.PipelineMeasure(msr)}
	if e.drawer != nil {
		opts = append(opts, drawer.PipelineDrawer(e.drawer, msr))
	}

	pipe, err := pipeline.New(ctx, opts...)
	if err != nil {
		return nil, 0, 0, errors.Wrap(err, "unable to create pipeline")
	}

	groups, err := pipeline.AddRootStep(pipe, parseStepName, func(ctx context.Context, rootChan chan<- *model.Group) error {
		return e.parser.Scan(ctx, r, func(g *model.Group) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case rootChan <- g:
				return nil
			}
		})
	})
	if err != nil {
		return nil, 0, 0, errors.Wrap(err, "unable to add parse step")
	}

	var total, contributing int

	samples, err := pipeline.AddStepOneToMany(pipe, reduceStepName, groups, func(_ context.Context, g *model.Group) ([]model.Sample, error) {
		total++

		res := reduce.Residuals(g)
		if len(res) == 0 {
			e.logger.Debugw("skipping group without dual-phase stations",
				"group", g.Index, "header", g.Header, "p", len(g.P), "s", len(g.S))

			return nil, nil
		}

		contributing++

		e.logger.Debugw("group reduced", "group", g.Index, "header", g.Header, "samples", len(res))

		return res, nil
	})
	if err != nil {
		return nil, 0, 0, errors.Wrap(err, "unable to add reduce step")
	}

	set := aggregate.New()

	err = pipeline.AddSink(pipe, aggregateStepName, samples, func(_ context.Context, sample model.Sample) error {
		set.Add(sample)

		return nil
	})
	if err != nil {
		return nil, 0, 0, errors.Wrap(err, "unable to add aggregate step")
	}

	err = pipe.Run()
	if err != nil {
		return nil, 0, 0, err
	}

	for name, mt := range msr.AllMetrics() {
		if mt.Count() == 0 {
			continue
		}

		e.logger.Debugw("step timing", "step", name, "elements", mt.Count(), "avg", mt.AVGDuration())
	}

	return set, total, contributing, nil
}

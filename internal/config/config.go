// Package config loads the YAML configuration of the vpvs command.
package config

import (
	"math"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-vpvs/pkg/vpvs"
	"github.com/askiada/go-vpvs/pkg/vpvs/model"
	"github.com/askiada/go-vpvs/pkg/vpvs/parser"
	"github.com/askiada/go-vpvs/pkg/vpvs/regression"
	"github.com/askiada/go-vpvs/pkg/vpvs/report"
)

// Default values that are not owned by another package.
const (
	DefaultOutput = "vpvs.png"
	DefaultFormat = "A"
	DefaultMethod = "IRLS"
)

// Config is the whole file. Every field is optional.
type Config struct {
	// Input is the differential time file.
	Input string `yaml:"input"`
	// Format is A (sta diff cc phase) or B (sta t1 t2 cc phase). fdtcc and hypodd are accepted too.
	Format    string  `yaml:"format"`
	Threshold float64 `yaml:"threshold"`
	// Method is one of IRLS, OLS, HUBER, RANSAC.
	Method string `yaml:"method"`
	Debug  bool   `yaml:"debug"`

	IRLS   IRLSConfig   `yaml:"irls"`
	Huber  HuberConfig  `yaml:"huber"`
	RANSAC RANSACConfig `yaml:"ransac"`
	Output OutputConfig `yaml:"output"`
}

type IRLSConfig struct {
	MaxIterations int     `yaml:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance"`
	Delta         float64 `yaml:"delta"`
}

type HuberConfig struct {
	Epsilon       float64 `yaml:"epsilon"`
	Alpha         float64 `yaml:"alpha"`
	MaxIterations int     `yaml:"max_iterations"`
}

type RANSACConfig struct {
	Trials int `yaml:"trials"`
	// Threshold is the inlier bound. Zero uses the median absolute deviation of the S residuals.
	Threshold float64 `yaml:"threshold"`
	// Seed makes runs reproducible when set.
	Seed *uint64 `yaml:"seed"`
}

// OutputConfig holds where and how results are written.
type OutputConfig struct {
	// Path is the image file. Its extension picks the encoding.
	Path         string  `yaml:"path"`
	DPI          int     `yaml:"dpi"`
	Margin       float64 `yaml:"margin"`
	Points       int     `yaml:"points"`
	ScatterColor string  `yaml:"scatter_color"`
	LineColor    string  `yaml:"line_color"`
	// CSV, when set, receives the residual samples and the fitted values.
	CSV string `yaml:"csv"`
	// Graph, when set, receives the DOT graph of the processing steps.
	Graph string `yaml:"graph"`
}

// Load reads the file at path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: read %q", path)
	}

	cfg := Default()

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "config: parse yaml")
	}

	err = cfg.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}

	return cfg, nil
}

// Default returns a Config filled with the default of every field.
func Default() *Config {
	params := regression.DefaultParams()

	return &Config{
		Format:    DefaultFormat,
		Threshold: parser.DefaultThreshold,
		Method:    DefaultMethod,
		IRLS: IRLSConfig{
			MaxIterations: params.MaxIterations,
			Tolerance:     params.Tolerance,
			Delta:         params.Delta,
		},
		Huber: HuberConfig{
			Epsilon:       params.HuberEpsilon,
			Alpha:         params.HuberAlpha,
			MaxIterations: params.HuberMaxIterations,
		},
		RANSAC: RANSACConfig{
			Trials:    params.RansacTrials,
			Threshold: params.RansacThreshold,
		},
		Output: OutputConfig{
			Path:         DefaultOutput,
			DPI:          report.DefaultDPI,
			Margin:       report.DefaultMargin,
			Points:       report.DefaultPoints,
			ScatterColor: report.DefaultScatterColor,
			LineColor:    report.DefaultLineColor,
		},
	}
}

// Validate checks the selectors and ranges. Failures are *model.ConfigurationError.
func (c *Config) Validate() error {
	_, err := c.Estimator()
	if err != nil {
		return err
	}

	switch {
	case c.Output.DPI <= 0:
		return &model.ConfigurationError{Field: "output.dpi", Value: itoa(c.Output.DPI), Reason: "must be positive"}
	case !(c.Output.Margin >= 0) || math.IsInf(c.Output.Margin, 0):
		return &model.ConfigurationError{Field: "output.margin", Value: ftoa(c.Output.Margin), Reason: "must be non-negative and finite"}
	case c.Output.Points < 2:
		return &model.ConfigurationError{Field: "output.points", Value: itoa(c.Output.Points), Reason: "must be at least 2"}
	case c.Output.Path == "":
		return &model.ConfigurationError{Field: "output.path", Reason: "must be set"}
	}

	return nil
}

// Estimator converts the file settings to the estimator configuration.
func (c *Config) Estimator() (vpvs.Config, error) {
	format, err := model.ParseFormat(c.Format)
	if err != nil {
		return vpvs.Config{}, err
	}

	method, err := model.ParseMethod(c.Method)
	if err != nil {
		return vpvs.Config{}, err
	}

	if math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) {
		return vpvs.Config{}, &model.ConfigurationError{Field: "threshold", Value: ftoa(c.Threshold), Reason: "must be finite"}
	}

	params := regression.Params{
		MaxIterations:      c.IRLS.MaxIterations,
		Tolerance:          c.IRLS.Tolerance,
		Delta:              c.IRLS.Delta,
		HuberEpsilon:       c.Huber.Epsilon,
		HuberAlpha:         c.Huber.Alpha,
		HuberMaxIterations: c.Huber.MaxIterations,
		RansacTrials:       c.RANSAC.Trials,
		RansacThreshold:    c.RANSAC.Threshold,
		Seed:               c.RANSAC.Seed,
	}

	err = params.Validate()
	if err != nil {
		return vpvs.Config{}, err
	}

	return vpvs.Config{
		Format:     format,
		Threshold:  c.Threshold,
		Method:     method,
		Regression: params,
	}, nil
}

// Package regression fits s = intercept + slope*p through the aggregated residual samples.
//
// Four estimators share the Regressor interface and are picked by New from a model.Method:
//
//   - IRLS, iteratively reweighted least squares with weights 1/(1+(r/delta)^2), the default;
//   - OLS, ordinary least squares;
//   - HUBER, a convex Huber-loss fit with a jointly estimated scale;
//   - RANSAC, random sample consensus over two-point candidate lines.
package regression

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/askiada/go-vpvs/pkg/vpvs/model"
)

var (
	ErrLengthMismatch   = errors.New("p and s must have the same length")
	ErrDegenerateDesign = errors.New("all p values are equal")
	ErrNoConsensus      = errors.New("no candidate line found a consensus set of two samples or more")
)

// MinSamples is the smallest sample count any estimator accepts.
const MinSamples = 2

// Regressor fits a line through aligned samples. p[i] pairs with s[i].
type Regressor interface {
	Fit(p, s []float64) (model.Fit, error)
	Method() model.Method
}

// Params holds the hyperparameters of every estimator. Each estimator reads its own fields only.
type Params struct {
	// IRLS
	MaxIterations int
	Tolerance     float64
	Delta         float64

	// HUBER
	HuberEpsilon       float64
	HuberAlpha         float64
	HuberMaxIterations int

	// RANSAC
	RansacTrials int
	// RansacThreshold is the inlier residual bound. Zero means the median absolute deviation of s.
	RansacThreshold float64
	// Seed fixes the RANSAC random source. Nil draws a fresh seed per fit.
	Seed *uint64
}

// DefaultParams returns the defaults of every estimator.
func DefaultParams() Params {
	return Params{
		MaxIterations:      10,
		Tolerance:          1e-6,
		Delta:              1.0,
		HuberEpsilon:       1.35,
		HuberAlpha:         1e-4,
		HuberMaxIterations: 100,
		RansacTrials:       100,
	}
}

// Validate reports the first out-of-range parameter as a ConfigurationError.
func (p Params) Validate() error {
	switch {
	case p.MaxIterations < 1:
		return invalidParam("max_iterations", float64(p.MaxIterations), "must be at least 1")
	case !(p.Tolerance >= 0):
		return invalidParam("tolerance", p.Tolerance, "must be non-negative")
	case !(p.Delta > 0) || math.IsInf(p.Delta, 0):
		return invalidParam("delta", p.Delta, "must be positive and finite")
	case !(p.HuberEpsilon >= 1) || math.IsInf(p.HuberEpsilon, 0):
		return invalidParam("huber_epsilon", p.HuberEpsilon, "must be at least 1 and finite")
	case !(p.HuberAlpha >= 0):
		return invalidParam("huber_alpha", p.HuberAlpha, "must be non-negative")
	case p.HuberMaxIterations < 1:
		return invalidParam("huber_max_iterations", float64(p.HuberMaxIterations), "must be at least 1")
	case p.RansacTrials < 1:
		return invalidParam("ransac_trials", float64(p.RansacTrials), "must be at least 1")
	case !(p.RansacThreshold >= 0):
		return invalidParam("ransac_threshold", p.RansacThreshold, "must be non-negative")
	}

	return nil
}

func invalidParam(field string, value float64, reason string) error {
	return &model.ConfigurationError{Field: field, Value: strconv.FormatFloat(value, 'g', -1, 64), Reason: reason}
}

// New returns the estimator selected by method.
func New(method model.Method, params Params) (Regressor, error) {
	err := params.Validate()
	if err != nil {
		return nil, err
	}

	switch method {
	case model.MethodIRLS:
		return &IRLS{MaxIterations: params.MaxIterations, Tolerance: params.Tolerance, Delta: params.Delta}, nil
	case model.MethodOLS:
		return OLS{}, nil
	case model.MethodHuber:
		return &Huber{Epsilon: params.HuberEpsilon, Alpha: params.HuberAlpha, MaxIterations: params.HuberMaxIterations}, nil
	case model.MethodRANSAC:
		return &RANSAC{Trials: params.RansacTrials, Threshold: params.RansacThreshold, Seed: params.Seed}, nil
	default:
		return nil, &model.ConfigurationError{Field: "method", Value: string(method)}
	}
}

func checkInput(p, s []float64) (int, error) {
	if len(p) != len(s) {
		return 0, errors.Wrapf(ErrLengthMismatch, "len(p)=%d, len(s)=%d", len(p), len(s))
	}

	if len(p) < MinSamples {
		return 0, &model.InsufficientDataError{Have: len(p), Need: MinSamples}
	}

	return len(p), nil
}

func degenerate(p []float64) bool {
	return floats.Max(p) == floats.Min(p)
}

// Residuals returns s[i] - line.At(p[i]).
func Residuals(line model.Line, p, s []float64) []float64 {
	res := make([]float64, len(p))
	for i := range p {
		res[i] = s[i] - line.At(p[i])
	}

	return res
}

package report

import (
	"context"

	"go.uber.org/zap"
)

// LogReporter logs the fit.
type LogReporter struct {
	Logger *zap.SugaredLogger
}

// Report implements Reporter.
func (r *LogReporter) Report(_ context.Context, data *Data) error {
	r.Logger.Infow(Equation(data.Fit.Line),
		"method", data.Fit.Method,
		"vpvs", data.Fit.Ratio(),
		"slope", data.Fit.Slope,
		"intercept", data.Fit.Intercept,
		"samples", data.Fit.Samples,
		"iterations", data.Fit.Iterations,
		"converged", data.Fit.Converged,
	)

	return nil
}

// Package report renders a fit: the residual samples, the fitted line over an extended range and the equation.
package report

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/askiada/go-vpvs/pkg/vpvs/model"
)

const (
	// DefaultMargin extends the evaluation range beyond the sample range, in seconds.
	DefaultMargin = 0.1
	// DefaultPoints is the number of points of the predicted line.
	DefaultPoints = 100
)

// Reporter consumes a fit.
type Reporter interface {
	Report(ctx context.Context, data *Data) error
}

// Data is what every reporter receives.
type Data struct {
	P, S []float64
	Fit  model.Fit
	// XRange spans min(P)-margin to max(P)+margin. YPred is the fitted line over XRange.
	XRange []float64
	YPred  []float64
}

// NewData evaluates the fitted line over the sample range extended by margin on both sides.
// p must not be empty.
func NewData(p, s []float64, fit model.Fit, margin float64, points int) *Data {
	if points < 2 {
		points = 2
	}

	xRange := floats.Span(make([]float64, points), floats.Min(p)-margin, floats.Max(p)+margin)

	yPred := make([]float64, points)
	for i, x := range xRange {
		yPred[i] = fit.At(x)
	}

	return &Data{P: p, S: s, Fit: fit, XRange: xRange, YPred: yPred}
}

// Equation is the legend label of a fitted line, rounded to two decimals.
func Equation(line model.Line) string {
	sign := "+"
	intercept := line.Intercept

	if intercept < 0 && fmt.Sprintf("%.2f", -intercept) != "0.00" {
		sign = "-"
		intercept = -intercept
	}

	if intercept < 0 {
		intercept = 0
	}

	return fmt.Sprintf("Vp/Vs = %.2fx %s %.2f", line.Slope, sign, intercept)
}

// Multi fans a report out to several reporters and stops at the first error.
type Multi []Reporter

func (m Multi) Report(ctx context.Context, data *Data) error {
	for _, r := range m {
		err := r.Report(ctx, data)
		if err != nil {
			return err
		}
	}

	return nil
}

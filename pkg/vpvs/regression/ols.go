package regression

import (
	"gonum.org/v1/gonum/stat"

	"github.com/askiada/go-vpvs/pkg/vpvs/model"
)

// OLS is unweighted least squares.
type OLS struct{}

// Method implements Regressor.
func (OLS) Method() model.Method {
	return model.MethodOLS
}

// Fit returns the least-squares line.
func (OLS) Fit(p, s []float64) (model.Fit, error) {
	n, err := checkInput(p, s)
	if err != nil {
		return model.Fit{}, err
	}

	if degenerate(p) {
		return model.Fit{}, &model.NumericalError{Method: model.MethodOLS, Err: ErrDegenerateDesign}
	}

	intercept, slope := stat.LinearRegression(p, s, nil, false)

	return model.Fit{
		Line:       model.Line{Intercept: intercept, Slope: slope},
		Method:     model.MethodOLS,
		Samples:    n,
		Iterations: 1,
		Converged:  true,
	}, nil
}

package regression

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/askiada/go-vpvs/pkg/vpvs/model"
)

// IRLS is iteratively reweighted least squares.
type IRLS struct {
	MaxIterations int
	// Tolerance stops the iterations once no weight moves by this much or more.
	Tolerance float64
	// Delta is the residual scale of the weight falloff.
	Delta float64
}

// Method implements Regressor.
func (r *IRLS) Method() model.Method {
	return model.MethodIRLS
}

// Fit starts from unit weights and alternates a weighted least-squares solve with a weight update.
// Reaching MaxIterations is not an error: the last line is returned with Converged unset.
func (r *IRLS) Fit(p, s []float64) (model.Fit, error) {
	n, err := checkInput(p, s)
	if err != nil {
		return model.Fit{}, err
	}

	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1
	}

	fit := model.Fit{Method: model.MethodIRLS, Samples: n}

	for iter := 1; iter <= r.MaxIterations; iter++ {
		line, err := WeightedLeastSquares(p, s, weights)
		if err != nil {
			return model.Fit{}, &model.NumericalError{
				Method:    model.MethodIRLS,
				Iteration: iter,
				Weights:   weights,
				Err:       err,
			}
		}

		fit.Line = line
		fit.Iterations = iter
		fit.Weights = weights

		next := HuberWeights(Residuals(line, p, s), r.Delta)
		if maxAbsDiff(next, weights) < r.Tolerance {
			fit.Converged = true

			break
		}

		weights = next
	}

	return fit, nil
}

// WeightedLeastSquares solves (XᵀWX)β = XᵀWy where X is a column of ones next to p and W = diag(w).
func WeightedLeastSquares(p, s, w []float64) (model.Line, error) {
	n := len(p)
	if len(s) != n || len(w) != n {
		return model.Line{}, errors.Wrapf(ErrLengthMismatch, "len(p)=%d, len(s)=%d, len(w)=%d", n, len(s), len(w))
	}

	if degenerate(p) {
		return model.Line{}, ErrDegenerateDesign
	}

	x := mat.NewDense(n, 2, nil)
	for i, v := range p {
		x.Set(i, 0, 1)
		x.Set(i, 1, v)
	}

	var xtw mat.Dense
	xtw.Mul(x.T(), mat.NewDiagDense(n, w))

	var xtwx mat.Dense
	xtwx.Mul(&xtw, x)

	var xtwy mat.VecDense
	xtwy.MulVec(&xtw, mat.NewVecDense(n, s))

	var beta mat.VecDense

	err := beta.SolveVec(&xtwx, &xtwy)
	if err != nil {
		return model.Line{}, errors.Wrap(err, "unable to solve weighted normal equations")
	}

	return model.Line{Intercept: beta.AtVec(0), Slope: beta.AtVec(1)}, nil
}

// HuberWeights maps residuals to 1/(1+(r/delta)^2).
func HuberWeights(residuals []float64, delta float64) []float64 {
	weights := make([]float64, len(residuals))
	for i, r := range residuals {
		z := r / delta
		weights[i] = 1 / (1 + z*z)
	}

	return weights
}

func maxAbsDiff(a, b []float64) float64 {
	var d float64
	for i := range a {
		d = math.Max(d, math.Abs(a[i]-b[i]))
	}

	return d
}

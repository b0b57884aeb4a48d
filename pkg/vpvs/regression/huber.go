package regression

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/optimize"

	"github.com/askiada/go-vpvs/pkg/vpvs/model"
)

// madToSigma scales a median absolute deviation to a normal standard deviation.
const madToSigma = 1.4826

// Huber minimises
//
//	Σ σ·(1 + H(rᵢ/σ)) + Alpha·slope²,  H(z) = z² if |z| ≤ Epsilon, 2·Epsilon·|z| − Epsilon² otherwise
//
// jointly over intercept, slope and the scale σ. The objective is convex, so the minimum is global.
// σ is optimised as log σ to keep it positive.
type Huber struct {
	Epsilon       float64
	Alpha         float64
	MaxIterations int
}

// Method implements Regressor.
func (h *Huber) Method() model.Method {
	return model.MethodHuber
}

// Fit starts BFGS from the OLS line. Stopping at MaxIterations or on a stalled line search
// still returns the best point found, with Converged unset.
func (h *Huber) Fit(p, s []float64) (model.Fit, error) {
	n, err := checkInput(p, s)
	if err != nil {
		return model.Fit{}, err
	}

	start, err := OLS{}.Fit(p, s)
	if err != nil {
		var numErr *model.NumericalError
		if errors.As(err, &numErr) {
			numErr.Method = model.MethodHuber
		}

		return model.Fit{}, err
	}

	sigma := madToSigma * medianAbsDeviation(Residuals(start.Line, p, s))
	if !(sigma > 0) {
		sigma = 1
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 { return h.loss(p, s, x) },
		Grad: func(grad, x []float64) { h.gradient(grad, p, s, x) },
	}
	settings := &optimize.Settings{
		GradientThreshold: 1e-10,
		MajorIterations:   h.MaxIterations,
	}

	res, err := optimize.Minimize(problem, []float64{start.Intercept, start.Slope, math.Log(sigma)}, settings, &optimize.BFGS{})
	if res == nil || !finite(res.X[0]) || !finite(res.X[1]) {
		return model.Fit{}, &model.NumericalError{Method: model.MethodHuber, Err: errors.Wrap(err, "huber minimisation failed")}
	}

	return model.Fit{
		Line:       model.Line{Intercept: res.X[0], Slope: res.X[1]},
		Method:     model.MethodHuber,
		Samples:    n,
		Iterations: res.MajorIterations,
		Converged:  err == nil,
	}, nil
}

func (h *Huber) loss(p, s, x []float64) float64 {
	intercept, slope, sigma := x[0], x[1], math.Exp(x[2])

	var sum float64
	for i := range p {
		z := (s[i] - intercept - slope*p[i]) / sigma
		sum += sigma * (1 + h.rho(z))
	}

	return sum + h.Alpha*slope*slope
}

func (h *Huber) gradient(grad, p, s, x []float64) {
	intercept, slope, sigma := x[0], x[1], math.Exp(x[2])

	var dIntercept, dSlope, dSigma float64
	for i := range p {
		z := (s[i] - intercept - slope*p[i]) / sigma
		psi := h.psi(z)
		dIntercept -= psi
		dSlope -= psi * p[i]
		dSigma += 1 + h.rho(z) - z*psi
	}

	grad[0] = dIntercept
	grad[1] = dSlope + 2*h.Alpha*slope
	grad[2] = dSigma * sigma
}

func (h *Huber) rho(z float64) float64 {
	if az := math.Abs(z); az > h.Epsilon {
		return 2*h.Epsilon*az - h.Epsilon*h.Epsilon
	}

	return z * z
}

func (h *Huber) psi(z float64) float64 {
	if math.Abs(z) > h.Epsilon {
		return 2 * h.Epsilon * math.Copysign(1, z)
	}

	return 2 * z
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

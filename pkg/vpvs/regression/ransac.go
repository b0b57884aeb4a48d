package regression

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/askiada/go-vpvs/pkg/vpvs/model"
)

// minThreshold replaces a zero median absolute deviation, which happens on noiseless input.
const minThreshold = 1e-12

// RANSAC fits lines through random pairs of samples, keeps the one with the largest consensus set
// and refits it by least squares on that set.
type RANSAC struct {
	Trials int
	// Threshold is the inlier bound on |residual|. Zero means the median absolute deviation of s.
	Threshold float64
	// Seed makes the fit reproducible. Nil draws a fresh seed.
	Seed *uint64
}

// Method implements Regressor.
func (r *RANSAC) Method() model.Method {
	return model.MethodRANSAC
}

type consensus struct {
	inliers []int
	sse     float64
}

func (c consensus) better(other consensus) bool {
	if len(c.inliers) != len(other.inliers) {
		return len(c.inliers) > len(other.inliers)
	}

	return c.sse < other.sse
}

// Fit runs Trials candidate draws. Candidates through two samples with the same p are skipped.
func (r *RANSAC) Fit(p, s []float64) (model.Fit, error) {
	n, err := checkInput(p, s)
	if err != nil {
		return model.Fit{}, err
	}

	threshold := r.Threshold
	if threshold == 0 {
		threshold = math.Max(medianAbsDeviation(s), minThreshold)
	}

	rng := r.random()
	best := consensus{}

	for range r.Trials {
		i := rng.IntN(n)
		j := rng.IntN(n - 1)
		if j >= i {
			j++
		}

		if p[i] == p[j] {
			continue
		}

		slope := (s[j] - s[i]) / (p[j] - p[i])
		candidate := model.Line{Intercept: s[i] - slope*p[i], Slope: slope}

		current := inliersOf(candidate, p, s, threshold)
		if current.better(best) {
			best = current
		}
	}

	if len(best.inliers) < MinSamples {
		return model.Fit{}, &model.NumericalError{Method: model.MethodRANSAC, Err: ErrNoConsensus}
	}

	inP := make([]float64, len(best.inliers))
	inS := make([]float64, len(best.inliers))

	for k, idx := range best.inliers {
		inP[k], inS[k] = p[idx], s[idx]
	}

	refit, err := OLS{}.Fit(inP, inS)
	if err != nil {
		return model.Fit{}, &model.NumericalError{Method: model.MethodRANSAC, Err: err}
	}

	return model.Fit{
		Line:       refit.Line,
		Method:     model.MethodRANSAC,
		Samples:    n,
		Iterations: r.Trials,
		Converged:  true,
		Inliers:    len(best.inliers),
	}, nil
}

func (r *RANSAC) random() *rand.Rand {
	if r.Seed != nil {
		return rand.New(rand.NewPCG(*r.Seed, 0))
	}

	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func inliersOf(line model.Line, p, s []float64, threshold float64) consensus {
	c := consensus{}

	for i := range p {
		res := s[i] - line.At(p[i])
		if math.Abs(res) <= threshold {
			c.inliers = append(c.inliers, i)
			c.sse += res * res
		}
	}

	return c
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}

	return (sorted[mid-1] + sorted[mid]) / 2
}

func medianAbsDeviation(values []float64) float64 {
	m := median(values)

	dev := make([]float64, len(values))
	for i, v := range values {
		dev[i] = math.Abs(v - m)
	}

	return median(dev)
}

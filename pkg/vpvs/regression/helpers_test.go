package regression_test

import (
	"math/rand/v2"
)

const trueRatio = 1.73

// linearSamples returns n samples of s = trueRatio*p with Gaussian noise of the given standard deviation.
func linearSamples(n int, noise float64, seed uint64) (p, s []float64) {
	rng := rand.New(rand.NewPCG(seed, 0))

	p = make([]float64, n)
	s = make([]float64, n)

	for i := range n {
		p[i] = rng.Float64() - 0.5
		s[i] = trueRatio*p[i] + noise*rng.NormFloat64()
	}

	return p, s
}

// withOutliers shifts every k-th sample with a positive p up by offset and returns how many were shifted.
func withOutliers(p, s []float64, k int, offset float64) int {
	shifted := 0

	for i := range p {
		if i%k == 0 && p[i] > 0 {
			s[i] += offset
			shifted++
		}
	}

	return shifted
}

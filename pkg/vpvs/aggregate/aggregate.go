// Package aggregate collects residual samples of every group into one aligned sample set.
package aggregate

import (
	"github.com/askiada/go-vpvs/pkg/vpvs/model"
)

// SampleSet holds aligned P and S residuals: P[i] pairs with S[i].
type SampleSet struct {
	p, s []float64
}

// New creates an empty sample set.
func New() *SampleSet {
	return &SampleSet{}
}

// Add appends samples in order.
func (set *SampleSet) Add(samples ...model.Sample) {
	for _, sample := range samples {
		set.p = append(set.p, sample.P)
		set.s = append(set.s, sample.S)
	}
}

// Len is the number of samples.
func (set *SampleSet) Len() int {
	return len(set.p)
}

// Values returns the P and S sequences. An empty set is an InsufficientDataError.
// The returned slices are copies.
func (set *SampleSet) Values() (p, s []float64, err error) {
	if len(set.p) == 0 {
		return nil, nil, &model.InsufficientDataError{Have: 0, Need: 1}
	}

	p = append([]float64(nil), set.p...)
	s = append([]float64(nil), set.s...)

	return p, s, nil
}

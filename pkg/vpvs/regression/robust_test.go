package regression_test

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-vpvs/pkg/vpvs/model"
	"github.com/askiada/go-vpvs/pkg/vpvs/regression"
)

func TestHuberResistsOutliers(t *testing.T) {
	t.Parallel()

	p, s := linearSamples(200, 0.02, 5)
	withOutliers(p, s, 5, 2)

	ols, err := regression.OLS{}.Fit(p, s)
	require.NoError(t, err)

	huber := &regression.Huber{Epsilon: 1.35, Alpha: 1e-4, MaxIterations: 200}

	fit, err := huber.Fit(p, s)
	require.NoError(t, err)
	assert.Equal(t, model.MethodHuber, fit.Method)
	assert.Positive(t, fit.Iterations)
	assert.InDelta(t, trueRatio, fit.Slope, 0.1)
	assert.Less(t, math.Abs(fit.Slope-trueRatio), math.Abs(ols.Slope-trueRatio))
}

func TestRANSACResistsOutliers(t *testing.T) {
	t.Parallel()

	p, s := linearSamples(100, 0.01, 9)
	shifted := withOutliers(p, s, 3, 2)
	require.Positive(t, shifted)

	seed := uint64(42)
	ransac := &regression.RANSAC{Trials: 100, Seed: &seed}

	fit, err := ransac.Fit(p, s)
	require.NoError(t, err)
	assert.InDelta(t, trueRatio, fit.Slope, 0.05)
	assert.Greater(t, fit.Inliers, len(p)/2)
	assert.LessOrEqual(t, fit.Inliers, len(p)-shifted)
	assert.Equal(t, 100, fit.Iterations)
}

func TestRANSACSeededIsDeterministic(t *testing.T) {
	t.Parallel()

	p, s := linearSamples(60, 0.1, 13)
	withOutliers(p, s, 4, 1)

	seed := uint64(2024)

	first, err := (&regression.RANSAC{Trials: 30, Seed: &seed}).Fit(p, s)
	require.NoError(t, err)

	second, err := (&regression.RANSAC{Trials: 30, Seed: &seed}).Fit(p, s)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRANSACNoConsensus(t *testing.T) {
	t.Parallel()

	ransac := &regression.RANSAC{Trials: 10, Threshold: 1e-9}

	_, err := ransac.Fit([]float64{0, 0, 0}, []float64{0, 1, 2})

	var numErr *model.NumericalError
	require.True(t, errors.As(err, &numErr))
	assert.ErrorIs(t, err, regression.ErrNoConsensus)
}

package vpvs_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/askiada/go-vpvs/pkg/pipeline/drawer"
	"github.com/askiada/go-vpvs/pkg/vpvs"
	"github.com/askiada/go-vpvs/pkg/vpvs/model"
)

func newEstimator(t *testing.T, update func(cfg *vpvs.Config), opts ...vpvs.Option) *vpvs.Estimator {
	t.Helper()

	cfg := vpvs.DefaultConfig()
	if update != nil {
		update(&cfg)
	}

	est, err := vpvs.New(cfg, opts...)
	require.NoError(t, err)

	return est
}

// syntheticInput builds groups whose S times are ratio times the P times plus a per-group origin shift.
func syntheticInput(ratio float64, groups int) string {
	var sb strings.Builder

	ps := []float64{0.12, -0.31, 0.27, 0.05, -0.18, 0.4}

	for g := range groups {
		shiftP, shiftS := 0.1*float64(g), -0.25*float64(g)

		fmt.Fprintf(&sb, "# %d %d 0.0\n", 2*g+1, 2*g+2)

		for i, p := range ps {
			sta := fmt.Sprintf("ST%02d", i)
			fmt.Fprintf(&sb, "%s %.8f 0.91 P\n", sta, p+shiftP+0.01*float64(g))
			fmt.Fprintf(&sb, "%s %.8f 0.88 S\n", sta, ratio*(p+0.01*float64(g))+shiftS)
		}

		// P only and low correlation picks never contribute
		fmt.Fprintf(&sb, "PONLY 0.3 0.99 P\nLOWCC 5.0 0.10 S\n")
	}

	return sb.String()
}

func TestEstimateSyntheticRatio(t *testing.T) {
	t.Parallel()

	for _, m := range model.Methods {
		t.Run(string(m), func(t *testing.T) {
			t.Parallel()

			est := newEstimator(t, func(cfg *vpvs.Config) {
				cfg.Method = m
				seed := uint64(3)
				cfg.Regression.Seed = &seed
			})

			res, err := est.Estimate(t.Context(), strings.NewReader(syntheticInput(1.73, 4)))
			require.NoError(t, err)

			assert.Equal(t, 4, res.Groups)
			assert.Equal(t, 4, res.Contributing)
			assert.Len(t, res.P, 24)
			assert.Len(t, res.S, 24)
			assert.InEpsilon(t, 1.73, res.Fit.Ratio(), 0.01)
			assert.Equal(t, m, res.Fit.Method)
		})
	}
}

func TestEstimateWorkedExample(t *testing.T) {
	t.Parallel()

	input := `# 1 2
A 1.0 0.9 P
A 1.8 0.9 S
B 1.2 0.9 P
B 2.0 0.9 S
C 0.8 0.9 P
C 1.6 0.9 S
# 3 4
D 0.5 0.9 P
E 0.7 0.9 S
`

	est := newEstimator(t, func(cfg *vpvs.Config) { cfg.Method = model.MethodOLS })

	set, err := est.Samples(t.Context(), strings.NewReader(input))
	require.NoError(t, err)

	p, s, err := set.Values()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0.2, -0.2}, p, 1e-12)
	assert.InDeltaSlice(t, []float64{0, 0.2, -0.2}, s, 1e-12)

	res, err := est.Estimate(t.Context(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Groups)
	assert.Equal(t, 1, res.Contributing)
	assert.InDelta(t, 1, res.Fit.Slope, 1e-9)
	assert.InDelta(t, 0, res.Fit.Intercept, 1e-9)
}

func TestEstimateFormatB(t *testing.T) {
	t.Parallel()

	var sb strings.Builder

	for g := range 3 {
		fmt.Fprintf(&sb, "# pair %d\n", g)

		for i, p := range []float64{0.1, 0.3, -0.2, 0.45} {
			fmt.Fprintf(&sb, "S%d %.8f 10.0 0.9 P\n", i, 10+p+0.05*float64(g))
			fmt.Fprintf(&sb, "S%d 20.0 %.8f 0.9 S\n", i, 20-1.75*p)
		}
	}

	est := newEstimator(t, func(cfg *vpvs.Config) { cfg.Format = model.FormatB })

	res, err := est.Estimate(t.Context(), strings.NewReader(sb.String()))
	require.NoError(t, err)
	assert.InEpsilon(t, 1.75, res.Fit.Ratio(), 0.01)
}

func TestEstimateThresholdFiltersEverything(t *testing.T) {
	t.Parallel()

	est := newEstimator(t, func(cfg *vpvs.Config) { cfg.Threshold = 0.95 })

	_, err := est.Estimate(t.Context(), strings.NewReader(syntheticInput(1.73, 2)))

	var dataErr *model.InsufficientDataError
	require.True(t, errors.As(err, &dataErr))
}

func TestEstimateErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input  string
		target any
	}{
		"parse error":        {input: "# 1\nA 0.1 P\n", target: new(*model.ParseError)},
		"data before marker": {input: "A 0.1 0.9 P\n", target: new(*model.ParseError)},
		"single sample":      {input: "# 1\nA 0.1 0.9 P\nA 0.2 0.9 S\n", target: new(*model.InsufficientDataError)},
		"empty":              {input: "", target: new(*model.InsufficientDataError)},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := newEstimator(t, nil).Estimate(t.Context(), strings.NewReader(tc.input))
			require.Error(t, err)
			assert.True(t, errors.As(err, tc.target), err.Error())
		})
	}
}

func TestEstimateCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := newEstimator(t, nil).Estimate(ctx, strings.NewReader(syntheticInput(1.73, 50)))
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewInvalidConfig(t *testing.T) {
	t.Parallel()

	tcs := map[string]func(cfg *vpvs.Config){
		"format":     func(cfg *vpvs.Config) { cfg.Format = "C" },
		"method":     func(cfg *vpvs.Config) { cfg.Method = "LASSO" },
		"parameters": func(cfg *vpvs.Config) { cfg.Regression.MaxIterations = 0 },
	}

	for name, update := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := vpvs.DefaultConfig()
			update(&cfg)

			_, err := vpvs.New(cfg)

			var cfgErr *model.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestEstimateFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "dt.cc")
	require.NoError(t, os.WriteFile(input, []byte(syntheticInput(1.68, 3)), 0o600))

	core, logs := observer.New(zap.DebugLevel)
	graph := filepath.Join(dir, "steps.dot")

	est := newEstimator(t, nil, vpvs.WithLogger(zap.New(core).Sugar()), vpvs.WithDrawer(drawer.NewDOTDrawer(graph)))

	res, err := est.EstimateFile(t.Context(), input)
	require.NoError(t, err)
	assert.InEpsilon(t, 1.68, res.Fit.Ratio(), 0.01)

	assert.Equal(t, 3, logs.FilterMessage("group reduced").Len())
	assert.Equal(t, 1, logs.FilterMessage("fit done").Len())

	content, err := os.ReadFile(graph)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"parse" -> "reduce"`)

	_, err = est.EstimateFile(t.Context(), filepath.Join(dir, "missing"))
	require.Error(t, err)
}

package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-vpvs/pkg/pipeline"
	"github.com/askiada/go-vpvs/pkg/pipeline/drawer"
	"github.com/askiada/go-vpvs/pkg/pipeline/measure"
	"github.com/askiada/go-vpvs/pkg/pipeline/model"
)

func rootCounter(total int) func(ctx context.Context, rootChan chan<- int) error {
	return func(ctx context.Context, rootChan chan<- int) error {
		for i := range total {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case rootChan <- i:
			}
		}

		return nil
	}
}

func TestAddRootStepErrors(t *testing.T) {
	t.Parallel()

	_, err := pipeline.AddRootStep(nil, "root", rootCounter(1))
	require.ErrorIs(t, err, pipeline.ErrPipelineMustBeSet)

	pipe, err := pipeline.New(t.Context())
	require.NoError(t, err)

	_, err = pipeline.AddRootStep(pipe, "", rootCounter(1))
	require.ErrorIs(t, err, pipeline.ErrNameMustBeSet)
}

func TestAddStepOneToManyNilInput(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(t.Context())
	require.NoError(t, err)

	_, err = pipeline.AddStepOneToMany(pipe, "step", (*model.Step[int])(nil), func(_ context.Context, in int) ([]int, error) {
		return []int{in}, nil
	})
	require.ErrorIs(t, err, pipeline.ErrInputMustBeSet)

	err = pipeline.AddSink(pipe, "sink", (*model.Step[int])(nil), func(context.Context, int) error { return nil })
	require.ErrorIs(t, err, pipeline.ErrInputMustBeSet)
}

func TestPipelineKeepsOrder(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(t.Context())
	require.NoError(t, err)

	root, err := pipeline.AddRootStep(pipe, "root", rootCounter(100))
	require.NoError(t, err)

	strs, err := pipeline.AddStepOneToMany(pipe, "format", root, func(_ context.Context, in int) ([]string, error) {
		if in%10 == 0 {
			return nil, nil
		}

		return []string{strconv.Itoa(in), "-"}, nil
	})
	require.NoError(t, err)

	var got []string

	err = pipeline.AddSink(pipe, "collect", strs, func(_ context.Context, in string) error {
		got = append(got, in)

		return nil
	})
	require.NoError(t, err)

	require.NoError(t, pipe.Run())

	expected := []string{}
	for i := range 100 {
		if i%10 == 0 {
			continue
		}

		expected = append(expected, strconv.Itoa(i), "-")
	}

	assert.Equal(t, expected, got)
}

func TestPipelineErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		rootErr, stepErr, sinkErr bool
		stepName                  string
	}{
		"root": {rootErr: true, stepName: "root"},
		"step": {stepErr: true, stepName: "step"},
		"sink": {sinkErr: true, stepName: "sink"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			pipe, err := pipeline.New(t.Context())
			require.NoError(t, err)

			root, err := pipeline.AddRootStep(pipe, "root", func(ctx context.Context, rootChan chan<- int) error {
				err := rootCounter(5)(ctx, rootChan)
				if err != nil {
					return err
				}

				if tc.rootErr {
					return assert.AnError
				}

				return rootCounter(1000)(ctx, rootChan)
			})
			require.NoError(t, err)

			step, err := pipeline.AddStepOneToMany(pipe, "step", root, func(_ context.Context, in int) ([]int, error) {
				if tc.stepErr && in == 3 {
					return nil, assert.AnError
				}

				return []int{in}, nil
			})
			require.NoError(t, err)

			err = pipeline.AddSink(pipe, "sink", step, func(_ context.Context, in int) error {
				if tc.sinkErr && in == 2 {
					return assert.AnError
				}

				return nil
			})
			require.NoError(t, err)

			err = pipe.Run()
			require.ErrorIs(t, err, assert.AnError)
			assert.Contains(t, err.Error(), tc.stepName+":")
		})
	}
}

func TestPipelineCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	pipe, err := pipeline.New(ctx)
	require.NoError(t, err)

	root, err := pipeline.AddRootStep(pipe, "root", rootCounter(1000))
	require.NoError(t, err)

	err = pipeline.AddSink(pipe, "sink", root, func(context.Context, int) error { return nil })
	require.NoError(t, err)

	require.ErrorIs(t, pipe.Run(), context.Canceled)
}

func TestPipelineWithOptions(t *testing.T) {
	t.Parallel()

	msr := measure.NewDefaultMeasure()
	dotPath := filepath.Join(t.TempDir(), "pipeline.dot")

	pipe, err := pipeline.New(t.Context(),
		measure.PipelineMeasure(msr),
		drawer.PipelineDrawer(drawer.NewDOTDrawer(dotPath), msr),
	)
	require.NoError(t, err)

	root, err := pipeline.AddRootStep(pipe, "root", rootCounter(10))
	require.NoError(t, err)

	doubled, err := pipeline.AddStepOneToMany(pipe, "double", root, func(_ context.Context, in int) ([]int, error) {
		return []int{in, in}, nil
	})
	require.NoError(t, err)

	total := 0

	err = pipeline.AddSink(pipe, "sum", doubled, func(_ context.Context, in int) error {
		total += in

		return nil
	})
	require.NoError(t, err)

	require.NoError(t, pipe.Run())
	assert.Equal(t, 90, total)

	assert.Equal(t, int64(10), msr.GetMetric("double").Count())
	assert.Equal(t, int64(20), msr.GetMetric("sum").Count())
	assert.Contains(t, msr.GetMetric("double").AVGTransportDuration(), "root")
	assert.Positive(t, msr.GetMetric(model.EndStep.Details.Name).GetTotalDuration())

	content, err := os.ReadFile(dotPath)
	require.NoError(t, err)

	dot := string(content)
	for _, name := range []string{"start", "root", "double", "sum", "end"} {
		assert.Contains(t, dot, `"`+name+`"`)
	}
}

package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-vpvs/pkg/pipeline/model"
)

// runOneToMany consumes input in order and pushes every output of oneToManyFn in order.
func runOneToMany[I any, O any](ctx context.Context, opts []model.PipelineOption, input *model.Step[I], output *model.Step[O], oneToManyFn func(context.Context, I) ([]O, error)) error {
	parent := detailsOf(input)
	idx := 0

	for {
		start := time.Now()

		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "element %d", idx)
		case in, ok := <-input.Output:
			if !ok {
				return nil
			}

			startFn := time.Now()

			outs, err := oneToManyFn(ctx, in)
			if err != nil {
				return errors.Wrapf(err, "element %d", idx)
			}

			endFn := time.Since(startFn)

			for _, out := range outs {
				// we check the context again so that a failure elsewhere stops the step
				select {
				case <-ctx.Done():
					return errors.Wrapf(ctx.Err(), "element %d", idx)
				case output.Output <- out:
				}
			}

			for _, opt := range opts {
				err := opt.OnStepOutput(parent, output.Details, time.Since(start)-endFn, endFn)
				if err != nil {
					return errors.Wrap(err, "unable to run on step output function")
				}
			}

			idx++
		}
	}
}

// AddStepOneToMany adds a step turning every input element into zero or more output elements.
// Elements keep the input order.
func AddStepOneToMany[I any, O any](p *Pipeline, name string, input *model.Step[I], oneToManyFn func(context.Context, I) ([]O, error)) (*model.Step[O], error) {
	err := checkStep(p, name, input)
	if err != nil {
		return nil, err
	}

	output := make(chan O)
	step := &model.Step[O]{
		Details: &model.StepInfo{
			Type: model.NormalStepType,
			Name: name,
		},
		Output: output,
	}

	for _, opt := range p.opts {
		err := opt.PrepareStep(detailsOf(input), step.Details)
		if err != nil {
			return nil, errors.Wrap(err, "unable to run before step function")
		}
	}

	p.addStage(name, func(ctx context.Context) error {
		defer close(output)

		return runOneToMany(ctx, p.opts, input, step, oneToManyFn)
	})

	return step, nil
}

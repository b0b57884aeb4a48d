package pipeline

import (
	"context"

	"github.com/pkg/errors"

	"github.com/askiada/go-vpvs/pkg/pipeline/model"
)

// AddRootStep adds a step without input. stepFn pushes elements to rootChan, which is closed when stepFn returns.
// stepFn must select on ctx when sending so that it stops once another step failed.
func AddRootStep[O any](p *Pipeline, name string, stepFn func(ctx context.Context, rootChan chan<- O) error) (*model.Step[O], error) {
	err := checkStep(p, name, model.StartStep)
	if err != nil {
		return nil, err
	}

	output := make(chan O)
	step := &model.Step[O]{
		Details: &model.StepInfo{
			Type: model.RootStepType,
			Name: name,
		},
		Output: output,
	}

	for _, opt := range p.opts {
		err := opt.PrepareStep(model.StartStep.Details, step.Details)
		if err != nil {
			return nil, errors.Wrap(err, "unable to run before step function")
		}
	}

	p.addStage(name, func(ctx context.Context) error {
		defer close(output)

		return stepFn(ctx, output)
	})

	return step, nil
}

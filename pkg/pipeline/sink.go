package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-vpvs/pkg/pipeline/model"
)

// AddSink adds the final consumer of input. sinkFn sees the elements in order.
// Run returns only after the sink drained its input, so whatever sinkFn accumulates is complete once Run returns nil.
func AddSink[I any](pipe *Pipeline, name string, input *model.Step[I], sinkFn func(ctx context.Context, input I) error) error {
	err := checkStep(pipe, name, input)
	if err != nil {
		return err
	}

	step := &model.StepInfo{
		Type: model.SinkStepType,
		Name: name,
	}
	parent := detailsOf(input)

	for _, opt := range pipe.opts {
		err := opt.PrepareSink(parent, step)
		if err != nil {
			return errors.Wrap(err, "unable to run before sink function")
		}
	}

	pipe.addStage(name, func(ctx context.Context) error {
		for {
			startInputChan := time.Now()

			select {
			case <-ctx.Done():
				return ctx.Err()
			case in, ok := <-input.Output:
				if !ok {
					for _, opt := range pipe.opts {
						err := opt.AfterSink(step, time.Since(pipe.startTime))
						if err != nil {
							return errors.Wrap(err, "unable to run after sink function")
						}
					}

					return nil
				}

				endInputChan := time.Since(startInputChan)
				startFn := time.Now()

				err := sinkFn(ctx, in)
				if err != nil {
					return err
				}

				endFn := time.Since(startFn)

				for _, opt := range pipe.opts {
					err := opt.OnSinkOutput(parent, step, endInputChan, endFn)
					if err != nil {
						return errors.Wrap(err, "unable to run on sink output function")
					}
				}
			}
		}
	})

	return nil
}

package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-vpvs/pkg/pipeline/model"
)

type stage struct {
	name string
	run  func(ctx context.Context) error
}

// Pipeline is a pipeline of steps.
type Pipeline struct {
	ctx       context.Context
	opts      []model.PipelineOption
	startTime time.Time
	stages    []stage
}

// New creates a new pipeline.
func New(ctx context.Context, opts ...model.PipelineOption) (*Pipeline, error) {
	pipe := &Pipeline{
		ctx:       ctx,
		startTime: time.Now(),
		opts:      opts,
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

func (p *Pipeline) addStage(name string, run func(ctx context.Context) error) {
	p.stages = append(p.stages, stage{name: name, run: run})
}

// Run starts every step and waits for all of them to return.
// The first error cancels the remaining steps and is returned, prefixed with the step name.
// Options are finished only when every step succeeded.
func (p *Pipeline) Run() error {
	errGrp, dCtx := errgroup.WithContext(p.ctx)

	for _, st := range p.stages {
		errGrp.Go(func() error {
			err := st.run(dCtx)
			if err != nil {
				return errors.Wrap(err, st.name)
			}

			return nil
		})
	}

	err := errGrp.Wait()
	if err != nil {
		return err
	}

	return p.finishRun()
}

func (p *Pipeline) finishRun() error {
	for _, opt := range p.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}

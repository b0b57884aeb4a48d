package pipeline

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-vpvs/pkg/pipeline/model"
)

var (
	ErrPipelineMustBeSet = errors.New("p must be set")
	ErrInputMustBeSet    = errors.New("input must be set")
	ErrNameMustBeSet     = errors.New("name must be set")
)

func checkStep[I any](pipe *Pipeline, name string, input *model.Step[I]) error {
	if pipe == nil {
		return ErrPipelineMustBeSet
	}

	if input == nil {
		return ErrInputMustBeSet
	}

	if name == "" {
		return ErrNameMustBeSet
	}

	return nil
}

// detailsOf falls back to the start step for inputs built outside the pipeline.
func detailsOf[I any](step *model.Step[I]) *model.StepInfo {
	if step.Details == nil {
		return model.StartStep.Details
	}

	return step.Details
}

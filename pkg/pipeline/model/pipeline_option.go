package model

import "time"

// PipelineOption hooks into the lifecycle of a pipeline.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error

	pipelineStepOption
	pipelineSinkOption

	// Finish runs after every step and sink has returned without error.
	Finish() error
}

// pipelineStepOption defines the hooks of root and normal steps.
type pipelineStepOption interface {
	// PrepareStep runs when the step is added. The parent of a root step is StartStep.
	PrepareStep(parentStep, step *StepInfo) error
	// OnStepOutput runs every time the step pushes an element to its output.
	OnStepOutput(parentStep, step *StepInfo, iterationDuration, computationDuration time.Duration) error
}

// pipelineSinkOption defines the hooks of sinks.
type pipelineSinkOption interface {
	// PrepareSink runs when the sink is added.
	PrepareSink(parentStep, step *StepInfo) error
	// OnSinkOutput runs every time the sink consumes an element.
	OnSinkOutput(parentStep, step *StepInfo, iterationDuration, computationDuration time.Duration) error
	// AfterSink runs once the sink input is drained.
	AfterSink(step *StepInfo, totalDuration time.Duration) error
}

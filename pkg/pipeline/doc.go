// Package pipeline provides a pipeline for processing data.
//
// A pipeline is a chain of steps connected by channels: a root step produces elements, normal steps transform them
// and a sink consumes them. Every step runs in its own goroutine and handles one element at a time, so elements
// reach the sink in the order the root step produced them.
//
// Run waits for every step. The first error cancels the others through the shared context and is returned,
// which makes Run a barrier: once it returns nil, the sink has seen every element.
//
// Options implementing model.PipelineOption observe the steps as they are added and as elements flow through them.
// The measure and drawer packages provide timing and a DOT rendering of the pipeline graph.
package pipeline

package measure

import "time"

// Measure holds one Metric per step.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric accumulates the timings of one step.
type Metric interface {
	// AddDuration records the computation time of one element.
	AddDuration(elapsed time.Duration)
	// AddTransportDuration records the time spent waiting on the input step.
	AddTransportDuration(inputStepName string, elapsed time.Duration)
	// Count is the number of elements recorded by AddDuration.
	Count() int64
	AVGDuration() time.Duration
	AVGTransportDuration() map[string]time.Duration
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
}

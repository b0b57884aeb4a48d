package model

import (
	"fmt"
)

// ConfigurationError reports an unknown selector or an invalid parameter.
// It is raised before any input is read.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
	}

	return fmt.Sprintf("unknown %s %q", e.Field, e.Value)
}

// ParseError reports a malformed data line.
type ParseError struct {
	// Line is 1-based.
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %s", e.Line, e.Text, e.Reason)
}

// InsufficientDataError reports fewer usable samples than an operation needs.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: have %d samples, need at least %d", e.Have, e.Need)
}

// NumericalError reports a singular or degenerate least-squares system.
type NumericalError struct {
	Method Method
	// Iteration is 1-based, 0 when the failure is not tied to an iteration.
	Iteration int
	Weights   []float64
	Err       error
}

func (e *NumericalError) Error() string {
	msg := fmt.Sprintf("%s: numerical failure", e.Method)
	if e.Iteration > 0 {
		msg += fmt.Sprintf(" at iteration %d", e.Iteration)
	}

	if len(e.Weights) > 0 {
		minW, maxW := e.Weights[0], e.Weights[0]
		for _, w := range e.Weights[1:] {
			minW = min(minW, w)
			maxW = max(maxW, w)
		}

		msg += fmt.Sprintf(" (%d weights in [%.3g, %.3g])", len(e.Weights), minW, maxW)
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *NumericalError) Unwrap() error {
	return e.Err
}

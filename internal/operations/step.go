// Package operations runs the batch pipeline as an ordered sequence of
// steps sharing a single mutable state.
package operations

import (
	"context"
	"fmt"
)

// Step is a single unit of pipeline work.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() string

	// Name returns the human-readable name for this step.
	Name() string

	// Validate checks that the step can run against the current state.
	Validate(state *State) error

	// Execute runs the step.
	Execute(ctx context.Context, state *State) error
}

// StepError wraps a failure with the id of the step that produced it.
type StepError struct {
	StepID string
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %v", e.StepID, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// NewStepError creates a StepError for the given step.
func NewStepError(stepID string, err error) *StepError {
	return &StepError{StepID: stepID, Err: err}
}

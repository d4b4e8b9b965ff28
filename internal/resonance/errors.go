package resonance

import (
	"errors"
	"fmt"
)

// Domain errors for simulation and metric operations.
var (
	// ErrInvalidParameter indicates a construction input outside its
	// valid range (non-positive mass, asymmetric coupling, bad timing).
	ErrInvalidParameter = errors.New("resonance: invalid parameter")

	// ErrInsufficientData indicates a trajectory too short for the
	// requested computation.
	ErrInsufficientData = errors.New("resonance: insufficient data")

	// ErrNumericalDegeneracy indicates a NaN or Inf was produced or
	// encountered. Degenerate values are surfaced, never clamped.
	ErrNumericalDegeneracy = errors.New("resonance: numerical degeneracy (NaN or Inf)")

	// ErrStepTooSmall indicates the adaptive timestep fell below minimum.
	ErrStepTooSmall = errors.New("resonance: adaptive timestep below minimum")
)

// StepError wraps an error with the step at which it occurred.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}

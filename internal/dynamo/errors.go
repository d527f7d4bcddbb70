package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidParameter is the single failure category for rejected run
	// configuration (timestep, step count, stiffness, initial state).
	ErrInvalidParameter = errors.New("dynamo: invalid parameter")

	// ErrInvalidState indicates a produced state holding NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates two trajectories that cannot be compared point by point.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between trajectories")

	// ErrDegenerate indicates a trajectory with too little signal to analyse.
	ErrDegenerate = errors.New("dynamo: degenerate trajectory")
)

// ParameterError describes which parameter failed validation.
type ParameterError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("dynamo: invalid parameter %s=%g: %s", e.Name, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"zero", State{}, true},
		{"normal", State{Q: 1, V: -2}, true},
		{"NaN position", State{Q: math.NaN()}, false},
		{"+Inf velocity", State{V: math.Inf(1)}, false},
		{"-Inf position", State{Q: math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Norm(t *testing.T) {
	s := State{Q: 3, V: 4}
	if got := s.Norm(); math.Abs(got-5) > 1e-12 {
		t.Errorf("Norm() = %v, want 5", got)
	}
	if got := s.Radius2(); got != 25 {
		t.Errorf("Radius2() = %v, want 25", got)
	}
	d := s.Sub(State{Q: 1, V: 1})
	if d.Q != 2 || d.V != 3 {
		t.Errorf("Sub failed: got %+v", d)
	}
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		field  string
	}{
		{"zero dt", Params{KOverM: 1, Dt: 0}, "dt"},
		{"negative dt", Params{KOverM: 1, Dt: -0.1}, "dt"},
		{"NaN dt", Params{KOverM: 1, Dt: math.NaN()}, "dt"},
		{"negative stiffness", Params{KOverM: -1, Dt: 0.1}, "k_over_m"},
		{"infinite stiffness", Params{KOverM: math.Inf(1), Dt: 0.1}, "k_over_m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("expected ErrInvalidParameter, got %v", err)
			}
			var pe *ParameterError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParameterError, got %T", err)
			}
			if pe.Name != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, pe.Name)
			}
		})
	}

	if err := (Params{KOverM: 0, Dt: 0.1}).Validate(); err != nil {
		t.Errorf("zero stiffness should be valid, got %v", err)
	}
}

func TestValidateSteps(t *testing.T) {
	if err := ValidateSteps(0); err != nil {
		t.Errorf("zero steps should be valid, got %v", err)
	}
	if err := ValidateSteps(-1); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestTrajectory_Accessors(t *testing.T) {
	p := Params{KOverM: 1, Dt: 0.5}
	traj := NewTrajectory("test", p, []State{{Q: 1}, {Q: 0.5, V: -0.5}, {Q: 0, V: -1}})

	if traj.Len() != 3 || traj.Steps() != 2 {
		t.Fatalf("expected 3 states / 2 steps, got %d / %d", traj.Len(), traj.Steps())
	}
	if traj.First().Q != 1 || traj.Last().V != -1 {
		t.Errorf("unexpected endpoints: %+v %+v", traj.First(), traj.Last())
	}

	times := traj.Times()
	if times[2] != 1.0 {
		t.Errorf("expected t=1.0 at step 2, got %f", times[2])
	}

	states := traj.States()
	states[0].Q = 99
	if traj.First().Q == 99 {
		t.Error("States() did not return an independent copy")
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Step: 150, Time: 1.5, Wrapped: ErrInvalidState}
	expected := "step 150 (t=1.5000): dynamo: invalid state (NaN or Inf detected)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimulationError should unwrap to ErrInvalidState")
	}
}

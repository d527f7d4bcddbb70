package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/phasekit/internal/config"
	"github.com/san-kum/phasekit/internal/dynamo"
	"github.com/san-kum/phasekit/internal/integrators"
	"github.com/san-kum/phasekit/internal/physics"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	names := r.ListMetrics()
	if len(names) != 4 || names[0] != "energy" {
		t.Errorf("unexpected metrics %v", names)
	}

	osc := physics.NewOscillator(1)
	m, err := r.GetMetric("energy_drift", osc)
	if err != nil || m.Name() != "energy_drift" {
		t.Errorf("expected energy_drift metric, got %v (%v)", m, err)
	}
	if _, err := r.GetMetric("nope", osc); err == nil {
		t.Error("expected error for unknown metric")
	}

	a, b := r.DefaultMetrics(osc), r.DefaultMetrics(osc)
	if a[0] == b[0] {
		t.Error("DefaultMetrics must return fresh instances")
	}
}

func TestExperimentPresets(t *testing.T) {
	tests := []struct {
		preset string
		method integrators.Method
		steps  int
	}{
		{"instability", integrators.ForwardEuler, 20},
		{"damping", integrators.BackwardEuler, 32},
		{"stable", integrators.SymplecticEuler, 60},
	}

	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			exp, err := New(config.GetPreset(tt.preset))
			if err != nil {
				t.Fatal(err)
			}
			if exp.Method() != tt.method {
				t.Errorf("expected %v, got %v", tt.method, exp.Method())
			}

			exp.SetupDefault(NewRegistry())
			result, err := exp.Run(context.Background())
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if result.StepsTaken != tt.steps {
				t.Errorf("expected %d steps, got %d", tt.steps, result.StepsTaken)
			}
			if result.Metrics["stability"] != 1 {
				t.Errorf("expected every state inside the threshold, got %f", result.Metrics["stability"])
			}
		})
	}
}

func TestExperimentNotSetup(t *testing.T) {
	exp, err := New(config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error before setup")
	}
}

func TestExperimentInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dt = -1
	if _, err := New(cfg); !errors.Is(err, dynamo.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

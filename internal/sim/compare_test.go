package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/phasekit/internal/dynamo"
	"github.com/san-kum/phasekit/internal/integrators"
	"github.com/san-kum/phasekit/internal/metrics"
	"github.com/san-kum/phasekit/internal/physics"
)

func TestCompare(t *testing.T) {
	cfg := Config{Params: dynamo.Params{KOverM: 1, Dt: 0.3}, Steps: 20}
	x0 := dynamo.State{Q: 2}

	factory := func(m integrators.Method) []dynamo.Metric {
		return []dynamo.Metric{metrics.NewEnergyDrift(physics.NewOscillator(cfg.Params.KOverM))}
	}

	results, err := Compare(context.Background(), integrators.Methods(), x0, cfg, factory)
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for i, m := range integrators.Methods() {
		if results[i].Trajectory.Method() != m.String() {
			t.Errorf("result %d: expected %s, got %s", i, m, results[i].Trajectory.Method())
		}
		solo, _ := GenerateTrajectory(m, 2, 0, 0.3, 1, 20)
		if results[i].Trajectory.Last() != solo.Last() {
			t.Errorf("%v: parallel run differs from sequential run", m)
		}
		if _, ok := results[i].Metrics["energy_drift"]; !ok {
			t.Errorf("%v: missing energy_drift metric", m)
		}
	}

	if results[0].EnergyDrift <= 0 {
		t.Errorf("forward Euler should gain energy, got %f", results[0].EnergyDrift)
	}
	if results[1].EnergyDrift >= 0 {
		t.Errorf("backward Euler should lose energy, got %f", results[1].EnergyDrift)
	}
}

func TestCompare_InvalidConfig(t *testing.T) {
	cfg := Config{Params: dynamo.Params{KOverM: 1, Dt: 0.1}, Steps: -5}
	_, err := Compare(context.Background(), integrators.Methods(), dynamo.State{Q: 1}, cfg, nil)
	if !errors.Is(err, dynamo.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestCompare_UnknownMethod(t *testing.T) {
	cfg := Config{Params: dynamo.Params{KOverM: 1, Dt: 0.1}, Steps: 5}
	methods := []integrators.Method{integrators.ForwardEuler, integrators.Method(0)}
	_, err := Compare(context.Background(), methods, dynamo.State{Q: 1}, cfg, nil)
	if !errors.Is(err, integrators.ErrUnknownMethod) {
		t.Errorf("expected ErrUnknownMethod, got %v", err)
	}
}

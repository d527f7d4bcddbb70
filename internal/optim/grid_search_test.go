package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/phasekit/internal/config"
	"github.com/san-kum/phasekit/internal/experiment"
)

func buildFor(method string) func(map[string]float64) (*experiment.Experiment, error) {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := config.DefaultConfig()
		cfg.Method = method
		cfg.Dt = params["dt"]
		cfg.Duration = 6
		exp, err := experiment.New(cfg)
		if err != nil {
			return nil, err
		}
		exp.SetupDefault(experiment.NewRegistry())
		return exp, nil
	}
}

func TestLinspace(t *testing.T) {
	got := Linspace(0.1, 0.5, 5)
	want := []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("index %d: expected %f, got %f", i, want[i], got[i])
		}
	}
	if len(Linspace(1, 2, 1)) != 1 {
		t.Error("n=1 should yield a single value")
	}
}

func TestGridSearch_SmallestStepDriftsLeast(t *testing.T) {
	g := NewGridSearch([]string{"dt"}, [][]float64{{0.3, 0.1, 0.2}})
	abs := func(v float64) float64 { return math.Abs(v) }

	best, score, trials, err := g.Search(context.Background(), buildFor("forward_euler"), "energy_drift", abs)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if best["dt"] != 0.1 {
		t.Errorf("expected dt=0.1, got %v", best["dt"])
	}
	if score <= 0 {
		t.Errorf("forward Euler always drifts, got %f", score)
	}
	if len(trials) != 3 {
		t.Errorf("expected 3 trials, got %d", len(trials))
	}
}

func TestGridSearch_RecordsFailures(t *testing.T) {
	g := NewGridSearch([]string{"dt"}, [][]float64{{-0.1, 0.2}})
	_, _, trials, err := g.Search(context.Background(), buildFor("symplectic_euler"), "energy_drift", nil)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if trials[0].Err == nil || trials[1].Err != nil {
		t.Errorf("expected only the negative dt to fail: %+v", trials)
	}
}

func TestGridSearch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGridSearch([]string{"dt"}, [][]float64{{0.1}})
	if _, _, _, err := g.Search(ctx, buildFor("forward_euler"), "energy_drift", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGridSearch_Mismatch(t *testing.T) {
	g := NewGridSearch([]string{"dt", "k_over_m"}, [][]float64{{0.1}})
	if _, _, _, err := g.Search(context.Background(), buildFor("forward_euler"), "energy_drift", nil); err == nil {
		t.Error("expected error for mismatched ranges")
	}
}

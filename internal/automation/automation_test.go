package automation

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/san-kum/phasekit/internal/config"
	"github.com/san-kum/phasekit/internal/experiment"
	"github.com/san-kum/phasekit/internal/storage"
)

const scenarioYAML = `name: euler trio
description: the three classic comparisons
steps:
  - preset: instability
  - preset: damping
    save: true
  - config:
      method: symplectic
      dt: 0.1
      duration: 2
`

func quietLogger() *log.Logger {
	l := log.New(os.Stderr)
	l.SetLevel(log.ErrorLevel)
	return l
}

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "euler trio" || len(sc.Steps) != 3 {
		t.Fatalf("unexpected scenario %+v", sc)
	}

	st := storage.New(t.TempDir())
	r := NewRunner(experiment.NewRegistry(), st, quietLogger())
	results, err := r.RunScenario(context.Background(), sc)
	if err != nil {
		t.Fatalf("scenario failed: %v", err)
	}

	wantSteps := []int{20, 32, 20}
	for i, res := range results {
		if res.Result.StepsTaken != wantSteps[i] {
			t.Errorf("step %d: expected %d steps, got %d", i+1, wantSteps[i], res.Result.StepsTaken)
		}
	}
	if results[0].RunID != "" || results[1].RunID == "" {
		t.Error("only the second step should be saved")
	}
	if results[2].Config.Method != "symplectic" || results[2].Config.InitState.Q != config.DefaultQ {
		t.Errorf("inline config not merged over defaults: %+v", results[2].Config)
	}

	runs, _ := st.List()
	if len(runs) != 1 {
		t.Errorf("expected 1 stored run, got %d", len(runs))
	}
}

func TestRunScenario_StopsOnError(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, "name: bad\nsteps:\n  - preset: stable\n  - preset: nope\n"))
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(experiment.NewRegistry(), nil, quietLogger())
	results, err := r.RunScenario(context.Background(), sc)
	if err == nil {
		t.Fatal("expected error for unknown preset")
	}
	if len(results) != 1 {
		t.Errorf("expected the first step to complete, got %d results", len(results))
	}
}

func TestLoadScenario_Empty(t *testing.T) {
	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestRunMonteCarlo(t *testing.T) {
	r := NewRunner(experiment.NewRegistry(), nil, quietLogger())
	cfg := MonteCarloConfig{
		Base:         config.GetPreset("stable"),
		Perturbation: 0.5,
		NumTrials:    20,
		Seed:         7,
		Bound:        10,
	}

	a, err := r.RunMonteCarlo(context.Background(), cfg)
	if err != nil {
		t.Fatalf("monte carlo failed: %v", err)
	}
	b, _ := r.RunMonteCarlo(context.Background(), cfg)
	for i := range a {
		if a[i].InitState != b[i].InitState {
			t.Fatal("same seed must give the same trials")
		}
		if math.Abs(a[i].InitState.Q-2) > 0.5 {
			t.Errorf("trial %d perturbed too far: %+v", i, a[i].InitState)
		}
	}

	s := Summarize(a)
	if s.Stable != 20 || s.Unstable != 0 {
		t.Errorf("symplectic Euler at dt=0.2 should always stay bounded: %+v", s)
	}
	if math.Abs(s.MeanDrift) > 0.12 {
		t.Errorf("unexpected mean drift %f", s.MeanDrift)
	}
}

func TestRunMonteCarlo_Unstable(t *testing.T) {
	r := NewRunner(experiment.NewRegistry(), nil, quietLogger())
	base := config.GetPreset("instability")
	base.Duration = 30

	results, err := r.RunMonteCarlo(context.Background(), MonteCarloConfig{Base: base, Perturbation: 0.1, NumTrials: 5, Seed: 1, Bound: 10})
	if err != nil {
		t.Fatal(err)
	}
	if s := Summarize(results); s.Unstable != 5 {
		t.Errorf("forward Euler over 100 steps at dt=0.3 should leave the bound: %+v", s)
	}
}

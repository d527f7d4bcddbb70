package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/phasekit/internal/config"
	"github.com/san-kum/phasekit/internal/dynamo"
	"github.com/san-kum/phasekit/internal/experiment"
	"github.com/san-kum/phasekit/internal/storage"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset (or the defaults) and overrides it
// with whatever the inline config sets.
type ScenarioStep struct {
	Preset string    `yaml:"preset"`
	Config yaml.Node `yaml:"config"`
	Save   bool      `yaml:"save"`
}

// Resolve merges the step's inline config over its preset.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}
	if !s.Config.IsZero() {
		if err := s.Config.Decode(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// StepResult pairs a scenario step with its outcome.
type StepResult struct {
	Config *config.Config
	Result *dynamo.Result
	RunID  string
}

type Runner struct {
	Registry *experiment.Registry
	Store    *storage.Store // required only when a step saves
	Logger   *log.Logger
}

func NewRunner(registry *experiment.Registry, store *storage.Store, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Registry: registry, Store: store, Logger: logger}
}

func (r *Runner) runOne(ctx context.Context, cfg *config.Config) (*dynamo.Result, error) {
	exp, err := experiment.New(cfg)
	if err != nil {
		return nil, err
	}
	exp.SetupDefault(r.Registry)
	return exp.Run(ctx)
}

// RunScenario executes all steps in order and stops at the first failure,
// returning what completed so far.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		r.Logger.Info("scenario step", "n", i+1, "of", len(scenario.Steps), "method", cfg.Method, "dt", cfg.Dt)

		result, err := r.runOne(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Config: cfg, Result: result}
		if step.Save {
			if r.Store == nil {
				return results, fmt.Errorf("step %d: no store to save into", i+1)
			}
			if sr.RunID, err = r.Store.Save(result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// MonteCarloConfig perturbs the initial state of Base uniformly by up to
// Perturbation in each coordinate.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
	Bound        float64 // phase radius past which a trial counts as unstable
}

type MonteCarloResult struct {
	TrialID     int
	InitState   dynamo.State
	FinalState  dynamo.State
	EnergyDrift float64
	Stable      bool
}

// RunMonteCarlo executes NumTrials perturbed runs. The same seed gives the
// same trials.
func (r *Runner) RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 {
		return nil, &dynamo.ParameterError{Name: "trials", Value: float64(cfg.NumTrials), Reason: "must be positive"}
	}
	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	rng := rand.New(rand.NewSource(cfg.Seed))

	for trial := 0; trial < cfg.NumTrials; trial++ {
		run := *cfg.Base
		run.InitState.Q += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
		run.InitState.V += (rng.Float64() - 0.5) * 2 * cfg.Perturbation

		result, err := r.runOne(ctx, &run)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		final := result.Trajectory.Last()
		results = append(results, MonteCarloResult{
			TrialID:     trial,
			InitState:   run.InitialState(),
			FinalState:  final,
			EnergyDrift: result.EnergyDrift,
			Stable:      final.IsValid() && (cfg.Bound <= 0 || final.Norm() <= cfg.Bound),
		})

		if (trial+1)%10 == 0 {
			r.Logger.Debug("monte carlo", "done", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloSummary aggregates trials.
type MonteCarloSummary struct {
	Stable, Unstable int
	MeanDrift        float64
	StdDrift         float64
}

func Summarize(results []MonteCarloResult) MonteCarloSummary {
	var s MonteCarloSummary
	drifts := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Stable {
			s.Stable++
		} else {
			s.Unstable++
		}
		drifts = append(drifts, r.EnergyDrift)
	}
	switch {
	case len(drifts) > 1:
		s.MeanDrift, s.StdDrift = stat.MeanStdDev(drifts, nil)
	case len(drifts) == 1:
		s.MeanDrift = drifts[0]
	}
	return s
}

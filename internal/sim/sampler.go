package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/phasekit/internal/dynamo"
	"github.com/san-kum/phasekit/internal/integrators"
	"github.com/san-kum/phasekit/internal/physics"
)

type Config struct {
	Params        dynamo.Params
	Steps         int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Params:        dynamo.Params{KOverM: physics.DefaultKOverM, Dt: 0.01},
		Steps:         1000,
		ValidateState: true,
	}
}

// Validate is the single gate every run passes before producing a state.
func (c Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	return dynamo.ValidateSteps(c.Steps)
}

// Sampler drives one integration method from an initial state.
type Sampler struct {
	method    integrators.Method
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New(method integrators.Method) *Sampler {
	return &Sampler{
		method:    method,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (s *Sampler) Method() integrators.Method { return s.method }

func (s *Sampler) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Sampler) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run produces cfg.Steps+1 states, the initial one included. On
// cancellation the partial result is returned together with ctx.Err().
func (s *Sampler) Run(ctx context.Context, x0 dynamo.State, cfg Config) (*dynamo.Result, error) {
	step := s.method.Stepper()
	if step == nil {
		return nil, fmt.Errorf("%w: %v", integrators.ErrUnknownMethod, s.method)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := dynamo.ValidateInitial(x0); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	states := make([]dynamo.State, 0, cfg.Steps+1)
	x := x0
	s.record(0, x, 0)
	states = append(states, x)

	var runErr error
	for i := 1; i <= cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		x = step(x, cfg.Params)
		t := float64(i) * cfg.Params.Dt

		if cfg.ValidateState && !x.IsValid() {
			runErr = &dynamo.SimulationError{Step: i, Time: t, State: x, Wrapped: dynamo.ErrInvalidState}
			break
		}

		s.record(i, x, t)
		states = append(states, x)
	}

	traj := dynamo.NewTrajectory(s.method.String(), cfg.Params, states)
	osc := physics.NewOscillator(cfg.Params.KOverM)

	result := &dynamo.Result{
		Trajectory:  traj,
		Metrics:     make(map[string]float64, len(s.metrics)),
		EnergyDrift: relativeDrift(osc.Invariant(traj.First()), osc.Invariant(traj.Last())),
		StepsTaken:  traj.Steps(),
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, runErr
}

func (s *Sampler) record(i int, x dynamo.State, t float64) {
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(i, x, t)
	}
}

func relativeDrift(initial, final float64) float64 {
	if initial == 0 {
		return 0
	}
	return (final - initial) / initial
}

// GenerateTrajectory is the one-call surface: it validates the inputs,
// then applies method steps times starting from (q0, v0). Overflow to Inf
// is returned as-is, not treated as an error.
func GenerateTrajectory(method integrators.Method, q0, v0, dt, kOverM float64, steps int) (*dynamo.Trajectory, error) {
	cfg := Config{
		Params: dynamo.Params{KOverM: kOverM, Dt: dt},
		Steps:  steps,
	}
	result, err := New(method).Run(context.Background(), dynamo.State{Q: q0, V: v0}, cfg)
	if err != nil {
		return nil, err
	}
	return result.Trajectory, nil
}

// Analytic samples the exact solution at the step times of cfg.
func Analytic(x0 dynamo.State, cfg Config) (*dynamo.Trajectory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := dynamo.ValidateInitial(x0); err != nil {
		return nil, err
	}

	osc := physics.NewOscillator(cfg.Params.KOverM)
	states := make([]dynamo.State, cfg.Steps+1)
	for i := range states {
		states[i] = osc.AnalyticFrom(x0, float64(i)*cfg.Params.Dt)
	}
	return dynamo.NewTrajectory(AnalyticName, cfg.Params, states), nil
}

const AnalyticName = "analytic"

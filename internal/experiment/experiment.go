package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/phasekit/internal/config"
	"github.com/san-kum/phasekit/internal/dynamo"
	"github.com/san-kum/phasekit/internal/integrators"
	"github.com/san-kum/phasekit/internal/physics"
	"github.com/san-kum/phasekit/internal/sim"
)

// Experiment binds a validated configuration to a sampler.
type Experiment struct {
	cfg     *config.Config
	method  integrators.Method
	sampler *sim.Sampler
}

func New(cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m, err := cfg.ParseMethod()
	if err != nil {
		return nil, err
	}
	return &Experiment{cfg: cfg, method: m}, nil
}

func (e *Experiment) Setup(metrics []dynamo.Metric, observers ...dynamo.Observer) {
	e.sampler = sim.New(e.method)
	for _, m := range metrics {
		e.sampler.AddMetric(m)
	}
	for _, o := range observers {
		e.sampler.AddObserver(o)
	}
}

// SetupDefault attaches every metric in the registry.
func (e *Experiment) SetupDefault(r *Registry, observers ...dynamo.Observer) {
	e.Setup(r.DefaultMetrics(e.Oscillator()), observers...)
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.sampler == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.sampler.Run(ctx, e.cfg.InitialState(), e.cfg.SimConfig())
}

func (e *Experiment) Method() integrators.Method { return e.method }
func (e *Experiment) Config() *config.Config     { return e.cfg }

func (e *Experiment) Oscillator() *physics.Oscillator {
	return physics.NewOscillator(e.cfg.KOverM)
}

package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/phasekit/internal/dynamo"
	"github.com/san-kum/phasekit/internal/metrics"
	"github.com/san-kum/phasekit/internal/physics"
)

// StabilityThreshold is the phase radius past which a state counts as blown up.
const StabilityThreshold = 10.0

type Registry struct {
	metrics map[string]func(*physics.Oscillator) dynamo.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func(*physics.Oscillator) dynamo.Metric),
	}

	r.metrics["energy"] = func(osc *physics.Oscillator) dynamo.Metric { return metrics.NewEnergy(osc) }
	r.metrics["energy_drift"] = func(osc *physics.Oscillator) dynamo.Metric { return metrics.NewEnergyDrift(osc) }
	r.metrics["stability"] = func(*physics.Oscillator) dynamo.Metric { return metrics.NewStability(StabilityThreshold) }
	r.metrics["phase_radius"] = func(*physics.Oscillator) dynamo.Metric { return metrics.NewPhaseRadius(0.12) }

	return r
}

func (r *Registry) GetMetric(name string, osc *physics.Oscillator) (dynamo.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(osc), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics(osc *physics.Oscillator) []dynamo.Metric {
	out := make([]dynamo.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name](osc))
	}
	return out
}

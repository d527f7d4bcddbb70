package metrics

import (
	"math"

	"github.com/san-kum/phasekit/internal/dynamo"
)

// Trend classifies how a conserved quantity evolves step over step.
type Trend int

const (
	Mixed Trend = iota
	Growing
	Decaying
	Bounded
)

func (t Trend) String() string {
	switch t {
	case Growing:
		return "growing"
	case Decaying:
		return "decaying"
	case Bounded:
		return "bounded"
	default:
		return "mixed"
	}
}

// ClassifyTrend reports Growing or Decaying when values move strictly in one
// direction at every step, Bounded when every value stays within tol
// (relative) of the first, and Mixed otherwise.
func ClassifyTrend(values []float64, tol float64) Trend {
	if len(values) < 2 {
		return Bounded
	}

	increasing, decreasing := true, true
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			increasing = false
		}
		if values[i] >= values[i-1] {
			decreasing = false
		}
	}
	switch {
	case increasing:
		return Growing
	case decreasing:
		return Decaying
	}

	ref := math.Abs(values[0])
	if ref == 0 {
		ref = 1
	}
	for _, v := range values {
		if math.Abs(v-values[0])/ref > tol {
			return Mixed
		}
	}
	return Bounded
}

// PhaseRadius records q^2 + v^2 for every observed state.
type PhaseRadius struct {
	name    string
	tol     float64
	history []float64
}

func NewPhaseRadius(tol float64) *PhaseRadius {
	return &PhaseRadius{name: "phase_radius", tol: tol}
}

func (p *PhaseRadius) Name() string { return p.name }

func (p *PhaseRadius) Observe(x dynamo.State, t float64) {
	p.history = append(p.history, x.Radius2())
}

// Value is the ratio of the last to the first recorded radius.
func (p *PhaseRadius) Value() float64 {
	if len(p.history) == 0 || p.history[0] == 0 {
		return 1
	}
	return p.history[len(p.history)-1] / p.history[0]
}

func (p *PhaseRadius) Trend() Trend {
	return ClassifyTrend(p.history, p.tol)
}

func (p *PhaseRadius) History() []float64 {
	out := make([]float64, len(p.history))
	copy(out, p.history)
	return out
}

func (p *PhaseRadius) Reset() {
	p.history = p.history[:0]
}

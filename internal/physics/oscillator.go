package physics

import (
	"math"

	"github.com/san-kum/phasekit/internal/dynamo"
)

const DefaultKOverM = 1.0

// Oscillator is the undamped harmonic oscillator q'' = -(k/m) q.
type Oscillator struct {
	KOverM float64
}

func NewOscillator(kOverM float64) *Oscillator {
	return &Oscillator{KOverM: kOverM}
}

func (o *Oscillator) Omega() float64 {
	return math.Sqrt(o.KOverM)
}

// Analytic returns the exact state at time t for a start at rest at q0.
func (o *Oscillator) Analytic(q0, t float64) dynamo.State {
	w := o.Omega()
	return dynamo.State{
		Q: q0 * math.Cos(w*t),
		V: -q0 * w * math.Sin(w*t),
	}
}

// AnalyticFrom is Analytic generalised to a nonzero initial velocity.
// With k/m = 0 the motion is uniform.
func (o *Oscillator) AnalyticFrom(x0 dynamo.State, t float64) dynamo.State {
	w := o.Omega()
	if w == 0 {
		return dynamo.State{Q: x0.Q + x0.V*t, V: x0.V}
	}
	sin, cos := math.Sincos(w * t)
	return dynamo.State{
		Q: x0.Q*cos + x0.V/w*sin,
		V: -x0.Q*w*sin + x0.V*cos,
	}
}

// Derive returns the phase-space velocity (dq/dt, dv/dt).
func (o *Oscillator) Derive(x dynamo.State) dynamo.State {
	return dynamo.State{Q: x.V, V: -o.KOverM * x.Q}
}

// Energy is the mechanical energy per unit mass.
func (o *Oscillator) Energy(x dynamo.State) float64 {
	return 0.5*x.V*x.V + 0.5*o.KOverM*x.Q*x.Q
}

// Invariant returns q^2 + v^2/omega^2, constant along the exact solution.
// For a free particle (omega = 0) it degrades to q^2 + v^2.
func (o *Oscillator) Invariant(x dynamo.State) float64 {
	if o.KOverM == 0 {
		return x.Radius2()
	}
	return x.Q*x.Q + x.V*x.V/o.KOverM
}

func (o *Oscillator) GetParams() map[string]float64 {
	return map[string]float64{"k_over_m": o.KOverM}
}

func (o *Oscillator) SetParam(name string, value float64) error {
	switch name {
	case "k_over_m":
		if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
			return &dynamo.ParameterError{Name: name, Value: value, Reason: "must be non-negative and finite"}
		}
		o.KOverM = value
		return nil
	default:
		return &dynamo.ParameterError{Name: name, Value: value, Reason: "unknown parameter"}
	}
}

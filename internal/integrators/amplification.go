package integrators

import (
	"math"

	"github.com/san-kum/phasekit/internal/dynamo"
)

// AmplificationFactor is the per-step growth of the phase radius measured
// in the norm sqrt(q^2 + v^2/omega^2), i.e. the spectral radius of the
// linear step map.
func AmplificationFactor(m Method, p dynamo.Params) float64 {
	h2k := p.Dt * p.Dt * p.KOverM
	switch m {
	case ForwardEuler:
		return math.Sqrt(1 + h2k)
	case BackwardEuler:
		return 1 / math.Sqrt(1+h2k)
	case SymplecticEuler:
		// det = 1, trace = 2 - h2k; eigenvalues leave the unit circle once |trace| > 2
		tr := 2 - h2k
		if math.Abs(tr) <= 2 {
			return 1
		}
		return (math.Abs(tr) + math.Sqrt(tr*tr-4)) / 2
	default:
		return math.NaN()
	}
}

// ModifiedInvariant is the quadratic form q^2 + v^2/omega^2 - dt*q*v that
// symplectic Euler conserves exactly. It tends to the exact invariant as dt -> 0.
func ModifiedInvariant(x dynamo.State, p dynamo.Params) float64 {
	if p.KOverM == 0 {
		return x.Radius2()
	}
	return x.Q*x.Q + x.V*x.V/p.KOverM - p.Dt*x.Q*x.V
}

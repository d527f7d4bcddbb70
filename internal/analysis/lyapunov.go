package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/phasekit/internal/dynamo"
	"github.com/san-kum/phasekit/internal/integrators"
)

// SeparationRate estimates the exponential divergence rate, per unit time,
// of two discrete trajectories started perturbation apart in q. It is the
// largest Lyapunov exponent of the step map divided by dt: positive when
// the scheme amplifies, negative when it damps, near zero when it is
// neutrally stable.
//
// The perturbed copy is renormalised after every step so that the
// separation never overflows.
func SeparationRate(m integrators.Method, x0 dynamo.State, p dynamo.Params, steps int, perturbation float64) (float64, error) {
	step := m.Stepper()
	if step == nil {
		return 0, fmt.Errorf("%w: %v", integrators.ErrUnknownMethod, m)
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if steps <= 0 || perturbation <= 0 {
		return 0, fmt.Errorf("%w: need positive steps and perturbation", dynamo.ErrDegenerate)
	}

	x := x0
	xp := dynamo.State{Q: x0.Q + perturbation, V: x0.V}
	sumLog := 0.0

	for i := 0; i < steps; i++ {
		x = step(x, p)
		xp = step(xp, p)

		sep := xp.Sub(x).Norm()
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			return 0, fmt.Errorf("%w: separation %g at step %d", dynamo.ErrDegenerate, sep, i+1)
		}
		sumLog += math.Log(sep / perturbation)

		scale := perturbation / sep
		xp = dynamo.State{
			Q: x.Q + (xp.Q-x.Q)*scale,
			V: x.V + (xp.V-x.V)*scale,
		}
	}

	return sumLog / (float64(steps) * p.Dt), nil
}

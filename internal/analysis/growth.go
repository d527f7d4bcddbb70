package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/phasekit/internal/dynamo"
	"github.com/san-kum/phasekit/internal/physics"
)

// GrowthRate fits log radius against step index and returns the per-step
// growth factor of sqrt(q^2 + v^2/omega^2). For the Euler schemes it
// matches integrators.AmplificationFactor.
func GrowthRate(traj *dynamo.Trajectory) (float64, error) {
	if traj == nil || traj.Len() < 2 {
		return 0, fmt.Errorf("%w: need at least two states", dynamo.ErrDegenerate)
	}

	osc := physics.NewOscillator(traj.Params().KOverM)
	xs := make([]float64, traj.Len())
	ys := make([]float64, traj.Len())
	for i := range xs {
		inv := osc.Invariant(traj.At(i))
		if inv <= 0 || math.IsNaN(inv) || math.IsInf(inv, 0) {
			return 0, fmt.Errorf("%w: invariant %g at step %d", dynamo.ErrDegenerate, inv, i)
		}
		xs[i] = float64(i)
		ys[i] = 0.5 * math.Log(inv)
	}

	_, slope := stat.LinearRegression(xs, ys, nil, false)
	return math.Exp(slope), nil
}

package analysis

import (
	"math"

	"github.com/san-kum/phasekit/internal/dynamo"
	"github.com/san-kum/phasekit/internal/integrators"
	"github.com/san-kum/phasekit/internal/sim"
)

// ScanPoint is the measured and predicted growth factor at one step size.
// Measured is NaN when the run overflowed before it could be fitted.
type ScanPoint struct {
	Dt        float64 `json:"dt"`
	Measured  float64 `json:"measured"`
	Predicted float64 `json:"predicted"`
}

// StabilityScan sweeps dt over [dtMin, dtMax] and fits the growth factor
// of each run started at x0.
func StabilityScan(m integrators.Method, x0 dynamo.State, kOverM, dtMin, dtMax float64, points, steps int) ([]ScanPoint, error) {
	if points < 2 {
		points = 2
	}
	delta := (dtMax - dtMin) / float64(points-1)

	scan := make([]ScanPoint, 0, points)
	for i := 0; i < points; i++ {
		dt := dtMin + float64(i)*delta
		traj, err := sim.GenerateTrajectory(m, x0.Q, x0.V, dt, kOverM, steps)
		if err != nil {
			return nil, err
		}

		g, err := GrowthRate(traj)
		if err != nil {
			g = math.NaN()
		}
		scan = append(scan, ScanPoint{
			Dt:        dt,
			Measured:  g,
			Predicted: integrators.AmplificationFactor(m, dynamo.Params{KOverM: kOverM, Dt: dt}),
		})
	}

	return scan, nil
}

// StableLimit returns the largest scanned dt whose measured growth stays
// within tol of 1, or 0 if none does.
func StableLimit(scan []ScanPoint, tol float64) float64 {
	limit := 0.0
	for _, p := range scan {
		if !math.IsNaN(p.Measured) && p.Measured <= 1+tol {
			limit = math.Max(limit, p.Dt)
		}
	}
	return limit
}

package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/phasekit/internal/dynamo"
)

// ErrorReport compares a trajectory with a reference sampled at the same times.
type ErrorReport struct {
	MaxPosition float64 `json:"max_position"`
	RMSPosition float64 `json:"rms_position"`
	MaxPhase    float64 `json:"max_phase"`
	FinalPhase  float64 `json:"final_phase"`
}

// GlobalError measures traj against ref, usually the analytic trajectory.
func GlobalError(traj, ref *dynamo.Trajectory) (ErrorReport, error) {
	if traj == nil || ref == nil || traj.Len() == 0 {
		return ErrorReport{}, fmt.Errorf("%w: empty trajectory", dynamo.ErrDegenerate)
	}
	if traj.Len() != ref.Len() {
		return ErrorReport{}, fmt.Errorf("%w: %d states vs %d reference states",
			dynamo.ErrDimensionMismatch, traj.Len(), ref.Len())
	}

	dq := traj.Positions()
	floats.Sub(dq, ref.Positions())

	phase := make([]float64, traj.Len())
	for i := range phase {
		phase[i] = traj.At(i).Sub(ref.At(i)).Norm()
	}

	return ErrorReport{
		MaxPosition: floats.Norm(dq, math.Inf(1)),
		RMSPosition: floats.Norm(dq, 2) / math.Sqrt(float64(len(dq))),
		MaxPhase:    floats.Max(phase),
		FinalPhase:  phase[len(phase)-1],
	}, nil
}

// Package dynamo provides the core primitives shared by every phasekit package.
//
// The package defines the phase-space vocabulary used by the integrators,
// the sampler and the analysis tools:
//
//   - [State]: one (position, velocity) point in phase space
//   - [Params]: the stiffness ratio k/m and the fixed timestep
//   - [Trajectory]: an immutable, ordered sequence of states
//   - [Metric] and [Observer]: hooks called for every produced state
//   - [Result]: a trajectory plus the metrics gathered while producing it
//
// # Example
//
//	traj, err := sim.GenerateTrajectory(integrators.SymplecticEuler, 2, 0, 0.2, 1, 60)
//	if errors.Is(err, dynamo.ErrInvalidParameter) {
//	    // rejected before any state was produced
//	}
//
// # Thread Safety
//
// Trajectory values are read-only once built and may be shared freely.
// Metrics keep running state and must not be shared between concurrent runs.
package dynamo

// Package analysis measures how a discrete trajectory departs from the
// exact oscillator.
//
// The package covers:
//
//   - [VectorField]: normalised phase-space arrows of the continuous flow
//   - [PhasePortraitToASCII]: terminal scatter plot of a trajectory
//   - [GlobalError]: pointwise error against the closed-form solution
//   - [GrowthRate]: fitted per-step growth of the phase radius
//   - [SeparationRate]: divergence of two nearby discrete trajectories
//   - [StabilityScan]: measured amplification over a range of step sizes
//   - [DominantFrequency]: FFT peak of the position signal
//
// # Reading growth rates
//
// For a linear scheme the growth factor per step equals the amplification
// factor of the step map:
//
//	g, _ := analysis.GrowthRate(traj)
//	if g > 1 {
//	    // the scheme pumps energy into the oscillator
//	}
package analysis

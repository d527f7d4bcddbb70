// Package physics provides the models integrated and analysed by phasekit.
//
//   - [Oscillator]: the undamped harmonic oscillator q'' = -(k/m) q
//   - [Mesh]: a rectangular mass-spring grid with pinned nodes
//
// The oscillator exposes its closed-form solution and the quantity
// q^2 + v^2/omega^2 that the exact flow conserves:
//
//	osc := physics.NewOscillator(1)
//	exact := osc.Analytic(2, 0.6)
//	drift := osc.Invariant(state) - osc.Invariant(exact)
//
// The mesh assembles the global stiffness matrix spring by spring and
// reports the natural frequencies of the free degrees of freedom.
package physics

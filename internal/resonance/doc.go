// Package resonance provides core simulation primitives for triadic
// field systems.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of coupled scalar fields:
//
//   - [Vector]: flat integration state
//   - [State]: the triadic triple (spatial, phase, scale)
//   - [System]: interface for field dynamics (dX/dt = f(X, t))
//   - [Stepper]: numerical integrator interface
//   - [Simulator]: orchestrates simulation runs
//
// # Example
//
//	sys, _ := field.NewTriad(mass, coupling)
//	step := steppers.NewRK4()
//	sim := resonance.New(sys, step)
//	result, _ := sim.Run(ctx, sys.DefaultVector(), cfg)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For parallel simulations,
// use the [Ensemble] type which safely manages multiple runs.
package resonance

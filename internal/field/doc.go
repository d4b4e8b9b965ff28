// Package field provides triadic field models for simulation.
//
// Each model implements the [resonance.System] interface, defining the
// differential equations governing the joint evolution of the three
// coupled fields (spatial, phase, scale):
//
//   - [Triad]: second-order inertial dynamics under a symmetric
//     coupling matrix, per-field stiffness and damping
//   - [PhaseTriad]: first-order Kuramoto-style phase dynamics
//
// Both models implement [resonance.Configurable] for runtime parameter
// adjustment; Triad also implements [resonance.Hamiltonian] so energy
// drift can be monitored when damping is zero.
package field

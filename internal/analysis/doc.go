// Package analysis provides spectral and synchrony analysis for field
// trajectories.
//
// The package includes:
//
//   - [FFT] / [PowerSpectrum]: frequency content of a field series
//   - [InstantaneousPhase]: analytic phase via the Hilbert transform
//   - [PLV]: phase-locking value between two field series
//   - [LargestLyapunov]: chaos detection via trajectory separation
//
// # Phase Locking
//
// PLV ranges from 0 (no phase relationship) to 1 (constant phase lag):
//
//	plv, _ := analysis.PLV(traj.Field(0), traj.Field(1))
//	if plv > 0.9 {
//	    // fields are phase locked
//	}
package analysis

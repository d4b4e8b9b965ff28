package analysis

import (
	"math"

	"github.com/triadlab/triadsim/internal/resonance"
)

// LargestLyapunov estimates the largest Lyapunov exponent of a field
// system using the trajectory separation method. A positive value
// indicates sensitive dependence on initial conditions.
//
// Two trajectories start a small perturbation apart; their divergence
// rate is averaged over the run, renormalizing whenever the separation
// grows past unity to avoid overflow.
func LargestLyapunov(
	sys resonance.System,
	stepper resonance.Stepper,
	x0 resonance.Vector,
	dt, duration float64,
	perturbation float64,
) float64 {
	if len(x0) == 0 {
		return 0
	}

	x := x0.Clone()
	xp := x0.Clone()
	xp[0] += perturbation
	d0 := perturbation

	t := 0.0
	sumLog := 0.0
	count := 0

	for t < duration {
		x = stepper.Step(sys, x, t, dt)
		xp = stepper.Step(sys, xp, t, dt)
		t += dt

		sep := xp.Sub(x).Norm()

		if sep > 0 && d0 > 0 {
			sumLog += math.Log(sep / d0)
			count++
		}

		if sep > 1.0 {
			scale := d0 / sep
			for i := range xp {
				xp[i] = x[i] + (xp[i]-x[i])*scale
			}
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}

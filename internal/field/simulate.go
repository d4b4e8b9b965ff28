package field

import (
	"context"

	"github.com/triadlab/triadsim/internal/resonance"
	"github.com/triadlab/triadsim/internal/steppers"
)

// Simulate integrates the inertial triad from its default initial state
// over [0, duration] at fixed step size, returning a trajectory with
// exactly ceil(duration/step)+1 samples. It is a pure function of its
// inputs: identical arguments produce bit-identical trajectories.
func Simulate(ctx context.Context, mass resonance.MassVector, coupling resonance.CouplingMatrix, duration, step float64) (resonance.Trajectory, error) {
	triad, err := NewTriad(mass, coupling)
	if err != nil {
		return nil, err
	}
	return SimulateFrom(ctx, triad, triad.DefaultVector(), duration, step)
}

// SimulateFrom integrates an explicit system and initial state.
func SimulateFrom(ctx context.Context, sys resonance.System, x0 resonance.Vector, duration, step float64) (resonance.Trajectory, error) {
	cfg := resonance.Config{
		Dt:            step,
		Duration:      duration,
		ValidateState: true,
	}

	sim := resonance.New(sys, steppers.NewRK4())
	result, err := sim.Run(ctx, x0, cfg)
	if err != nil {
		return nil, err
	}
	return result.Trajectory, nil
}

package steppers

import "github.com/triadlab/triadsim/internal/resonance"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys resonance.System, x resonance.Vector, t, dt float64) resonance.Vector {
	dx := sys.Derive(x, t)
	result := make(resonance.Vector, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}

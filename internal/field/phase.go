package field

import (
	"fmt"
	"math"

	"github.com/triadlab/triadsim/internal/resonance"
)

// PhaseTriad models the three fields as pure phases with first-order
// Kuramoto-style dynamics:
//
//	theta_i' = w_i + (1/m_i) * sum_j C_ij * sin(theta_j - theta_i)
//
// Strong coupling relative to the frequency detuning locks the phases;
// weak coupling lets them drift.
type PhaseTriad struct {
	mass     resonance.MassVector
	coupling resonance.CouplingMatrix
	omega    [resonance.NumFields]float64
	gain     float64
}

func NewPhaseTriad(mass resonance.MassVector, coupling resonance.CouplingMatrix) (*PhaseTriad, error) {
	if err := mass.Validate(); err != nil {
		return nil, err
	}
	if err := coupling.Validate(); err != nil {
		return nil, err
	}
	return &PhaseTriad{
		mass:     mass,
		coupling: coupling,
		omega:    [resonance.NumFields]float64{1.0, 1.3, 0.7},
		gain:     1,
	}, nil
}

func (p *PhaseTriad) SetFrequencies(w [resonance.NumFields]float64) { p.omega = w }

func (p *PhaseTriad) Dim() int { return resonance.NumFields }

func (p *PhaseTriad) Fields(x resonance.Vector) resonance.State {
	var s resonance.State
	for i := 0; i < resonance.NumFields; i++ {
		s[i] = x[i]
	}
	return s
}

func (p *PhaseTriad) Derive(x resonance.Vector, _ float64) resonance.Vector {
	d := make(resonance.Vector, resonance.NumFields)
	for i := 0; i < resonance.NumFields; i++ {
		sum := 0.0
		for j := 0; j < resonance.NumFields; j++ {
			if j == i {
				continue
			}
			sum += p.gain * p.coupling[i][j] * math.Sin(x[j]-x[i])
		}
		d[i] = p.omega[i] + sum/p.mass[i]
	}
	return d
}

func (p *PhaseTriad) DefaultVector() resonance.Vector {
	return resonance.Vector{0, 2.0, 4.0}
}

// Params implements resonance.Configurable.
func (p *PhaseTriad) Params() map[string]float64 {
	return map[string]float64{
		"gain": p.gain,
		"w0":   p.omega[0],
		"w1":   p.omega[1],
		"w2":   p.omega[2],
	}
}

// SetParam implements resonance.Configurable.
func (p *PhaseTriad) SetParam(name string, value float64) error {
	switch name {
	case "gain":
		p.gain = value
	case "w0":
		p.omega[0] = value
	case "w1":
		p.omega[1] = value
	case "w2":
		p.omega[2] = value
	default:
		return fmt.Errorf("%w: unknown parameter %q", resonance.ErrInvalidParameter, name)
	}
	return nil
}

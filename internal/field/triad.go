package field

import (
	"fmt"

	"github.com/triadlab/triadsim/internal/resonance"
)

// Triad models three coupled scalar fields with inertia.
// Integration state: [x_s, x_p, x_c, v_s, v_p, v_c].
//
// Each field obeys
//
//	m_i * x_i'' = -k_i*x_i + sum_j C_ij*(x_j - x_i) - g_i*x_i'
//
// where C is the symmetric coupling matrix, k the per-field stiffness
// and g the per-field damping. With g = 0 the system is Hamiltonian.
type Triad struct {
	mass      resonance.MassVector
	coupling  resonance.CouplingMatrix
	stiffness [resonance.NumFields]float64
	damping   [resonance.NumFields]float64
	gain      float64
}

// NewTriad validates the physical parameters and builds a triad with
// unit stiffness and no damping.
func NewTriad(mass resonance.MassVector, coupling resonance.CouplingMatrix) (*Triad, error) {
	if err := mass.Validate(); err != nil {
		return nil, err
	}
	if err := coupling.Validate(); err != nil {
		return nil, err
	}
	return &Triad{
		mass:      mass,
		coupling:  coupling,
		stiffness: [resonance.NumFields]float64{1, 1, 1},
		gain:      1,
	}, nil
}

func (tr *Triad) SetStiffness(k [resonance.NumFields]float64) { tr.stiffness = k }
func (tr *Triad) SetDamping(g [resonance.NumFields]float64)   { tr.damping = g }

func (tr *Triad) Dim() int { return 2 * resonance.NumFields }

func (tr *Triad) Fields(x resonance.Vector) resonance.State {
	var s resonance.State
	for i := 0; i < resonance.NumFields; i++ {
		s[i] = x[i]
	}
	return s
}

func (tr *Triad) Derive(x resonance.Vector, _ float64) resonance.Vector {
	d := make(resonance.Vector, 2*resonance.NumFields)
	for i := 0; i < resonance.NumFields; i++ {
		v := x[resonance.NumFields+i]
		force := -tr.stiffness[i] * x[i]
		for j := 0; j < resonance.NumFields; j++ {
			if j == i {
				continue
			}
			force += tr.gain * tr.coupling[i][j] * (x[j] - x[i])
		}
		force -= tr.damping[i] * v

		d[i] = v
		d[resonance.NumFields+i] = force / tr.mass[i]
	}
	return d
}

// Energy implements resonance.Hamiltonian. It is conserved only when
// damping is zero.
func (tr *Triad) Energy(x resonance.Vector) float64 {
	e := 0.0
	for i := 0; i < resonance.NumFields; i++ {
		v := x[resonance.NumFields+i]
		e += 0.5*tr.mass[i]*v*v + 0.5*tr.stiffness[i]*x[i]*x[i]
	}
	for i := 0; i < resonance.NumFields; i++ {
		for j := i + 1; j < resonance.NumFields; j++ {
			diff := x[i] - x[j]
			e += 0.5 * tr.gain * tr.coupling[i][j] * diff * diff
		}
	}
	return e
}

// DefaultVector displaces the spatial field and leaves the system at
// rest, so coupling visibly transfers energy across fields.
func (tr *Triad) DefaultVector() resonance.Vector {
	x := make(resonance.Vector, 2*resonance.NumFields)
	x[resonance.FieldSpatial] = 1.0
	return x
}

// InitialVector builds an integration state from field values and
// velocities.
func (tr *Triad) InitialVector(fields, velocities resonance.State) resonance.Vector {
	x := make(resonance.Vector, 2*resonance.NumFields)
	for i := 0; i < resonance.NumFields; i++ {
		x[i] = fields[i]
		x[resonance.NumFields+i] = velocities[i]
	}
	return x
}

// Params implements resonance.Configurable.
func (tr *Triad) Params() map[string]float64 {
	return map[string]float64{
		"gain":      tr.gain,
		"stiffness": tr.stiffness[0],
		"damping":   tr.damping[0],
	}
}

// SetParam implements resonance.Configurable. Stiffness and damping
// apply uniformly to all three fields.
func (tr *Triad) SetParam(name string, value float64) error {
	switch name {
	case "gain":
		tr.gain = value
	case "stiffness":
		for i := range tr.stiffness {
			tr.stiffness[i] = value
		}
	case "damping":
		for i := range tr.damping {
			tr.damping[i] = value
		}
	default:
		return fmt.Errorf("%w: unknown parameter %q", resonance.ErrInvalidParameter, name)
	}
	return nil
}

package resonance

import (
	"fmt"
	"math"
)

// NumFields is the number of coupled scalar fields in a triadic system.
const NumFields = 3

// Field indices into State, MassVector and CouplingMatrix.
const (
	FieldSpatial = 0
	FieldPhase   = 1
	FieldScale   = 2
)

// FieldNames maps field indices to their display names.
var FieldNames = [NumFields]string{"spatial", "phase", "scale"}

// State is the instantaneous value of the three coupled fields.
type State [NumFields]float64

func (s State) IsFinite() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// MassVector holds one positive inertia parameter per field.
type MassVector [NumFields]float64

// Validate reports whether every entry is positive and finite.
func (m MassVector) Validate() error {
	for i, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: mass[%d] = %v, must be positive", ErrInvalidParameter, i, v)
		}
	}
	return nil
}

// CouplingMatrix holds pairwise interaction strengths between fields.
// It must be symmetric; the diagonal is ignored by the dynamics.
type CouplingMatrix [NumFields][NumFields]float64

// Validate reports whether the matrix is symmetric and finite.
func (c CouplingMatrix) Validate() error {
	for i := 0; i < NumFields; i++ {
		for j := 0; j < NumFields; j++ {
			v := c[i][j]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: coupling[%d][%d] = %v", ErrInvalidParameter, i, j, v)
			}
			if c[i][j] != c[j][i] {
				return fmt.Errorf("%w: coupling matrix not symmetric at [%d][%d]", ErrInvalidParameter, i, j)
			}
		}
	}
	return nil
}

// Scale returns a copy with every off-diagonal entry multiplied by gain.
func (c CouplingMatrix) Scale(gain float64) CouplingMatrix {
	var out CouplingMatrix
	for i := 0; i < NumFields; i++ {
		for j := 0; j < NumFields; j++ {
			if i != j {
				out[i][j] = c[i][j] * gain
			} else {
				out[i][j] = c[i][j]
			}
		}
	}
	return out
}

// Vector is the flat integration state of a System. Its layout is
// system-specific: a first-order system uses the three field values,
// a second-order system appends the three field velocities.
type Vector []float64

func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

func (v Vector) IsValid() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func (v Vector) Norm() float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func (v Vector) Sub(other Vector) Vector {
	result := make(Vector, len(v))
	for i := range v {
		if i < len(other) {
			result[i] = v[i] - other[i]
		} else {
			result[i] = v[i]
		}
	}
	return result
}

// System describes the dynamics of a triadic field configuration.
type System interface {
	// Derive evaluates dX/dt at the given state and time.
	Derive(x Vector, t float64) Vector
	// Dim is the length of the integration vector.
	Dim() int
	// Fields projects the integration vector onto the triadic triple.
	Fields(x Vector) State
}

// Hamiltonian is implemented by systems with a conserved energy.
type Hamiltonian interface {
	Energy(x Vector) float64
}

// Stepper advances an integration state by one time step.
type Stepper interface {
	Step(sys System, x Vector, t, dt float64) Vector
}

// AdaptiveStepper additionally estimates local error and suggests a
// step size.
type AdaptiveStepper interface {
	Stepper
	StepAdaptive(sys System, x Vector, t, dt, tol float64) (Vector, float64, error)
}

// Configurable is implemented by systems with runtime-tunable parameters.
type Configurable interface {
	Params() map[string]float64
	SetParam(name string, value float64) error
}

// Metric accumulates a scalar summary over a simulation run.
type Metric interface {
	Name() string
	Observe(x Vector, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every integration step.
type Observer interface {
	OnStep(x Vector, t float64)
}

// Sample is one trajectory point: the triadic triple at a given time.
type Sample struct {
	Time   float64
	Fields State
}

// Trajectory is the time-ordered output of one simulation run.
type Trajectory []Sample

// Field extracts the time series of a single field.
func (tr Trajectory) Field(i int) []float64 {
	out := make([]float64, len(tr))
	for k, s := range tr {
		out[k] = s.Fields[i]
	}
	return out
}

// Times extracts the sample times.
func (tr Trajectory) Times() []float64 {
	out := make([]float64, len(tr))
	for k, s := range tr {
		out[k] = s.Time
	}
	return out
}

// Config controls one simulation run.
type Config struct {
	Dt            float64
	Duration      float64
	Tolerance     float64
	MaxDt         float64
	MinDt         float64
	Adaptive      bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		Tolerance:     1e-6,
		MaxDt:         0.1,
		MinDt:         1e-8,
		Adaptive:      false,
		ValidateState: true,
	}
}

// Validate checks the run parameters against their domains.
func (c Config) Validate() error {
	if math.IsNaN(c.Duration) || math.IsInf(c.Duration, 0) || c.Duration <= 0 {
		return fmt.Errorf("%w: duration = %v, must be positive", ErrInvalidParameter, c.Duration)
	}
	if math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) || c.Dt <= 0 {
		return fmt.Errorf("%w: dt = %v, must be positive", ErrInvalidParameter, c.Dt)
	}
	if c.Dt > c.Duration {
		return fmt.Errorf("%w: dt = %v exceeds duration = %v", ErrInvalidParameter, c.Dt, c.Duration)
	}
	if c.Adaptive && c.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive for adaptive stepping", ErrInvalidParameter)
	}
	return nil
}

// Steps returns the number of integration steps implied by the config,
// snapping near-integral duration/dt ratios to avoid spurious extra
// samples from floating-point division.
func (c Config) Steps() int {
	ratio := c.Duration / c.Dt
	if r := math.Round(ratio); math.Abs(ratio-r) < 1e-9*math.Max(1, r) {
		return int(r)
	}
	return int(math.Ceil(ratio))
}

// Result holds everything produced by one simulation run.
type Result struct {
	Trajectory  Trajectory
	Raw         []Vector
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
}

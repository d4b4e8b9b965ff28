package steppers

import (
	"math"
	"testing"

	"github.com/triadlab/triadsim/internal/resonance"
)

// oscillator is x'' = -x as a first-order pair [x, v], with exact
// solution cos(t) from [1, 0].
type oscillator struct{}

func (oscillator) Derive(x resonance.Vector, _ float64) resonance.Vector {
	return resonance.Vector{x[1], -x[0]}
}
func (oscillator) Dim() int { return 2 }
func (oscillator) Fields(x resonance.Vector) resonance.State {
	return resonance.State{x[0], x[1], 0}
}

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()

	x := resonance.Vector{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(oscillator{}, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestRK4MoreAccurateThanEuler(t *testing.T) {
	rk4 := NewRK4()
	euler := NewEuler()

	xa := resonance.Vector{1.0, 0.0}
	xb := resonance.Vector{1.0, 0.0}
	dt := 0.05
	steps := 200

	for i := 0; i < steps; i++ {
		tNow := float64(i) * dt
		xa = rk4.Step(oscillator{}, xa, tNow, dt)
		xb = euler.Step(oscillator{}, xb, tNow, dt)
	}

	exact := math.Cos(float64(steps) * dt)
	errRK4 := math.Abs(xa[0] - exact)
	errEuler := math.Abs(xb[0] - exact)

	if errRK4 >= errEuler {
		t.Errorf("rk4 error %.6f not below euler error %.6f", errRK4, errEuler)
	}
}

func TestRK4Deterministic(t *testing.T) {
	step := func() resonance.Vector {
		integ := NewRK4()
		x := resonance.Vector{1.0, 0.0}
		for i := 0; i < 50; i++ {
			x = integ.Step(oscillator{}, x, float64(i)*0.01, 0.01)
		}
		return x
	}

	a := step()
	b := step()

	if a[0] != b[0] || a[1] != b[1] {
		t.Errorf("identical inputs produced different outputs: %v vs %v", a, b)
	}
}

func TestRK45AdaptiveShrinksOnError(t *testing.T) {
	integ := NewRK45()

	x := resonance.Vector{1.0, 0.0}
	_, suggested, err := integ.StepAdaptive(oscillator{}, x, 0, 1.0, 1e-10)
	if err != nil {
		t.Fatalf("StepAdaptive failed: %v", err)
	}
	if suggested >= 1.0 {
		t.Errorf("expected shrunken step for tight tolerance, got %.4f", suggested)
	}
}

package field

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/triadlab/triadsim/internal/resonance"
	"github.com/triadlab/triadsim/internal/steppers"
)

func referenceCoupling() resonance.CouplingMatrix {
	return resonance.CouplingMatrix{
		{0, 0.5, 0.3},
		{0.5, 0, 0.4},
		{0.3, 0.4, 0},
	}
}

func TestNewTriadValidation(t *testing.T) {
	tests := []struct {
		name     string
		mass     resonance.MassVector
		coupling resonance.CouplingMatrix
		wantErr  bool
	}{
		{"valid", resonance.MassVector{1, 1, 1}, referenceCoupling(), false},
		{"zero mass", resonance.MassVector{1, 0, 1}, referenceCoupling(), true},
		{"negative mass", resonance.MassVector{-1, 1, 1}, referenceCoupling(), true},
		{"asymmetric coupling", resonance.MassVector{1, 1, 1}, resonance.CouplingMatrix{
			{0, 0.5, 0.3},
			{0.6, 0, 0.4},
			{0.3, 0.4, 0},
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTriad(tt.mass, tt.coupling)
			if tt.wantErr && !errors.Is(err, resonance.ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSimulateSampleCount(t *testing.T) {
	traj, err := Simulate(context.Background(), resonance.MassVector{1, 1, 1}, referenceCoupling(), 10.0, 0.01)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if len(traj) != 1001 {
		t.Errorf("expected 1001 samples, got %d", len(traj))
	}
	if traj[0].Time != 0 {
		t.Errorf("first sample time = %v, want 0", traj[0].Time)
	}
	if last := traj[len(traj)-1].Time; last > 10.0 {
		t.Errorf("last sample time %v exceeds duration", last)
	}
	for _, s := range traj {
		if !s.Fields.IsFinite() {
			t.Fatalf("non-finite sample at t=%v", s.Time)
		}
	}
}

func TestSimulateInvalidInputs(t *testing.T) {
	mass := resonance.MassVector{1, 1, 1}

	tests := []struct {
		name     string
		mass     resonance.MassVector
		duration float64
		step     float64
	}{
		{"zero duration", mass, 0, 0.01},
		{"negative duration", mass, -1, 0.01},
		{"zero step", mass, 1, 0},
		{"step exceeds duration", mass, 1, 2},
		{"bad mass", resonance.MassVector{0, 1, 1}, 1, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Simulate(context.Background(), tt.mass, referenceCoupling(), tt.duration, tt.step)
			if !errors.Is(err, resonance.ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestSimulateDeterministic(t *testing.T) {
	run := func() resonance.Trajectory {
		traj, err := Simulate(context.Background(), resonance.MassVector{1, 1, 1}, referenceCoupling(), 5.0, 0.01)
		if err != nil {
			t.Fatalf("Simulate failed: %v", err)
		}
		return traj
	}

	a := run()
	b := run()

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("trajectories differ at sample %d: %v vs %v", i, a[i], b[i])
		}
	}
}

// With zero coupling each field is an independent oscillator, so
// perturbing one field's initial value must leave the others'
// trajectories bit-identical.
func TestZeroCouplingIndependence(t *testing.T) {
	var zero resonance.CouplingMatrix

	run := func(spatial0 float64) resonance.Trajectory {
		triad, err := NewTriad(resonance.MassVector{1, 1, 1}, zero)
		if err != nil {
			t.Fatalf("NewTriad failed: %v", err)
		}
		x0 := triad.InitialVector(resonance.State{spatial0, 0.5, 0.25}, resonance.State{})
		traj, err := SimulateFrom(context.Background(), triad, x0, 5.0, 0.01)
		if err != nil {
			t.Fatalf("SimulateFrom failed: %v", err)
		}
		return traj
	}

	base := run(1.0)
	perturbed := run(2.0)

	for i := range base {
		for _, f := range []int{resonance.FieldPhase, resonance.FieldScale} {
			if base[i].Fields[f] != perturbed[i].Fields[f] {
				t.Fatalf("field %s changed at sample %d after spatial perturbation",
					resonance.FieldNames[f], i)
			}
		}
	}

	if base[10].Fields[resonance.FieldSpatial] == perturbed[10].Fields[resonance.FieldSpatial] {
		t.Error("spatial trajectory unaffected by its own initial value")
	}
}

func TestTriadEnergyConservation(t *testing.T) {
	triad, err := NewTriad(resonance.MassVector{1, 1, 1}, referenceCoupling())
	if err != nil {
		t.Fatalf("NewTriad failed: %v", err)
	}

	x := triad.DefaultVector()
	initial := triad.Energy(x)

	integ := steppers.NewRK4()
	dt := 0.001
	for i := 0; i < 10000; i++ {
		x = integ.Step(triad, x, float64(i)*dt, dt)
	}

	final := triad.Energy(x)
	drift := math.Abs(final-initial) / math.Abs(initial)
	if drift > 1e-6 {
		t.Errorf("energy drift %.2e too large for undamped triad", drift)
	}
}

func TestTriadDampingDissipates(t *testing.T) {
	triad, err := NewTriad(resonance.MassVector{1, 1, 1}, referenceCoupling())
	if err != nil {
		t.Fatalf("NewTriad failed: %v", err)
	}
	triad.SetDamping([resonance.NumFields]float64{0.5, 0.5, 0.5})

	x := triad.DefaultVector()
	initial := triad.Energy(x)

	integ := steppers.NewRK4()
	for i := 0; i < 5000; i++ {
		x = integ.Step(triad, x, float64(i)*0.01, 0.01)
	}

	if final := triad.Energy(x); final >= initial {
		t.Errorf("damped triad gained energy: %.6f -> %.6f", initial, final)
	}
}

func TestTriadSetParam(t *testing.T) {
	triad, err := NewTriad(resonance.MassVector{1, 1, 1}, referenceCoupling())
	if err != nil {
		t.Fatalf("NewTriad failed: %v", err)
	}

	if err := triad.SetParam("gain", 2.0); err != nil {
		t.Errorf("SetParam(gain) failed: %v", err)
	}
	if got := triad.Params()["gain"]; got != 2.0 {
		t.Errorf("gain = %v after SetParam", got)
	}

	if err := triad.SetParam("bogus", 1.0); !errors.Is(err, resonance.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for unknown param, got %v", err)
	}
}

func TestPhaseTriadLocking(t *testing.T) {
	strong := resonance.CouplingMatrix{
		{0, 2, 2},
		{2, 0, 2},
		{2, 2, 0},
	}
	p, err := NewPhaseTriad(resonance.MassVector{1, 1, 1}, strong)
	if err != nil {
		t.Fatalf("NewPhaseTriad failed: %v", err)
	}

	traj, err := SimulateFrom(context.Background(), p, p.DefaultVector(), 30.0, 0.01)
	if err != nil {
		t.Fatalf("SimulateFrom failed: %v", err)
	}

	// After the transient, locked phases keep a fixed difference: the
	// spread of the pairwise difference should shrink to near zero.
	tail := traj[len(traj)/2:]
	minDiff, maxDiff := math.Inf(1), math.Inf(-1)
	for _, s := range tail {
		d := s.Fields[resonance.FieldPhase] - s.Fields[resonance.FieldSpatial]
		minDiff = math.Min(minDiff, d)
		maxDiff = math.Max(maxDiff, d)
	}

	if maxDiff-minDiff > 0.1 {
		t.Errorf("phases not locked: difference wanders by %.4f", maxDiff-minDiff)
	}
}

package analysis

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/triadlab/triadsim/internal/resonance"
)

func TestPowerSpectrumPeak(t *testing.T) {
	n := 256
	freq := 12
	data := sine(n, float64(freq), 0)

	ps := PowerSpectrum(data)

	peak := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}

	if peak != freq {
		t.Errorf("spectrum peak at bin %d, want %d", peak, freq)
	}
}

func TestIFFTInvertsFFT(t *testing.T) {
	data := sine(128, 5, 0.7)

	spectrum := FFT(data)
	recovered := IFFT(spectrum)

	for i := range data {
		if math.Abs(real(recovered[i])-data[i]) > 1e-9 {
			t.Fatalf("sample %d: recovered %.12f, want %.12f", i, real(recovered[i]), data[i])
		}
		if math.Abs(imag(recovered[i])) > 1e-9 {
			t.Fatalf("sample %d: nonzero imaginary part %.12f", i, imag(recovered[i]))
		}
	}
}

func TestFFTConstantSignal(t *testing.T) {
	data := make([]float64, 64)
	for i := range data {
		data[i] = 3.0
	}

	spectrum := FFT(data)

	if math.Abs(cmplx.Abs(spectrum[0])-3.0*64) > 1e-9 {
		t.Errorf("DC component = %v, want %v", cmplx.Abs(spectrum[0]), 3.0*64)
	}
	for k := 1; k < len(spectrum); k++ {
		if cmplx.Abs(spectrum[k]) > 1e-9 {
			t.Errorf("bin %d should be empty for constant signal, got %v", k, cmplx.Abs(spectrum[k]))
		}
	}
}

func TestPadPow2(t *testing.T) {
	data := make([]float64, 100)
	padded := PadPow2(data)
	if len(padded) != 128 {
		t.Errorf("padded length = %d, want 128", len(padded))
	}

	exact := make([]float64, 64)
	if got := PadPow2(exact); len(got) != 64 {
		t.Errorf("power-of-2 input should not grow, got %d", len(got))
	}
}

func TestLargestLyapunovDecay(t *testing.T) {
	sys := contractingSystem{}
	lambda := LargestLyapunov(sys, rkStepper{}, resonance.Vector{1, 1}, 0.01, 20.0, 1e-8)

	if lambda >= 0 {
		t.Errorf("contracting system should have negative exponent, got %.4f", lambda)
	}
}

// contractingSystem is dx/dt = -x in two dimensions; all trajectories
// converge, so the largest Lyapunov exponent is -1.
type contractingSystem struct{}

func (contractingSystem) Derive(x resonance.Vector, _ float64) resonance.Vector {
	return resonance.Vector{-x[0], -x[1]}
}
func (contractingSystem) Dim() int { return 2 }
func (contractingSystem) Fields(x resonance.Vector) resonance.State {
	return resonance.State{x[0], x[1], 0}
}

// rkStepper is a local RK4 so the test does not depend on the steppers
// package.
type rkStepper struct{}

func (rkStepper) Step(sys resonance.System, x resonance.Vector, t, dt float64) resonance.Vector {
	n := len(x)
	k1 := sys.Derive(x, t)
	mid := make(resonance.Vector, n)
	for i := range x {
		mid[i] = x[i] + dt*0.5*k1[i]
	}
	k2 := sys.Derive(mid, t+dt*0.5)
	for i := range x {
		mid[i] = x[i] + dt*0.5*k2[i]
	}
	k3 := sys.Derive(mid, t+dt*0.5)
	for i := range x {
		mid[i] = x[i] + dt*k3[i]
	}
	k4 := sys.Derive(mid, t+dt)

	out := make(resonance.Vector, n)
	for i := range x {
		out[i] = x[i] + dt/6.0*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return out
}

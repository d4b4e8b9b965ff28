package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/triadlab/triadsim/internal/resonance"
)

// InstantaneousPhase returns the analytic phase of a real series,
// obtained from the Hilbert transform: negative frequencies of the
// spectrum are zeroed, positive ones doubled, and the phase is read
// off the resulting analytic signal. The series is zero-padded to a
// power of two internally; only the original span is returned.
func InstantaneousPhase(data []float64) []float64 {
	padded := PadPow2(data)
	n := len(padded)

	spectrum := FFT(padded)
	// Analytic signal: keep DC and Nyquist, double positive
	// frequencies, drop negative ones.
	for k := 1; k < n/2; k++ {
		spectrum[k] *= 2
	}
	for k := n/2 + 1; k < n; k++ {
		spectrum[k] = 0
	}

	analytic := IFFT(spectrum)

	phase := make([]float64, len(data))
	for i := range phase {
		phase[i] = cmplx.Phase(analytic[i])
	}
	return phase
}

// PLV computes the phase-locking value between two equal-length field
// series: the magnitude of the mean unit phasor of their phase
// difference. 1 means a constant phase lag, 0 means no consistent
// phase relationship.
func PLV(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: series lengths %d and %d differ", resonance.ErrInvalidParameter, len(a), len(b))
	}
	if len(a) < 2 {
		return 0, fmt.Errorf("%w: need at least 2 samples", resonance.ErrInsufficientData)
	}
	for i := range a {
		if math.IsNaN(a[i]) || math.IsInf(a[i], 0) || math.IsNaN(b[i]) || math.IsInf(b[i], 0) {
			return 0, fmt.Errorf("%w: sample %d", resonance.ErrNumericalDegeneracy, i)
		}
	}

	pa := InstantaneousPhase(a)
	pb := InstantaneousPhase(b)

	var sumRe, sumIm float64
	for i := range pa {
		d := pa[i] - pb[i]
		sumRe += math.Cos(d)
		sumIm += math.Sin(d)
	}
	n := float64(len(pa))
	return math.Hypot(sumRe/n, sumIm/n), nil
}

// PLVMatrix computes pairwise phase locking between all three fields of
// a trajectory. The diagonal is 1 by definition.
func PLVMatrix(traj resonance.Trajectory) ([resonance.NumFields][resonance.NumFields]float64, error) {
	var m [resonance.NumFields][resonance.NumFields]float64

	series := make([][]float64, resonance.NumFields)
	for i := 0; i < resonance.NumFields; i++ {
		series[i] = traj.Field(i)
		m[i][i] = 1
	}

	for i := 0; i < resonance.NumFields; i++ {
		for j := i + 1; j < resonance.NumFields; j++ {
			plv, err := PLV(series[i], series[j])
			if err != nil {
				return m, err
			}
			m[i][j] = plv
			m[j][i] = plv
		}
	}

	return m, nil
}

// Package infometrics derives scalar summary statistics from a
// simulated trajectory.
//
// Two quantities characterize the regime of a run:
//
//   - Multi-field information (total correlation): the sum of the
//     marginal field entropies minus the joint entropy, estimated from
//     fixed-bin histograms of the sampled states. Zero means the three
//     fields varied independently (or not at all); larger values mean
//     the joint state is more predictable from the parts.
//   - Surface/volume ratio: the spread of the designated field divided
//     by the geometric mean spread of all three, a dimensionless
//     measure of how much of the joint extent the designated field
//     accounts for.
//
// The concrete estimator definitions live here and nowhere else.
package infometrics

import (
	"fmt"
	"math"

	"github.com/triadlab/triadsim/internal/resonance"
)

// DefaultBins is the histogram resolution per field axis.
const DefaultBins = 16

// Options tunes the extraction.
type Options struct {
	// Bins is the number of histogram bins per axis. Zero means
	// DefaultBins.
	Bins int
	// Designated selects the field whose spread forms the numerator of
	// the surface/volume ratio. Defaults to the spatial field.
	Designated int
}

// Result holds the derived scalars for one trajectory.
type Result struct {
	// MultiInformation is the total correlation of the three fields in
	// bits. Always >= 0; exactly 0 for a constant trajectory.
	MultiInformation float64
	// SurfaceVolumeRatio is the designated field's standard deviation
	// over the geometric mean of all three. Defined as 0 when any
	// field has zero spread.
	SurfaceVolumeRatio float64
	// FieldEntropy holds the marginal histogram entropies in bits.
	FieldEntropy [resonance.NumFields]float64
	// JointEntropy is the joint histogram entropy in bits.
	JointEntropy float64
}

// Extract computes metrics with default options.
func Extract(traj resonance.Trajectory) (*Result, error) {
	return ExtractWith(traj, Options{})
}

// ExtractWith computes metrics for a trajectory of at least 2 samples.
// Non-finite values in the trajectory are surfaced, never clamped.
func ExtractWith(traj resonance.Trajectory, opts Options) (*Result, error) {
	if len(traj) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples, got %d", resonance.ErrInsufficientData, len(traj))
	}
	if opts.Bins <= 0 {
		opts.Bins = DefaultBins
	}
	if opts.Designated < 0 || opts.Designated >= resonance.NumFields {
		return nil, fmt.Errorf("%w: designated field index %d", resonance.ErrInvalidParameter, opts.Designated)
	}

	for k, s := range traj {
		if !s.Fields.IsFinite() {
			return nil, fmt.Errorf("%w: sample %d (t=%.4f)", resonance.ErrNumericalDegeneracy, k, s.Time)
		}
	}

	res := &Result{}

	h := newHistogram(traj, opts.Bins)
	for i := 0; i < resonance.NumFields; i++ {
		res.FieldEntropy[i] = h.marginalEntropy(i)
	}
	res.JointEntropy = h.jointEntropy()

	total := res.FieldEntropy[0] + res.FieldEntropy[1] + res.FieldEntropy[2] - res.JointEntropy
	// Total correlation is non-negative by construction; tiny negative
	// values can appear from floating-point cancellation.
	if total < 0 {
		total = 0
	}
	res.MultiInformation = total

	res.SurfaceVolumeRatio = surfaceVolumeRatio(traj, opts.Designated)

	return res, nil
}

// surfaceVolumeRatio compares one field's spread with the joint spread
// of the triple. A degenerate trajectory (any field without spread)
// yields 0 rather than a division by zero.
func surfaceVolumeRatio(traj resonance.Trajectory, designated int) float64 {
	var stddev [resonance.NumFields]float64
	for i := 0; i < resonance.NumFields; i++ {
		stddev[i] = fieldStdDev(traj, i)
		if stddev[i] == 0 {
			return 0
		}
	}
	return stddev[designated] / math.Cbrt(stddev[0]*stddev[1]*stddev[2])
}

func fieldStdDev(traj resonance.Trajectory, i int) float64 {
	n := float64(len(traj))
	mean := 0.0
	for _, s := range traj {
		mean += s.Fields[i]
	}
	mean /= n

	variance := 0.0
	for _, s := range traj {
		d := s.Fields[i] - mean
		variance += d * d
	}
	variance /= n

	return math.Sqrt(variance)
}

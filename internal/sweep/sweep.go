// Package sweep runs batches of independent simulations across
// parameter ranges. Runs share no state, so batches execute in
// parallel.
package sweep

import (
	"context"

	"github.com/triadlab/triadsim/internal/field"
	"github.com/triadlab/triadsim/internal/infometrics"
	"github.com/triadlab/triadsim/internal/resonance"
)

// Options fixes everything about a batch except the swept value.
type Options struct {
	Mass     resonance.MassVector
	Coupling resonance.CouplingMatrix
	Duration float64
	Dt       float64
	Metrics  infometrics.Options
}

// Point is the outcome of one run in a gain sweep.
type Point struct {
	Gain               float64
	MultiInformation   float64
	SurfaceVolumeRatio float64
}

// Gains simulates the triad once per coupling gain and extracts metrics
// from each trajectory. Results are ordered like the input gains.
func Gains(ctx context.Context, opts Options, gains []float64) ([]Point, error) {
	points := make([]Point, len(gains))
	errs := make([]error, len(gains))

	resonance.ParallelFor(len(gains), 1, func(start, end int) {
		for i := start; i < end; i++ {
			traj, err := field.Simulate(ctx, opts.Mass, opts.Coupling.Scale(gains[i]), opts.Duration, opts.Dt)
			if err != nil {
				errs[i] = err
				continue
			}

			m, err := infometrics.ExtractWith(traj, opts.Metrics)
			if err != nil {
				errs[i] = err
				continue
			}

			points[i] = Point{
				Gain:               gains[i],
				MultiInformation:   m.MultiInformation,
				SurfaceVolumeRatio: m.SurfaceVolumeRatio,
			}
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return points, nil
}

// Range builds n evenly spaced gains over [lo, hi].
func Range(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	gains := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range gains {
		gains[i] = lo + float64(i)*step
	}
	return gains
}

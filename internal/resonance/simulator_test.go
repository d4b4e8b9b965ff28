package resonance

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// decaySystem is dx/dt = -x, whose solution is x0*exp(-t).
type decaySystem struct{}

func (decaySystem) Derive(x Vector, _ float64) Vector { return Vector{-x[0]} }
func (decaySystem) Dim() int                          { return 1 }
func (decaySystem) Fields(x Vector) State             { return State{x[0], 0, 0} }

// blowupSystem produces a NaN after t passes 0.5.
type blowupSystem struct{}

func (blowupSystem) Derive(x Vector, t float64) Vector {
	if t > 0.5 {
		return Vector{math.NaN()}
	}
	return Vector{1}
}
func (blowupSystem) Dim() int              { return 1 }
func (blowupSystem) Fields(x Vector) State { return State{x[0], 0, 0} }

// eulerStepper is the minimal first-order scheme, enough to exercise
// the run loop without pulling in the steppers package.
type eulerStepper struct{}

func (eulerStepper) Step(sys System, x Vector, t, dt float64) Vector {
	dx := sys.Derive(x, t)
	out := make(Vector, len(x))
	for i := range x {
		out[i] = x[i] + dt*dx[i]
	}
	return out
}

type meanMetric struct {
	count int
	sum   float64
}

func (m *meanMetric) Name() string { return "mean" }
func (m *meanMetric) Observe(x Vector, _ float64) {
	m.count++
	m.sum += x[0]
}
func (m *meanMetric) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}
func (m *meanMetric) Reset() {
	m.count = 0
	m.sum = 0
}

var _ = Describe("Simulator", func() {
	var sim *Simulator

	BeforeEach(func() {
		sim = New(decaySystem{}, eulerStepper{})
	})

	It("should return ceil(duration/dt)+1 samples", func() {
		result, err := sim.Run(context.Background(), Vector{1}, Config{Dt: 0.1, Duration: 1.0})

		Expect(err).ToNot(HaveOccurred())
		Expect(result.Trajectory).To(HaveLen(11))
		Expect(result.Trajectory[0].Time).To(Equal(0.0))
		Expect(result.Trajectory[10].Time).To(Equal(1.0))
	})

	It("should land the last sample on the duration for ragged ratios", func() {
		result, err := sim.Run(context.Background(), Vector{1}, Config{Dt: 0.3, Duration: 1.0})

		Expect(err).ToNot(HaveOccurred())
		Expect(result.Trajectory).To(HaveLen(5))
		Expect(result.Trajectory[4].Time).To(Equal(1.0))
		for _, s := range result.Trajectory {
			Expect(s.Time).To(BeNumerically("<=", 1.0))
		}
	})

	It("should approximate exponential decay", func() {
		result, err := sim.Run(context.Background(), Vector{1}, Config{Dt: 0.01, Duration: 1.0})

		Expect(err).ToNot(HaveOccurred())
		final := result.Trajectory[len(result.Trajectory)-1].Fields[FieldSpatial]
		Expect(final).To(BeNumerically("~", math.Exp(-1), 0.01))
	})

	It("should produce bit-identical trajectories for identical inputs", func() {
		cfg := Config{Dt: 0.01, Duration: 2.0}

		first, err := sim.Run(context.Background(), Vector{1}, cfg)
		Expect(err).ToNot(HaveOccurred())
		second, err := sim.Run(context.Background(), Vector{1}, cfg)
		Expect(err).ToNot(HaveOccurred())

		Expect(second.Trajectory).To(Equal(first.Trajectory))
	})

	It("should reject invalid run parameters", func() {
		bad := []Config{
			{Dt: 0, Duration: 1},
			{Dt: -0.1, Duration: 1},
			{Dt: 0.1, Duration: 0},
			{Dt: 0.1, Duration: -1},
			{Dt: 2, Duration: 1},
			{Dt: math.NaN(), Duration: 1},
		}
		for _, cfg := range bad {
			_, err := sim.Run(context.Background(), Vector{1}, cfg)
			Expect(err).To(MatchError(ErrInvalidParameter))
		}
	})

	It("should surface numerical degeneracy with step context", func() {
		sim = New(blowupSystem{}, eulerStepper{})

		result, err := sim.Run(context.Background(), Vector{0}, Config{Dt: 0.1, Duration: 1.0, ValidateState: true})

		Expect(err).To(MatchError(ErrNumericalDegeneracy))
		var stepErr *StepError
		Expect(err).To(BeAssignableToTypeOf(stepErr))
		Expect(result.Trajectory).ToNot(BeEmpty())
	})

	It("should reject a non-finite initial state", func() {
		_, err := sim.Run(context.Background(), Vector{math.Inf(1)}, Config{Dt: 0.1, Duration: 1.0})
		Expect(err).To(MatchError(ErrNumericalDegeneracy))
	})

	It("should stop when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := sim.Run(ctx, Vector{1}, Config{Dt: 0.01, Duration: 10})
		Expect(err).To(MatchError(context.Canceled))
	})

	It("should collect metric values", func() {
		metric := &meanMetric{}
		sim.AddMetric(metric)

		result, err := sim.Run(context.Background(), Vector{1}, Config{Dt: 0.1, Duration: 1.0})

		Expect(err).ToNot(HaveOccurred())
		Expect(result.Metrics).To(HaveKey("mean"))
		Expect(metric.count).To(Equal(10))
	})
})

var _ = Describe("Ensemble", func() {
	It("should run independent members and keep order", func() {
		ensemble := NewEnsemble(func() (*Simulator, Vector) {
			return New(decaySystem{}, eulerStepper{}), Vector{1}
		}, 8)

		results, err := ensemble.Run(context.Background(), Config{Dt: 0.01, Duration: 1.0})

		Expect(err).ToNot(HaveOccurred())
		Expect(results).To(HaveLen(8))
		for _, r := range results {
			Expect(r.Trajectory).To(HaveLen(101))
			Expect(r.Trajectory).To(Equal(results[0].Trajectory))
		}
	})
})

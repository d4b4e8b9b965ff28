package resonance

import (
	"context"
	"math"
)

// Simulator runs a System forward in time with a chosen Stepper.
type Simulator struct {
	sys       System
	stepper   Stepper
	metrics   []Metric
	observers []Observer
}

func New(sys System, stepper Stepper) *Simulator {
	return &Simulator{
		sys:     sys,
		stepper: stepper,
		metrics: make([]Metric, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates from x0 over [0, cfg.Duration] at fixed output stride
// cfg.Dt. The returned trajectory always holds cfg.Steps()+1 samples on
// success: the initial state at t=0 plus one per step, the last landing
// exactly on cfg.Duration.
func (s *Simulator) Run(ctx context.Context, x0 Vector, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !x0.IsValid() {
		return nil, ErrNumericalDegeneracy
	}

	steps := cfg.Steps()
	result := &Result{
		Trajectory: make(Trajectory, 0, steps+1),
		Raw:        make([]Vector, 0, steps+1),
		Metrics:    make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	result.Trajectory = append(result.Trajectory, Sample{Time: 0, Fields: s.sys.Fields(x)})
	result.Raw = append(result.Raw, x.Clone())

	initialEnergy := s.energy(x)
	dt := cfg.Dt

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt

		for _, m := range s.metrics {
			m.Observe(x, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}

		// The final step is shortened so the last sample lands on the
		// requested duration even when duration/dt is not integral.
		h := dt
		tNext := float64(i+1) * cfg.Dt
		if i == steps-1 {
			h = cfg.Duration - float64(steps-1)*cfg.Dt
			tNext = cfg.Duration
		}

		var err error
		if cfg.Adaptive {
			x, err = s.advanceAdaptive(x, t, h, cfg)
		} else {
			x = s.stepper.Step(s.sys, x, t, h)
		}
		if err != nil {
			return result, &StepError{Step: i, Time: t, Wrapped: err}
		}

		if cfg.ValidateState && !x.IsValid() {
			return result, &StepError{Step: i, Time: t, Wrapped: ErrNumericalDegeneracy}
		}

		result.StepsTaken++
		result.Trajectory = append(result.Trajectory, Sample{Time: tNext, Fields: s.sys.Fields(x)})
		result.Raw = append(result.Raw, x.Clone())
	}

	if initialEnergy != 0 {
		finalEnergy := s.energy(x)
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback integrates like Run but hands each state to the
// callback instead of building a trajectory. Returning false from the
// callback stops the run early.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 Vector, cfg Config, callback func(x Vector, t float64) bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	x := x0.Clone()
	steps := cfg.Steps()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt
		if !callback(x, t) {
			return nil
		}

		h := cfg.Dt
		if i == steps-1 {
			h = cfg.Duration - float64(steps-1)*cfg.Dt
		}
		x = s.stepper.Step(s.sys, x, t, h)

		if cfg.ValidateState && !x.IsValid() {
			return &StepError{Step: i, Time: t, Wrapped: ErrNumericalDegeneracy}
		}
	}

	callback(x, cfg.Duration)
	return nil
}

func (s *Simulator) energy(x Vector) float64 {
	if h, ok := s.sys.(Hamiltonian); ok {
		return h.Energy(x)
	}
	return 0
}

// advanceAdaptive integrates one output stride of length h with error
// control, so adaptive stepping never changes the sampling grid.
func (s *Simulator) advanceAdaptive(x Vector, t, h float64, cfg Config) (Vector, error) {
	target := t + h
	dt := math.Min(h, cfg.MaxDt)

	for t < target {
		if t+dt > target {
			dt = target - t
		}

		if adaptive, ok := s.stepper.(AdaptiveStepper); ok {
			next, suggested, err := adaptive.StepAdaptive(s.sys, x, t, dt, cfg.Tolerance)
			if err != nil {
				return x, err
			}
			x = next
			t += dt
			dt = math.Min(math.Max(suggested, cfg.MinDt), cfg.MaxDt)
			continue
		}

		// Step-doubling error estimate for plain steppers.
		x1 := s.stepper.Step(s.sys, x, t, dt)
		xHalf := s.stepper.Step(s.sys, x, t, dt/2)
		x2 := s.stepper.Step(s.sys, xHalf, t+dt/2, dt/2)

		errEst := x1.Sub(x2).Norm()
		if errEst > cfg.Tolerance && dt > cfg.MinDt {
			dt = math.Max(dt/2, cfg.MinDt)
			continue
		}

		x = x2
		t += dt
		if errEst < cfg.Tolerance/10 && dt < cfg.MaxDt {
			dt = math.Min(dt*2, cfg.MaxDt)
		}
	}

	return x, nil
}

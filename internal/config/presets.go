package config

import "github.com/triadlab/triadsim/internal/resonance"

// Presets are named starting points for common triad regimes.
var Presets = map[string]*Config{
	// The canonical run: moderate symmetric coupling, unit masses.
	"resonant": {
		Model: "triad", Stepper: "rk4", Dt: 0.01, Duration: 10.0,
		Mass:      resonance.MassVector{1, 1, 1},
		Coupling:  DefaultCoupling(),
		Stiffness: [resonance.NumFields]float64{1, 1, 1},
		Init:      InitConfig{Fields: resonance.State{1, 0, 0}},
	},
	// No interaction: each field evolves on its own.
	"decoupled": {
		Model: "triad", Stepper: "rk4", Dt: 0.01, Duration: 10.0,
		Mass:      resonance.MassVector{1, 1, 1},
		Stiffness: [resonance.NumFields]float64{1, 1, 1},
		Init:      InitConfig{Fields: resonance.State{1, 0.5, 0.25}},
	},
	// Unequal stiffness pulls the fields off a common frequency.
	"detuned": {
		Model: "triad", Stepper: "rk4", Dt: 0.005, Duration: 30.0,
		Mass:      resonance.MassVector{1, 2, 0.5},
		Coupling:  DefaultCoupling(),
		Stiffness: [resonance.NumFields]float64{1, 2.5, 0.4},
		Init:      InitConfig{Fields: resonance.State{1, 0, 0}},
	},
	// Heavy damping: transients die out fast.
	"overdamped": {
		Model: "triad", Stepper: "rk4", Dt: 0.01, Duration: 20.0,
		Mass:      resonance.MassVector{1, 1, 1},
		Coupling:  DefaultCoupling(),
		Stiffness: [resonance.NumFields]float64{1, 1, 1},
		Damping:   [resonance.NumFields]float64{2, 2, 2},
		Init:      InitConfig{Fields: resonance.State{1, -1, 0.5}},
	},
	// Phase model, coupling strong enough to lock all three phases.
	"locked": {
		Model: "phase", Stepper: "rk4", Dt: 0.01, Duration: 30.0,
		Mass: resonance.MassVector{1, 1, 1},
		Coupling: resonance.CouplingMatrix{
			{0, 2.0, 2.0},
			{2.0, 0, 2.0},
			{2.0, 2.0, 0},
		},
		Init: InitConfig{Fields: resonance.State{0, 2, 4}},
	},
	// Phase model, coupling too weak against detuning: phases drift.
	"drift": {
		Model: "phase", Stepper: "rk4", Dt: 0.01, Duration: 30.0,
		Mass: resonance.MassVector{1, 1, 1},
		Coupling: resonance.CouplingMatrix{
			{0, 0.05, 0.05},
			{0.05, 0, 0.05},
			{0.05, 0.05, 0},
		},
		Init: InitConfig{Fields: resonance.State{0, 2, 4}},
	},
}

// GetPreset returns a copy of the named preset, or nil if unknown.
// Callers may mutate the result freely.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	out := *cfg
	return &out
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/triadlab/triadsim/internal/infometrics"
	"github.com/triadlab/triadsim/internal/resonance"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultModel    = "triad"
	DefaultStepper  = "rk4"
)

type Config struct {
	Model     string                          `yaml:"model"`
	Stepper   string                          `yaml:"stepper"`
	Dt        float64                         `yaml:"dt"`
	Duration  float64                         `yaml:"duration"`
	Mass      resonance.MassVector            `yaml:"mass"`
	Coupling  resonance.CouplingMatrix        `yaml:"coupling"`
	Stiffness [resonance.NumFields]float64    `yaml:"stiffness"`
	Damping   [resonance.NumFields]float64    `yaml:"damping"`
	Init      InitConfig                      `yaml:"init"`
	Metrics   MetricsConfig                   `yaml:"metrics"`
}

type InitConfig struct {
	Fields     resonance.State `yaml:"fields"`
	Velocities resonance.State `yaml:"velocities"`
}

type MetricsConfig struct {
	Bins       int    `yaml:"bins"`
	Designated string `yaml:"designated"`
}

func DefaultCoupling() resonance.CouplingMatrix {
	return resonance.CouplingMatrix{
		{0, 0.5, 0.3},
		{0.5, 0, 0.4},
		{0.3, 0.4, 0},
	}
}

func DefaultConfig() *Config {
	return &Config{
		Model:     DefaultModel,
		Stepper:   DefaultStepper,
		Dt:        DefaultDt,
		Duration:  DefaultDuration,
		Mass:      resonance.MassVector{1, 1, 1},
		Coupling:  DefaultCoupling(),
		Stiffness: [resonance.NumFields]float64{1, 1, 1},
		Init: InitConfig{
			Fields: resonance.State{1, 0, 0},
		},
		Metrics: MetricsConfig{
			Bins:       infometrics.DefaultBins,
			Designated: resonance.FieldNames[resonance.FieldSpatial],
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks all physical and timing parameters.
func (c *Config) Validate() error {
	if err := c.Mass.Validate(); err != nil {
		return err
	}
	if err := c.Coupling.Validate(); err != nil {
		return err
	}
	if err := c.RunConfig().Validate(); err != nil {
		return err
	}
	if _, err := c.DesignatedIndex(); err != nil {
		return err
	}
	switch c.Model {
	case "triad", "phase":
	default:
		return fmt.Errorf("%w: unknown model %q", resonance.ErrInvalidParameter, c.Model)
	}
	return nil
}

// RunConfig maps the file-level timing fields to a simulation config.
func (c *Config) RunConfig() resonance.Config {
	rc := resonance.DefaultConfig()
	rc.Dt = c.Dt
	rc.Duration = c.Duration
	return rc
}

// DesignatedIndex resolves the designated metric field by name.
func (c *Config) DesignatedIndex() (int, error) {
	if c.Metrics.Designated == "" {
		return resonance.FieldSpatial, nil
	}
	for i, name := range resonance.FieldNames {
		if name == c.Metrics.Designated {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown field %q", resonance.ErrInvalidParameter, c.Metrics.Designated)
}

// MetricsOptions maps the metrics section to extractor options.
func (c *Config) MetricsOptions() (infometrics.Options, error) {
	idx, err := c.DesignatedIndex()
	if err != nil {
		return infometrics.Options{}, err
	}
	return infometrics.Options{Bins: c.Metrics.Bins, Designated: idx}, nil
}

package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/triadlab/triadsim/internal/resonance"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "triad" {
		t.Errorf("expected model triad, got %s", cfg.Model)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidateRejectsBadInputs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero mass", func(c *Config) { c.Mass[1] = 0 }},
		{"negative mass", func(c *Config) { c.Mass[0] = -1 }},
		{"asymmetric coupling", func(c *Config) { c.Coupling[0][1] = 9 }},
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"dt above duration", func(c *Config) { c.Dt = 100 }},
		{"unknown model", func(c *Config) { c.Model = "quintad" }},
		{"unknown designated field", func(c *Config) { c.Metrics.Designated = "temporal" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadSaveRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Duration = 42.0
	cfg.Coupling = resonance.CouplingMatrix{
		{0, 0.9, 0.1},
		{0.9, 0, 0.2},
		{0.1, 0.2, 0},
	}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Duration != 42.0 {
		t.Errorf("duration = %v after roundtrip", loaded.Duration)
	}
	if loaded.Coupling != cfg.Coupling {
		t.Errorf("coupling = %v after roundtrip", loaded.Coupling)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("resonant")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Coupling != DefaultCoupling() {
		t.Errorf("resonant preset coupling = %v", cfg.Coupling)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("resonant preset invalid: %v", err)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestAllPresetsValid(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestDesignatedIndex(t *testing.T) {
	cfg := DefaultConfig()

	cfg.Metrics.Designated = "scale"
	idx, err := cfg.DesignatedIndex()
	if err != nil {
		t.Fatalf("DesignatedIndex failed: %v", err)
	}
	if idx != resonance.FieldScale {
		t.Errorf("index = %d, want %d", idx, resonance.FieldScale)
	}

	cfg.Metrics.Designated = ""
	if idx, _ := cfg.DesignatedIndex(); idx != resonance.FieldSpatial {
		t.Errorf("empty designated should default to spatial, got %d", idx)
	}

	cfg.Metrics.Designated = "temporal"
	if _, err := cfg.DesignatedIndex(); !errors.Is(err, resonance.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

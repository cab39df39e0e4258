package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Algorithm != "bubble" {
		t.Errorf("expected algorithm bubble, got %s", cfg.Algorithm)
	}
	if cfg.Speed != DefaultSpeed {
		t.Errorf("expected speed %d, got %d", DefaultSpeed, cfg.Speed)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"speed zero", func(c *Config) { c.Speed = 0 }, false},
		{"speed high", func(c *Config) { c.Speed = 101 }, false},
		{"size small", func(c *Config) { c.Size = 2 }, false},
		{"size over max", func(c *Config) { c.Size = 30 }, false},
		{"max len", func(c *Config) { c.MaxLen = 50; c.Size = 40 }, true},
		{"nan value", func(c *Config) { c.Values = []float64{1, nan} }, false},
		{"nan target", func(c *Config) { c.Target = &nan }, false},
		{"empty algorithm", func(c *Config) { c.Algorithm = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "algosim.yaml")

	cfg := DefaultConfig()
	cfg.Algorithm = "binary"
	cfg.Speed = 40
	cfg.StepMode = true
	cfg.Values = []float64{1, 3, 5}
	cfg.Target = target(3)
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Algorithm != "binary" || loaded.Speed != 40 || !loaded.StepMode {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
	if len(loaded.Values) != 3 || loaded.Target == nil || *loaded.Target != 3 {
		t.Errorf("values/target mismatch: %v %v", loaded.Values, loaded.Target)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("algorithm: merge\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Algorithm != "merge" || cfg.Speed != DefaultSpeed || cfg.MaxLen != DefaultMaxLen {
		t.Errorf("defaults not kept: %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("speed: 500\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("binary", "classic")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Target == nil || *cfg.Target != 7 {
		t.Errorf("expected target 7, got %v", cfg.Target)
	}

	cfg.Values[0] = 999
	if Presets["binary"]["classic"].Values[0] == 999 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("bubble", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "classic") != nil {
		t.Error("expected nil for nonexistent algorithm")
	}
}

func TestListPresets(t *testing.T) {
	for _, algo := range []string{"bubble", "quick", "merge", "linear", "binary"} {
		names := ListPresets(algo)
		if len(names) == 0 {
			t.Errorf("expected presets for %s", algo)
		}
		if GetPreset(algo, "classic") == nil {
			t.Errorf("%s has no classic preset", algo)
		}
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent algorithm")
	}
}

func TestPresetsValid(t *testing.T) {
	for algo, byName := range Presets {
		for name, cfg := range byName {
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", algo, name, err)
			}
			if cfg.Algorithm != algo {
				t.Errorf("%s/%s: algorithm %s", algo, name, cfg.Algorithm)
			}
		}
	}
}

package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAlgorithm = "bubble"
	DefaultSpeed     = 5
	DefaultSize      = 10
	DefaultMaxLen    = 20
	DefaultTheme     = "classic"

	minSize     = 5
	maxSpeed    = 100
	maxLenLimit = 100
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Algorithm string    `yaml:"algorithm"`
	Speed     int       `yaml:"speed"`
	StepMode  bool      `yaml:"step_mode"`
	Size      int       `yaml:"size"`
	MaxLen    int       `yaml:"max_len"`
	Values    []float64 `yaml:"values,omitempty"`
	Target    *float64  `yaml:"target,omitempty"`
	Seed      int64     `yaml:"seed"`
	Theme     string    `yaml:"theme"`
}

func DefaultConfig() *Config {
	return &Config{
		Algorithm: DefaultAlgorithm,
		Speed:     DefaultSpeed,
		Size:      DefaultSize,
		MaxLen:    DefaultMaxLen,
		Theme:     DefaultTheme,
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
	if err := cfg.Validate(); err != nil {
		return nil, err
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

// Validate checks ranges. Values longer than MaxLen are allowed; the
// visualizer truncates them with a notice.
func (c *Config) Validate() error {
	if c.Algorithm == "" {
		return fmt.Errorf("%w: algorithm is empty", ErrInvalid)
	}
	if c.Speed < 1 || c.Speed > maxSpeed {
		return fmt.Errorf("%w: speed %d outside [1,%d]", ErrInvalid, c.Speed, maxSpeed)
	}
	if c.MaxLen < minSize || c.MaxLen > maxLenLimit {
		return fmt.Errorf("%w: max_len %d outside [%d,%d]", ErrInvalid, c.MaxLen, minSize, maxLenLimit)
	}
	if c.Size < minSize || c.Size > c.MaxLen {
		return fmt.Errorf("%w: size %d outside [%d,%d]", ErrInvalid, c.Size, minSize, c.MaxLen)
	}
	for i, v := range c.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: values[%d] is not finite", ErrInvalid, i)
		}
	}
	if c.Target != nil && (math.IsNaN(*c.Target) || math.IsInf(*c.Target, 0)) {
		return fmt.Errorf("%w: target is not finite", ErrInvalid)
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.Values != nil {
		out.Values = append([]float64(nil), c.Values...)
	}
	if c.Target != nil {
		t := *c.Target
		out.Target = &t
	}
	return &out
}

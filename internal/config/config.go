package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/popsim/internal/growth"
)

const (
	DefaultPopulationA = 80000
	DefaultRateA       = 3.0
	DefaultPopulationB = 200000
	DefaultRateB       = 1.5
	DefaultMaxYears    = growth.DefaultMaxYears
	DefaultLabelA      = "Country A"
	DefaultLabelB      = "Country B"
)

type Config struct {
	PopulationA float64 `yaml:"population_a"`
	RateA       float64 `yaml:"rate_a"`
	PopulationB float64 `yaml:"population_b"`
	RateB       float64 `yaml:"rate_b"`
	MaxYears    int     `yaml:"max_years"`
	Labels      Labels  `yaml:"labels"`
}

// Labels are display names for the two populations.
type Labels struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
}

func DefaultConfig() *Config {
	return &Config{
		PopulationA: DefaultPopulationA,
		RateA:       DefaultRateA,
		PopulationB: DefaultPopulationB,
		RateB:       DefaultRateB,
		MaxYears:    DefaultMaxYears,
		Labels:      Labels{A: DefaultLabelA, B: DefaultLabelB},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver unmarshals the file on top of a copy of base; keys absent from the
// file keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
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

func (c *Config) Input() growth.Input {
	return growth.Input{
		PopulationA: c.PopulationA,
		RateA:       c.RateA,
		PopulationB: c.PopulationB,
		RateB:       c.RateB,
		MaxYears:    c.MaxYears,
	}
}

// Clone returns an independent copy, so presets are never mutated by callers.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

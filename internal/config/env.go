package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EnvPopulationA = "POPSIM_POPULATION_A"
	EnvRateA       = "POPSIM_RATE_A"
	EnvPopulationB = "POPSIM_POPULATION_B"
	EnvRateB       = "POPSIM_RATE_B"
	EnvMaxYears    = "POPSIM_MAX_YEARS"
	EnvLabelA      = "POPSIM_LABEL_A"
	EnvLabelB      = "POPSIM_LABEL_B"
)

// LoadEnv loads dotenv files into the process environment without
// overriding variables that are already set. With no arguments it reads
// ./.env and ignores its absence; named files must exist.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env files %v: %w", files, err)
	}
	return nil
}

// ApplyEnv overrides cfg fields from POPSIM_* variables found through lookup.
// A nil lookup uses os.LookupEnv.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{EnvPopulationA, &cfg.PopulationA},
		{EnvRateA, &cfg.RateA},
		{EnvPopulationB, &cfg.PopulationB},
		{EnvRateB, &cfg.RateB},
	}
	for _, f := range floats {
		raw, ok := lookup(f.key)
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = v
	}

	if raw, ok := lookup(EnvMaxYears); ok && raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxYears, err)
		}
		cfg.MaxYears = v
	}
	if raw, ok := lookup(EnvLabelA); ok && raw != "" {
		cfg.Labels.A = raw
	}
	if raw, ok := lookup(EnvLabelB); ok && raw != "" {
		cfg.Labels.B = raw
	}
	return nil
}

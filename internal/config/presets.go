package config

import "sort"

var Presets = map[string]*Config{
	"statement": DefaultConfig(),
	"stagnant": {
		PopulationA: 100, RateA: 0, PopulationB: 200, RateB: 0, MaxYears: DefaultMaxYears,
		Labels: Labels{A: DefaultLabelA, B: DefaultLabelB},
	},
	"ahead": {
		PopulationA: 200, RateA: 5, PopulationB: 100, RateB: 5, MaxYears: DefaultMaxYears,
		Labels: Labels{A: DefaultLabelA, B: DefaultLabelB},
	},
	"close-race": {
		PopulationA: 1000, RateA: 10, PopulationB: 1100, RateB: 5, MaxYears: DefaultMaxYears,
		Labels: Labels{A: DefaultLabelA, B: DefaultLabelB},
	},
	"slow-catchup": {
		PopulationA: 5000000, RateA: 1.2, PopulationB: 9000000, RateB: 0.9, MaxYears: DefaultMaxYears,
		Labels: Labels{A: DefaultLabelA, B: DefaultLabelB},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package config

import "sort"

func target(v float64) *float64 { return &v }

var (
	classicShort  = []float64{12, 4, 8, 20, 1, 15, 7, 3, 10}
	classicLong   = []float64{12, 4, 8, 20, 1, 15, 7, 3, 10, 2, 18, 9, 11, 6, 5}
	classicSorted = []float64{1, 3, 4, 7, 8, 10, 12, 15, 20}
)

func preset(algorithm string, values []float64, t *float64) *Config {
	cfg := DefaultConfig()
	cfg.Algorithm = algorithm
	cfg.Values = values
	cfg.Target = t
	return cfg
}

var Presets = map[string]map[string]*Config{
	"bubble": {
		"classic":  preset("bubble", classicShort, nil),
		"reversed": preset("bubble", []float64{9, 8, 7, 6, 5, 4, 3, 2, 1}, nil),
		"nearly":   preset("bubble", []float64{1, 2, 3, 5, 4, 6, 7, 9, 8}, nil),
	},
	"quick": {
		"classic":    preset("quick", classicLong, nil),
		"sorted":     preset("quick", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, nil),
		"duplicates": preset("quick", []float64{5, 3, 5, 1, 3, 5, 1, 3, 5, 1}, nil),
	},
	"merge": {
		"classic":  preset("merge", classicLong, nil),
		"reversed": preset("merge", []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, nil),
	},
	"linear": {
		"classic": preset("linear", classicShort, target(7)),
		"missing": preset("linear", classicShort, target(99)),
	},
	"binary": {
		"classic": preset("binary", classicSorted, target(7)),
		"missing": preset("binary", classicSorted, target(11)),
		"edge":    preset("binary", classicSorted, target(20)),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(algorithm, name string) *Config {
	byName, ok := Presets[algorithm]
	if !ok {
		return nil
	}
	cfg, ok := byName[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(algorithm string) []string {
	byName, ok := Presets[algorithm]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package config

import "sort"

// Presets reproduce the three classic comparisons: forward Euler spiralling
// out, backward Euler spiralling in, symplectic Euler staying on a loop.
var Presets = map[string]*Config{
	"instability": {
		Method: "forward_euler", Dt: 0.3, Duration: 6.0, KOverM: 1.0,
		InitState: InitStateConfig{Q: 2.0, V: 0.0},
	},
	"damping": {
		Method: "backward_euler", Dt: 0.25, Duration: 8.0, KOverM: 1.0,
		InitState: InitStateConfig{Q: 2.0, V: 0.0},
	},
	"stable": {
		Method: "symplectic_euler", Dt: 0.2, Duration: 12.0, KOverM: 1.0,
		InitState: InitStateConfig{Q: 2.0, V: 0.0},
	},
}

// GetPreset returns a copy of the named preset with defaults filled in, or
// nil if no such preset exists.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	def := DefaultConfig()
	cfg.DataDir = def.DataDir
	cfg.LogLevel = def.LogLevel
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package config

import "sort"

var Presets = map[string]*Config{
	"reference": DefaultConfig(),
	"coarse": {
		Diffusivity: 100, Length: 50, Duration: 1.5, Nodes: 5,
		Interior: 20, Boundary: 100, SafetyFactor: 0.3,
		Render: RenderConfig{FPS: 4, Scale: 48, MinT: 0, MaxT: 100},
	},
	"fine": {
		Diffusivity: 100, Length: 50, Duration: 4, Nodes: 80,
		Interior: 20, Boundary: 100, SafetyFactor: 0.2,
		Render: RenderConfig{FPS: 60, Scale: 4, MinT: 0, MaxT: 100},
	},
	"stable": {
		Diffusivity: 100, Length: 50, Duration: 4, Nodes: 40,
		Interior: 20, Boundary: 100, SafetyFactor: 0.2,
		Render: RenderConfig{FPS: 30, Scale: 8, MinT: 0, MaxT: 100},
	},
	"isothermal": {
		Diffusivity: 100, Length: 50, Duration: 1, Nodes: 20,
		Interior: 100, Boundary: 100, SafetyFactor: 0.2,
		Render: RenderConfig{FPS: 30, Scale: 16, MinT: 0, MaxT: 100},
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

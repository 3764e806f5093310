package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/heatsim/internal/heat"
)

const (
	DefaultFPS   = 30
	DefaultScale = 8
	DefaultMinT  = 0.0
	DefaultMaxT  = 100.0
)

type Config struct {
	Diffusivity  float64      `yaml:"diffusivity"`
	Length       float64      `yaml:"length"`
	Duration     float64      `yaml:"duration"`
	Nodes        int          `yaml:"nodes"`
	Interior     float64      `yaml:"interior"`
	Boundary     float64      `yaml:"boundary"`
	SafetyFactor float64      `yaml:"safety_factor"`
	Render       RenderConfig `yaml:"render"`
}

// RenderConfig controls the colour scale and frame output of the
// visualisation commands.
type RenderConfig struct {
	FPS   int     `yaml:"fps"`
	Scale int     `yaml:"scale"`
	MinT  float64 `yaml:"min_t"`
	MaxT  float64 `yaml:"max_t"`
}

func DefaultConfig() *Config {
	return &Config{
		Diffusivity:  heat.DefaultDiffusivity,
		Length:       heat.DefaultLength,
		Duration:     heat.DefaultDuration,
		Nodes:        heat.DefaultNodes,
		Interior:     heat.DefaultInterior,
		Boundary:     heat.DefaultBoundary,
		SafetyFactor: heat.DefaultSafetyFactor,
		Render: RenderConfig{
			FPS:   DefaultFPS,
			Scale: DefaultScale,
			MinT:  DefaultMinT,
			MaxT:  DefaultMaxT,
		},
	}
}

// Load reads a YAML (.yaml, .yml) or INI (.ini) file. Keys missing from the
// file keep their default values.
func Load(path string) (*Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAML(path)
	case ".ini":
		return loadINI(path)
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

func loadYAML(path string) (*Config, error) {
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

func loadINI(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	d := DefaultConfig()
	sim := file.Section("simulation")
	render := file.Section("render")
	return &Config{
		Diffusivity:  sim.Key("diffusivity").MustFloat64(d.Diffusivity),
		Length:       sim.Key("length").MustFloat64(d.Length),
		Duration:     sim.Key("duration").MustFloat64(d.Duration),
		Nodes:        sim.Key("nodes").MustInt(d.Nodes),
		Interior:     sim.Key("interior").MustFloat64(d.Interior),
		Boundary:     sim.Key("boundary").MustFloat64(d.Boundary),
		SafetyFactor: sim.Key("safety_factor").MustFloat64(d.SafetyFactor),
		Render: RenderConfig{
			FPS:   render.Key("fps").MustInt(d.Render.FPS),
			Scale: render.Key("scale").MustInt(d.Render.Scale),
			MinT:  render.Key("min_t").MustFloat64(d.Render.MinT),
			MaxT:  render.Key("max_t").MustFloat64(d.Render.MaxT),
		},
	}, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Heat returns the simulation parameters.
func (c *Config) Heat() heat.Config {
	return heat.Config{
		Diffusivity:  c.Diffusivity,
		Length:       c.Length,
		Duration:     c.Duration,
		Nodes:        c.Nodes,
		Interior:     c.Interior,
		Boundary:     c.Boundary,
		SafetyFactor: c.SafetyFactor,
	}
}

// Clone returns a copy that can be modified without touching c.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

package heat

import "math"

// Reference parameters.
const (
	DefaultDiffusivity  = 100.0
	DefaultLength       = 50.0
	DefaultDuration     = 4.0
	DefaultNodes        = 40
	DefaultInterior     = 20.0
	DefaultBoundary     = 100.0
	DefaultSafetyFactor = 0.3
)

// Config holds the physical and numerical parameters of a run.
type Config struct {
	Diffusivity  float64 `json:"diffusivity"`   // thermal diffusivity a
	Length       float64 `json:"length"`        // plate side length L
	Duration     float64 `json:"duration"`      // simulated time T
	Nodes        int     `json:"nodes"`         // nodes per dimension N
	Interior     float64 `json:"interior"`      // initial interior temperature
	Boundary     float64 `json:"boundary"`      // fixed border temperature
	SafetyFactor float64 `json:"safety_factor"` // dt = SafetyFactor*dx*dy/a
}

func DefaultConfig() Config {
	return Config{
		Diffusivity:  DefaultDiffusivity,
		Length:       DefaultLength,
		Duration:     DefaultDuration,
		Nodes:        DefaultNodes,
		Interior:     DefaultInterior,
		Boundary:     DefaultBoundary,
		SafetyFactor: DefaultSafetyFactor,
	}
}

// Validate checks parameters before the grid size, so a config that is
// wrong in both ways reports the parameter first.
func (c Config) Validate() error {
	params := []struct {
		name  string
		value float64
	}{
		{"diffusivity", c.Diffusivity},
		{"length", c.Length},
		{"duration", c.Duration},
		{"safety factor", c.SafetyFactor},
	}
	for _, p := range params {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return &InvalidParameterError{Name: p.name, Value: p.value}
		}
	}
	if c.Nodes < MinNodes {
		return &InvalidSizeError{N: c.Nodes}
	}
	return nil
}

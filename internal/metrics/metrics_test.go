package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/heatsim/internal/heat"
)

func coarse(t *testing.T, safety float64) *heat.Simulation {
	t.Helper()
	cfg := heat.DefaultConfig()
	cfg.Nodes, cfg.Diffusivity, cfg.Length, cfg.Duration = 5, 100, 50, 1.5
	cfg.SafetyFactor = safety
	sim, err := heat.New(cfg)
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	return sim
}

func TestMeanTemperature(t *testing.T) {
	sim := coarse(t, 0.3)
	m := NewMeanTemperature()

	if m.Value() != 0 {
		t.Error("expected zero before any observation")
	}

	m.Observe(0, 0, sim.Step(sim.Initial()))
	// 4 nodes at 68, 4 at 44 and the centre at 20.
	expected := (4*68.0 + 4*44.0 + 20.0) / 9
	if math.Abs(m.Value()-expected) > 1e-9 {
		t.Errorf("expected mean %f, got %f", expected, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestConvergence(t *testing.T) {
	sim := coarse(t, 0.3)
	c := NewConvergence(sim.Initial())

	first := sim.Step(sim.Initial())
	c.Observe(0, 0, first)
	if math.Abs(c.Value()-48) > 1e-9 {
		t.Errorf("expected first change 48, got %f", c.Value())
	}

	c.Observe(1, sim.Dt(), first)
	if c.Value() != 0 {
		t.Errorf("expected zero change for a repeated field, got %f", c.Value())
	}

	c.Reset()
	c.Observe(0, 0, first)
	if math.Abs(c.Value()-48) > 1e-9 {
		t.Errorf("expected reset to restore the initial field, got %f", c.Value())
	}
}

func TestStability(t *testing.T) {
	tests := []struct {
		name   string
		safety float64
		stable bool
	}{
		{"stable factor", 0.2, true},
		{"reference factor", 0.3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := heat.DefaultConfig()
			cfg.SafetyFactor = tt.safety
			sim, err := heat.New(cfg)
			if err != nil {
				t.Fatalf("new simulation: %v", err)
			}
			s := NewStability(cfg.Interior, cfg.Boundary)
			sim.Run(s.Observe)
			if got := s.Value() == 1.0; got != tt.stable {
				t.Errorf("stability = %f, want stable=%v", s.Value(), tt.stable)
			}
		})
	}
}

func TestStabilityNaN(t *testing.T) {
	f, _ := heat.NewField(3, math.NaN(), 0)
	s := NewStability(0, 100)
	s.Observe(0, 0, f)
	if s.Value() != 0 {
		t.Errorf("expected NaN field to count as a violation, got %f", s.Value())
	}
	s.Reset()
	if s.Value() != 1 {
		t.Error("expected 1 after reset")
	}
}

func TestProbe(t *testing.T) {
	sim := coarse(t, 0.3)
	p := NewCentreProbe(5)
	sim.Run(p.Observe)

	if len(p.Values()) != sim.Steps() || len(p.Times()) != sim.Steps() {
		t.Fatalf("expected %d samples, got %d", sim.Steps(), len(p.Values()))
	}
	if p.Values()[0] != 20 {
		t.Errorf("expected centre 20 after first step, got %f", p.Values()[0])
	}
	if math.Abs(p.Values()[1]-48.8) > 1e-9 {
		t.Errorf("expected centre 48.8 after second step, got %f", p.Values()[1])
	}
	if p.Times()[1] != sim.Dt() {
		t.Errorf("expected second sample at dt, got %f", p.Times()[1])
	}
}

func TestSet(t *testing.T) {
	sim := coarse(t, 0.2)
	set := NewSet(Default(sim)...)
	probe := NewCentreProbe(5)
	set.Add(probe)

	sim.Run(set.OnStep)

	values := set.Values()
	for _, name := range []string{"mean_temperature", "max_change", "stability", "centre_temperature"} {
		if _, ok := values[name]; !ok {
			t.Errorf("metric %s not found", name)
		}
	}
	if values["stability"] != 1 {
		t.Errorf("expected stable run, got %f", values["stability"])
	}

	set.Reset()
	if len(probe.Values()) != 0 {
		t.Error("expected reset to clear the probe")
	}
}

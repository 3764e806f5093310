package metrics

import "github.com/san-kum/heatsim/internal/heat"

// Metric observes the field after every step.
type Metric interface {
	Name() string
	Observe(step int, t float64, f *heat.Field)
	Value() float64
	Reset()
}

// Set fans each step out to a group of metrics. Its OnStep method has the
// heat.StepFunc signature.
type Set struct {
	metrics []Metric
}

func NewSet(ms ...Metric) *Set {
	return &Set{metrics: ms}
}

func (s *Set) Add(m Metric) { s.metrics = append(s.metrics, m) }

// Metrics returns the metrics in the order they were added.
func (s *Set) Metrics() []Metric { return s.metrics }

func (s *Set) OnStep(step int, t float64, f *heat.Field) {
	for _, m := range s.metrics {
		m.Observe(step, t, f)
	}
}

// Values returns the current value of every metric keyed by name.
func (s *Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s *Set) Reset() {
	for _, m := range s.metrics {
		m.Reset()
	}
}

// Default returns the metrics reported by `heatsim run`.
func Default(sim *heat.Simulation) []Metric {
	cfg := sim.Config()
	lo, hi := cfg.Interior, cfg.Boundary
	if lo > hi {
		lo, hi = hi, lo
	}
	return []Metric{
		NewMeanTemperature(),
		NewConvergence(sim.Initial()),
		NewStability(lo, hi),
	}
}

func interior(f *heat.Field) []float64 {
	n := f.N()
	out := make([]float64, 0, (n-2)*(n-2))
	for i := 1; i < n-1; i++ {
		row := f.Row(i)
		out = append(out, row[1:n-1]...)
	}
	return out
}

package metrics

import "github.com/san-kum/heatsim/internal/heat"

// Probe records the temperature history of one node.
type Probe struct {
	name   string
	i, j   int
	times  []float64
	values []float64
}

func NewProbe(name string, i, j int) *Probe {
	return &Probe{name: name, i: i, j: j}
}

// NewCentreProbe probes the middle node of an n×n grid.
func NewCentreProbe(n int) *Probe {
	return NewProbe("centre_temperature", n/2, n/2)
}

func (p *Probe) Name() string { return p.name }

func (p *Probe) Observe(step int, t float64, f *heat.Field) {
	p.times = append(p.times, t)
	p.values = append(p.values, f.At(p.i, p.j))
}

// Value returns the most recent sample.
func (p *Probe) Value() float64 {
	if len(p.values) == 0 {
		return 0
	}
	return p.values[len(p.values)-1]
}

func (p *Probe) Times() []float64  { return p.times }
func (p *Probe) Values() []float64 { return p.values }

func (p *Probe) Reset() {
	p.times = nil
	p.values = nil
}

package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/heatsim/internal/heat"
)

// Convergence tracks the largest per-node change between consecutive
// fields. It approaches zero as the plate reaches steady state.
type Convergence struct {
	name    string
	initial *heat.Field
	prev    []float64
	change  float64
}

func NewConvergence(initial *heat.Field) *Convergence {
	c := &Convergence{name: "max_change", initial: initial}
	c.Reset()
	return c
}

func (c *Convergence) Name() string { return c.name }

func (c *Convergence) Observe(step int, t float64, f *heat.Field) {
	cur := f.Values()
	if len(c.prev) == len(cur) {
		c.change = floats.Distance(cur, c.prev, math.Inf(1))
	}
	c.prev = cur
}

func (c *Convergence) Value() float64 { return c.change }

func (c *Convergence) Reset() {
	c.change = 0
	c.prev = nil
	if c.initial != nil {
		c.prev = c.initial.Values()
	}
}

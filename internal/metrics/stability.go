package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/heatsim/internal/heat"
)

// Stability is the fraction of observed steps whose values stay within
// [lo, hi]. Diffusion without sources never leaves the range spanned by
// the initial and boundary temperatures, so a value below 1 means the
// time step is too large.
type Stability struct {
	name       string
	lo, hi     float64
	tolerance  float64
	violations int
	samples    int
}

func NewStability(lo, hi float64) *Stability {
	return &Stability{
		name:      "stability",
		lo:        lo,
		hi:        hi,
		tolerance: 1e-9 * math.Max(1, math.Max(math.Abs(lo), math.Abs(hi))),
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(step int, t float64, f *heat.Field) {
	s.samples++
	v := f.Values()
	if floats.HasNaN(v) {
		s.violations++
		return
	}
	if floats.Min(v) < s.lo-s.tolerance || floats.Max(v) > s.hi+s.tolerance {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

package metrics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/heatsim/internal/heat"
)

// MeanTemperature is the mean over interior nodes of the last observed field.
type MeanTemperature struct {
	name    string
	mean    float64
	samples int
}

func NewMeanTemperature() *MeanTemperature {
	return &MeanTemperature{name: "mean_temperature"}
}

func (m *MeanTemperature) Name() string { return m.name }

func (m *MeanTemperature) Observe(step int, t float64, f *heat.Field) {
	v := interior(f)
	m.mean = floats.Sum(v) / float64(len(v))
	m.samples++
}

func (m *MeanTemperature) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.mean
}

func (m *MeanTemperature) Reset() {
	m.mean = 0
	m.samples = 0
}

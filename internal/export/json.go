package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/heatsim/internal/heat"
)

// RunData is the JSON document written by `heatsim export --format json`.
type RunData struct {
	Config  heat.Config        `json:"config"`
	Dx      float64            `json:"dx"`
	Dt      float64            `json:"dt"`
	Steps   int                `json:"steps"`
	Stable  bool               `json:"stable"`
	Times   []float64          `json:"times"`
	Centre  []float64          `json:"centre"`
	Final   [][]float64        `json:"final"`
	Metrics map[string]float64 `json:"metrics"`
}

// NewRunData collects the summary of a finished run. final may be nil.
func NewRunData(sim *heat.Simulation, times, centre []float64, final *heat.Field, metrics map[string]float64) RunData {
	data := RunData{
		Config:  sim.Config(),
		Dx:      sim.Dx(),
		Dt:      sim.Dt(),
		Steps:   sim.Steps(),
		Stable:  sim.Stable(),
		Times:   times,
		Centre:  centre,
		Metrics: metrics,
	}
	if final != nil {
		data.Final = make([][]float64, final.N())
		for i := range data.Final {
			data.Final[i] = final.Row(i)
		}
	}
	return data
}

func WriteJSON(w io.Writer, data RunData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

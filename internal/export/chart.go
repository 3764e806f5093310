package export

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
)

// HistoryChart writes a PNG line chart of values over times.
func HistoryChart(w io.Writer, times, values []float64, title string) error {
	if len(times) < 2 {
		return fmt.Errorf("history chart needs at least 2 samples, got %d", len(times))
	}
	if len(times) != len(values) {
		return fmt.Errorf("history chart: %d times but %d values", len(times), len(values))
	}

	graph := chart.Chart{
		Title:  title,
		Width:  640,
		Height: 360,
		XAxis: chart.XAxis{
			Name:  "t [s]",
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.2f", v.(float64))
			},
		},
		YAxis: chart.YAxis{
			Name:  "T",
			Style: chart.Style{FontSize: 10.0},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    title,
				XValues: times,
				YValues: values,
				Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 3.0},
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

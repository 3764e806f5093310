package export

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/heatsim/internal/heat"
	"github.com/san-kum/heatsim/internal/viz"
)

// FieldToSVG draws one square of side cell per node, coloured on the jet
// scale over [lo, hi]. Row 0 is at the top.
func FieldToSVG(f *heat.Field, cell, lo, hi float64) string {
	if f == nil {
		return ""
	}
	if cell <= 0 {
		cell = 1
	}

	n := f.N()
	size := float64(n) * cell

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" shape-rendering="crispEdges">
`, size, size, size, size))

	for i := 0; i < n; i++ {
		row := f.Row(i)
		for j, v := range row {
			c := viz.Jet(v, lo, hi)
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#%02x%02x%02x"/>
`, float64(j)*cell, float64(i)*cell, cell, cell, c.R, c.G, c.B))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// HistoryToSVG plots a temperature history on a temperature axis spanning
// [lo, hi], widened to fit the samples. Each segment is stroked in the jet
// colour of its mean temperature, and the axis carries labelled grid lines
// at lo, the midpoint and hi.
func HistoryToSVG(times, values []float64, width, height int, lo, hi float64) string {
	if len(times) < 2 || len(times) != len(values) {
		return ""
	}

	const margin = 40.0
	yMin := math.Min(lo, floats.Min(values))
	yMax := math.Max(hi, floats.Max(values))
	if yMax == yMin {
		yMax = yMin + 1
	}
	t0, t1 := times[0], times[len(times)-1]
	if t1 == t0 {
		t1 = t0 + 1
	}

	plotW := float64(width) - 2*margin
	plotH := float64(height) - 2*margin
	px := func(t float64) float64 { return margin + (t-t0)/(t1-t0)*plotW }
	py := func(v float64) float64 { return margin + (yMax-v)/(yMax-yMin)*plotH }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="monospace" font-size="10">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, width, height, width, height))

	for _, v := range []float64{yMin, (yMin + yMax) / 2, yMax} {
		y := py(v)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#cccccc"/>
<text x="%.1f" y="%.1f" text-anchor="end">%.1f</text>
`, margin, y, margin+plotW, y, margin-4, y+3, v))
	}
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="end">t: %.3f [s]</text>
`, margin+plotW, float64(height)-margin/2, t1))

	sb.WriteString(`<g stroke-width="2" stroke-linecap="round">
`)
	for i := 1; i < len(times); i++ {
		c := viz.Jet((values[i-1]+values[i])/2, lo, hi)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#%02x%02x%02x"/>
`, px(times[i-1]), py(values[i-1]), px(times[i]), py(values[i]), c.R, c.G, c.B))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

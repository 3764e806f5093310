package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/heatsim/internal/heat"
)

const halfBlock = "▀"

// Heatmap renders f with one character per column and two rows per line:
// the upper half block takes row i as foreground and row i+1 as background.
func Heatmap(f *heat.Field, lo, hi float64) string {
	n := f.N()
	var sb strings.Builder
	for i := 0; i < n; i += 2 {
		top := f.Row(i)
		var bottom []float64
		if i+1 < n {
			bottom = f.Row(i + 1)
		}
		for j := 0; j < n; j++ {
			style := lipgloss.NewStyle().Foreground(lipglossColor(Jet(top[j], lo, hi)))
			if bottom != nil {
				style = style.Background(lipglossColor(Jet(bottom[j], lo, hi)))
			}
			sb.WriteString(style.Render(halfBlock))
		}
		if i+2 < n {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Colorbar renders the colour scale as a labelled strip of width cells.
func Colorbar(lo, hi float64, width int) string {
	if width < 2 {
		width = 2
	}
	var sb strings.Builder
	sb.WriteString(Subtle.Render(fmt.Sprintf("%6.1f ", lo)))
	for k := 0; k < width; k++ {
		v := lo + (hi-lo)*float64(k)/float64(width-1)
		sb.WriteString(lipgloss.NewStyle().Foreground(lipglossColor(Jet(v, lo, hi))).Render("█"))
	}
	sb.WriteString(Subtle.Render(fmt.Sprintf(" %.1f", hi)))
	return sb.String()
}

// Title is the frame caption shared by every renderer.
func Title(elapsed float64) string {
	return fmt.Sprintf("Distribution at t: %.3f [s]", elapsed)
}

package viz

import (
	"image/color"
	"math"
)

type anchor struct{ x, y float64 }

// Control points of matplotlib's "jet" map.
var (
	jetRed   = []anchor{{0, 0}, {0.35, 0}, {0.66, 1}, {0.89, 1}, {1, 0.5}}
	jetGreen = []anchor{{0, 0}, {0.125, 0}, {0.375, 1}, {0.64, 1}, {0.91, 0}, {1, 0}}
	jetBlue  = []anchor{{0, 0.5}, {0.11, 1}, {0.34, 1}, {0.65, 0}, {1, 0}}
)

// Jet maps v onto the jet colour scale spanning [lo, hi]. Values outside
// the range are clamped; NaN maps to lo.
func Jet(v, lo, hi float64) color.RGBA {
	x := 0.0
	if hi > lo {
		x = (v - lo) / (hi - lo)
	}
	if !(x > 0) {
		x = 0
	}
	if x > 1 {
		x = 1
	}
	return color.RGBA{
		R: channel(jetRed, x),
		G: channel(jetGreen, x),
		B: channel(jetBlue, x),
		A: 255,
	}
}

func channel(anchors []anchor, x float64) uint8 {
	for k := 1; k < len(anchors); k++ {
		a, b := anchors[k-1], anchors[k]
		if x <= b.x {
			y := a.y + (x-a.x)/(b.x-a.x)*(b.y-a.y)
			return uint8(math.Round(y * 255))
		}
	}
	return uint8(math.Round(anchors[len(anchors)-1].y * 255))
}

package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/heatsim/internal/heat"
	"github.com/san-kum/heatsim/internal/viz"
)

// TitleHeight is the height in pixels of the caption strip above the field.
const TitleHeight = 20

// FieldToImage renders f with scale×scale pixels per node. A non-empty
// title is drawn in a strip of TitleHeight pixels above the field.
func FieldToImage(f *heat.Field, scale int, lo, hi float64, title string) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	n := f.N()
	top := 0
	if title != "" {
		top = TitleHeight
	}

	img := image.NewRGBA(image.Rect(0, 0, n*scale, n*scale+top))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	for i := 0; i < n; i++ {
		row := f.Row(i)
		for j, v := range row {
			cell := image.Rect(j*scale, top+i*scale, (j+1)*scale, top+(i+1)*scale)
			draw.Draw(img, cell, &image.Uniform{viz.Jet(v, lo, hi)}, image.Point{}, draw.Src)
		}
	}

	if title != "" {
		addLabel(img, 4, TitleHeight-5, title, color.Black)
	}
	return img
}

func addLabel(img *image.RGBA, x, y int, label string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(label)
}

// WritePNG encodes img to a new file at path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

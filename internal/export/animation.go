package export

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/icza/mjpeg"

	"github.com/san-kum/heatsim/internal/heat"
	"github.com/san-kum/heatsim/internal/viz"
)

// AnimationOptions controls how frames are recorded.
type AnimationOptions struct {
	FPS     int
	Scale   int
	Stride  int
	Quality int
	Lo, Hi  float64
}

func (o *AnimationOptions) defaults() {
	if o.FPS <= 0 {
		o.FPS = 30
	}
	if o.Scale <= 0 {
		o.Scale = 8
	}
	if o.Stride <= 0 {
		o.Stride = 1
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = 90
	}
}

// Animation records fields of size n into an MJPEG AVI file. Its OnStep
// method is a heat.StepFunc. The first write error is kept and every
// later frame is dropped; Close reports it.
type Animation struct {
	w      mjpeg.AviWriter
	n      int
	opts   AnimationOptions
	buf    bytes.Buffer
	frames int
	err    error
}

// NewAnimation creates the output file at path for fields with n nodes per
// side.
func NewAnimation(path string, n int, opts AnimationOptions) (*Animation, error) {
	opts.defaults()
	side := int32(n * opts.Scale)
	w, err := mjpeg.New(path, side, side+TitleHeight, int32(opts.FPS))
	if err != nil {
		return nil, fmt.Errorf("create animation: %w", err)
	}
	return &Animation{w: w, n: n, opts: opts}, nil
}

func (a *Animation) OnStep(step int, elapsed float64, f *heat.Field) {
	if a.err != nil || step%a.opts.Stride != 0 {
		return
	}
	a.err = a.AddFrame(f, viz.Title(elapsed))
}

// AddFrame encodes f as the next frame.
func (a *Animation) AddFrame(f *heat.Field, title string) error {
	if f.N() != a.n {
		return fmt.Errorf("frame has %d nodes per side, animation expects %d", f.N(), a.n)
	}
	if title == "" {
		title = " "
	}
	img := FieldToImage(f, a.opts.Scale, a.opts.Lo, a.opts.Hi, title)

	a.buf.Reset()
	if err := jpeg.Encode(&a.buf, img, &jpeg.Options{Quality: a.opts.Quality}); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	if err := a.w.AddFrame(a.buf.Bytes()); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	a.frames++
	return nil
}

// Frames returns the number of frames written.
func (a *Animation) Frames() int { return a.frames }

// Close finalizes the file and returns the first error seen while
// recording.
func (a *Animation) Close() error {
	cerr := a.w.Close()
	if a.err != nil {
		return a.err
	}
	if cerr != nil {
		return fmt.Errorf("close animation: %w", cerr)
	}
	return nil
}

package renderer

import (
	"image"
	"time"

	"github.com/phoekz/raydiance-sub000/pkg/core"
	"github.com/phoekz/raydiance-sub000/pkg/geometry"
)

// Output is a snapshot of the image after a completed sample pass
type Output struct {
	Image       []core.Vec3 // Row-major, normalized, exposed and optionally tonemapped
	Width       int
	Height      int
	SampleIndex int // Sample passes accumulated so far
	SampleCount int // Sample passes targeted for the current input
	Stats       geometry.HitStats
	Elapsed     time.Duration // Time since the current input was accepted
}

// Done reports whether this is the final output for its input
func (o *Output) Done() bool {
	return o.SampleIndex >= o.SampleCount
}

// RGBA converts the image to 8-bit sRGB
func (o *Output) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, o.Width, o.Height))
	for y := 0; y < o.Height; y++ {
		for x := 0; x < o.Width; x++ {
			img.SetRGBA(x, y, core.ToRGBA(o.Image[y*o.Width+x]))
		}
	}
	return img
}

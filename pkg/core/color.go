package core

import (
	"image/color"
	"math"
)

var (
	Black = Vec3{0, 0, 0}
	White = Vec3{1, 1, 1}
)

// Exposure scales radiance by 1/2^stops before display
type Exposure struct {
	Stops float64
}

// DefaultExposure returns the default exposure of 4 stops
func DefaultExposure() Exposure {
	return Exposure{Stops: 4.0}
}

// Expose applies the exposure to a linear color
func (e Exposure) Expose(c Vec3) Vec3 {
	return c.Multiply(1.0 / math.Pow(2.0, e.Stops))
}

// Tonemap applies the ACES filmic curve (Narkowicz fit) to each channel
func Tonemap(c Vec3) Vec3 {
	return Vec3{aces(c.X), aces(c.Y), aces(c.Z)}
}

func aces(x float64) float64 {
	const (
		a = 2.51
		b = 0.03
		c = 2.43
		d = 0.59
		e = 0.14
	)
	return max(0, min(1, (x*(a*x+b))/(x*(c*x+d)+e)))
}

// LinearToSRGB encodes a linear channel value with the sRGB transfer function
func LinearToSRGB(x float64) float64 {
	x = max(0, min(1, x))
	if x <= 0.0031308 {
		return 12.92 * x
	}
	return 1.055*math.Pow(x, 1.0/2.4) - 0.055
}

// SRGBToLinear decodes an sRGB-encoded channel value
func SRGBToLinear(x float64) float64 {
	if x <= 0.04045 {
		return x / 12.92
	}
	return math.Pow((x+0.055)/1.055, 2.4)
}

// ToRGBA converts a linear color to 8-bit sRGB
func ToRGBA(c Vec3) color.RGBA {
	return color.RGBA{
		R: uint8(math.Round(255 * LinearToSRGB(c.X))),
		G: uint8(math.Round(255 * LinearToSRGB(c.Y))),
		B: uint8(math.Round(255 * LinearToSRGB(c.Z))),
		A: 255,
	}
}

package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"os"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/phoekz/raydiance-sub000/pkg/core"
	"github.com/phoekz/raydiance-sub000/pkg/scene"
)

// LoadTexture loads an image file as a four-channel texture. Color data is
// sRGB-decoded to linear; pass linear=true for data maps such as roughness.
func LoadTexture(filename string, linear bool) (scene.Texture, error) {
	file, err := os.Open(filename)
	if err != nil {
		return scene.Texture{}, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	texture, err := DecodeTexture(file, linear)
	if err != nil {
		return scene.Texture{}, fmt.Errorf("%s: %w", filename, err)
	}
	logger.Infof("loaded texture %s: %dx%d", filename, texture.Width, texture.Height)
	return texture, nil
}

// DecodeTexture decodes PNG, JPEG, BMP, TIFF or WebP data into a texture
func DecodeTexture(r io.Reader, linear bool) (scene.Texture, error) {
	// Auto-detects the format from the header
	img, _, err := image.Decode(r)
	if err != nil {
		return scene.Texture{}, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]float32, 0, 4*width*height)

	decode := core.SRGBToLinear
	if linear {
		decode = func(x float64) float64 { return x }
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// RGBA returns alpha-premultiplied uint32 in [0, 65535]
			r, g, b, a := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			alpha := float64(a) / 65535.0
			unpremultiply := func(c uint32) float64 {
				if a == 0 {
					return 0
				}
				return float64(c) / float64(a)
			}
			pixels = append(pixels,
				float32(decode(unpremultiply(r))),
				float32(decode(unpremultiply(g))),
				float32(decode(unpremultiply(b))),
				float32(alpha),
			)
		}
	}

	return scene.NewImageTexture(width, height, 4, pixels)
}

package cmd

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func TestWriteImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 2, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	decoders := map[string]func(f *os.File) (image.Image, error){
		"frame.png":  func(f *os.File) (image.Image, error) { return png.Decode(f) },
		"frame.PNG":  func(f *os.File) (image.Image, error) { return png.Decode(f) },
		"frame.tiff": func(f *os.File) (image.Image, error) { return tiff.Decode(f) },
		"frame.tif":  func(f *os.File) (image.Image, error) { return tiff.Decode(f) },
		"frame.bmp":  func(f *os.File) (image.Image, error) { return bmp.Decode(f) },
	}

	dir := t.TempDir()
	for name, decode := range decoders {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := writeImage(path, img); err != nil {
				t.Fatalf("writeImage failed: %v", err)
			}

			f, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			decoded, err := decode(f)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if decoded.Bounds() != img.Bounds() {
				t.Errorf("Expected bounds %v, got %v", img.Bounds(), decoded.Bounds())
			}
			r, g, b, _ := decoded.At(1, 2).RGBA()
			if r>>8 != 200 || g>>8 != 100 || b>>8 != 50 {
				t.Errorf("Expected (200, 100, 50), got (%d, %d, %d)", r>>8, g>>8, b>>8)
			}
		})
	}
}

func TestWriteImage_UnsupportedFormat(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	err := writeImage(filepath.Join(t.TempDir(), "frame.jpg"), img)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

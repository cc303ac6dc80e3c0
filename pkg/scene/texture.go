package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// TextureKind selects how a texture stores its value
type TextureKind uint8

const (
	TextureScalar TextureKind = iota
	TextureVector2
	TextureVector3
	TextureVector4
	TextureImage
)

func (k TextureKind) String() string {
	switch k {
	case TextureScalar:
		return "scalar"
	case TextureVector2:
		return "vector2"
	case TextureVector3:
		return "vector3"
	case TextureVector4:
		return "vector4"
	case TextureImage:
		return "image"
	}
	return fmt.Sprintf("TextureKind(%d)", uint8(k))
}

// Texture is either a constant value or a linear float image.
// Scalar textures keep their value in the first channel.
type Texture struct {
	Kind       TextureKind
	Value      mgl32.Vec4 // Constant kinds only
	Width      int        // Image only
	Height     int        // Image only
	Components int        // Image only, 1 to 4 channels per pixel
	Pixels     []float32  // Image only, row-major from the top-left corner
}

// NewScalarTexture creates a constant single-channel texture
func NewScalarTexture(v float32) Texture {
	return Texture{Kind: TextureScalar, Value: mgl32.Vec4{v, 0, 0, 0}}
}

// NewVector3Texture creates a constant color texture
func NewVector3Texture(v mgl32.Vec3) Texture {
	return Texture{Kind: TextureVector3, Value: v.Vec4(0)}
}

// NewVector4Texture creates a constant four-channel texture
func NewVector4Texture(v mgl32.Vec4) Texture {
	return Texture{Kind: TextureVector4, Value: v}
}

// NewImageTexture creates an image texture
func NewImageTexture(width, height, components int, pixels []float32) (Texture, error) {
	t := Texture{
		Kind:       TextureImage,
		Width:      width,
		Height:     height,
		Components: components,
		Pixels:     pixels,
	}
	if err := t.Validate(); err != nil {
		return Texture{}, err
	}
	return t, nil
}

// IsConstant reports whether the texture has the same value everywhere
func (t *Texture) IsConstant() bool {
	return t.Kind != TextureImage
}

// Validate checks the texture's shape and that every value lies in [0,1]
func (t *Texture) Validate() error {
	switch t.Kind {
	case TextureScalar, TextureVector2, TextureVector3, TextureVector4:
		for _, v := range t.Value {
			if !(v >= 0 && v <= 1) {
				return fmt.Errorf("%w: value %v outside [0,1]", ErrInvalidTexture, t.Value)
			}
		}
		return nil
	case TextureImage:
		if t.Width <= 0 || t.Height <= 0 {
			return fmt.Errorf("%w: image size %dx%d", ErrInvalidTexture, t.Width, t.Height)
		}
		if t.Components < 1 || t.Components > 4 {
			return fmt.Errorf("%w: %d components", ErrInvalidTexture, t.Components)
		}
		if len(t.Pixels) != t.Width*t.Height*t.Components {
			return fmt.Errorf("%w: expected %d values, got %d",
				ErrInvalidTexture, t.Width*t.Height*t.Components, len(t.Pixels))
		}
		for i, v := range t.Pixels {
			if !(v >= 0 && v <= 1) {
				return fmt.Errorf("%w: pixel value %v at %d outside [0,1]", ErrInvalidTexture, v, i)
			}
		}
		return nil
	}
	return fmt.Errorf("%w: unknown kind %v", ErrInvalidTexture, t.Kind)
}

// Sample returns the texture value at uv using nearest filtering.
// Coordinates outside [0,1] are clamped to the edge.
func (t *Texture) Sample(uv mgl32.Vec2) mgl32.Vec4 {
	if t.Kind != TextureImage {
		return t.Value
	}

	u := clamp01(uv[0])
	v := clamp01(uv[1])
	x := min(int(u*float32(t.Width)), t.Width-1)
	y := min(int(v*float32(t.Height)), t.Height-1)

	var out mgl32.Vec4
	offset := t.Components * (y*t.Width + x)
	copy(out[:t.Components], t.Pixels[offset:offset+t.Components])
	return out
}

func clamp01(x float32) float32 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

package scene

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func texturedScene(t *testing.T) *Scene {
	t.Helper()
	s := validScene()
	image, err := NewImageTexture(1, 1, 3, []float32{0.2, 0.4, 0.6})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	b := ExtendScene(s)
	b.SetBaseColorTexture(0, b.Texture(image))
	return s
}

func TestNewDynamicScene(t *testing.T) {
	s := texturedScene(t)
	d := NewDynamicScene(s)

	if d.IsZero() {
		t.Fatal("Expected a populated overlay")
	}
	if err := d.Validate(s); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d.Model(0) != ModelDiffuse {
		t.Errorf("Expected diffuse model, got %v", d.Model(0))
	}

	// Image textures are read from the scene until replaced
	image := s.Materials[0].BaseColor
	if d.Textures[image].Kind != TextureVector4 {
		t.Errorf("Expected a constant placeholder, got %v", d.Textures[image].Kind)
	}
	if got := d.Sample(s, image, mgl32.Vec2{0.5, 0.5}); got != (mgl32.Vec4{0.2, 0.4, 0.6, 0}) {
		t.Errorf("Expected image value, got %v", got)
	}

	var zero DynamicScene
	if !zero.IsZero() {
		t.Error("Expected the zero overlay to be empty")
	}
	if err := zero.Validate(s); !errors.Is(err, ErrInvalidScene) {
		t.Errorf("Expected ErrInvalidScene for a mismatched overlay, got %v", err)
	}
}

func TestDynamicScene_ReplaceTexture(t *testing.T) {
	s := texturedScene(t)
	d := NewDynamicScene(s)
	image := s.Materials[0].BaseColor

	red := NewVector3Texture(mgl32.Vec3{1, 0, 0})
	if err := d.ReplaceTexture(int(image), red); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := d.Sample(s, image, mgl32.Vec2{0.5, 0.5}); got != red.Value {
		t.Errorf("Expected replacement %v, got %v", red.Value, got)
	}

	d.RestoreTexture(int(image))
	if got := d.Sample(s, image, mgl32.Vec2{0.5, 0.5}); got != (mgl32.Vec4{0.2, 0.4, 0.6, 0}) {
		t.Errorf("Expected restored image value, got %v", got)
	}

	tests := []struct {
		name    string
		index   int
		texture Texture
	}{
		{"negative index", -1, red},
		{"index out of range", len(s.Textures), red},
		{"image replacement", 0, s.Textures[image]},
		{"value out of range", 0, NewScalarTexture(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := d.ReplaceTexture(tt.index, tt.texture); !errors.Is(err, ErrInvalidTexture) {
				t.Errorf("Expected ErrInvalidTexture, got %v", err)
			}
		})
	}
}

func TestDynamicScene_CloneAndEqual(t *testing.T) {
	s := texturedScene(t)
	d := NewDynamicScene(s)
	clone := d.Clone()
	if !d.Equal(&clone) {
		t.Fatal("Expected the clone to equal the original")
	}

	if err := clone.SetModel(0, ModelDisney); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d.Model(0) != ModelDiffuse {
		t.Error("Clone shares material storage with the original")
	}
	if d.Equal(&clone) {
		t.Error("Expected overlays with different models to differ")
	}

	clone = d.Clone()
	if err := clone.ReplaceTexture(1, NewScalarTexture(0.25)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d.Replaced[1] || d.Textures[1].Value[0] == 0.25 {
		t.Error("Clone shares texture storage with the original")
	}
	if d.Equal(&clone) {
		t.Error("Expected overlays with different textures to differ")
	}

	if err := clone.SetModel(len(s.Materials), ModelDisney); !errors.Is(err, ErrInvalidScene) {
		t.Errorf("Expected ErrInvalidScene for out of range material, got %v", err)
	}
}

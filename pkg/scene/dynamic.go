package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// DynamicMaterial holds the runtime-editable part of a material
type DynamicMaterial struct {
	Model MaterialModel
}

// DynamicScene overlays runtime edits on an immutable Scene: constant
// texture replacements flagged in Replaced, and per-material model choices.
// Values are copied with Clone before crossing goroutines.
type DynamicScene struct {
	Materials []DynamicMaterial
	Textures  []Texture // Constant textures only
	Replaced  []bool
}

// NewDynamicScene creates an overlay with no replacements. Image textures
// start out as constant white.
func NewDynamicScene(s *Scene) DynamicScene {
	d := DynamicScene{
		Materials: make([]DynamicMaterial, len(s.Materials)),
		Textures:  make([]Texture, len(s.Textures)),
		Replaced:  make([]bool, len(s.Textures)),
	}
	for i := range s.Materials {
		d.Materials[i] = DynamicMaterial{Model: s.Materials[i].Model}
	}
	for i := range s.Textures {
		if s.Textures[i].IsConstant() {
			d.Textures[i] = s.Textures[i]
		} else {
			d.Textures[i] = NewVector4Texture(mgl32.Vec4{1, 1, 1, 1})
		}
	}
	return d
}

// IsZero reports whether the overlay is empty
func (d *DynamicScene) IsZero() bool {
	return d.Materials == nil && d.Textures == nil && d.Replaced == nil
}

// Validate checks that the overlay matches the shape of s
func (d *DynamicScene) Validate(s *Scene) error {
	if len(d.Materials) != len(s.Materials) {
		return invalid(fmt.Sprintf("expected %d materials, got %d", len(s.Materials), len(d.Materials)), "dynamic.materials")
	}
	if len(d.Textures) != len(s.Textures) || len(d.Replaced) != len(s.Textures) {
		return invalid(fmt.Sprintf("expected %d textures", len(s.Textures)), "dynamic.textures")
	}
	for i := range d.Materials {
		if m := d.Materials[i].Model; m != ModelDiffuse && m != ModelDisney {
			return invalid("unknown model", "dynamic.materials[%d]", i)
		}
	}
	for i := range d.Textures {
		if !d.Textures[i].IsConstant() {
			return invalid("replacement must be constant", "dynamic.textures[%d]", i)
		}
		if err := d.Textures[i].Validate(); err != nil {
			return invalid(err.Error(), "dynamic.textures[%d]", i)
		}
	}
	return nil
}

// Clone returns a deep copy
func (d DynamicScene) Clone() DynamicScene {
	return DynamicScene{
		Materials: append([]DynamicMaterial(nil), d.Materials...),
		Textures:  append([]Texture(nil), d.Textures...),
		Replaced:  append([]bool(nil), d.Replaced...),
	}
}

// Equal compares two overlays by value
func (d *DynamicScene) Equal(o *DynamicScene) bool {
	if len(d.Materials) != len(o.Materials) || len(d.Textures) != len(o.Textures) || len(d.Replaced) != len(o.Replaced) {
		return false
	}
	for i := range d.Materials {
		if d.Materials[i] != o.Materials[i] {
			return false
		}
	}
	for i := range d.Textures {
		if d.Textures[i].Kind != o.Textures[i].Kind || d.Textures[i].Value != o.Textures[i].Value {
			return false
		}
	}
	for i := range d.Replaced {
		if d.Replaced[i] != o.Replaced[i] {
			return false
		}
	}
	return true
}

// ReplaceTexture overrides texture index with a constant value
func (d *DynamicScene) ReplaceTexture(index int, t Texture) error {
	if index < 0 || index >= len(d.Textures) {
		return fmt.Errorf("%w: index %d out of range", ErrInvalidTexture, index)
	}
	if !t.IsConstant() {
		return fmt.Errorf("%w: replacement must be constant", ErrInvalidTexture)
	}
	if err := t.Validate(); err != nil {
		return err
	}
	d.Textures[index] = t
	d.Replaced[index] = true
	return nil
}

// RestoreTexture removes the override of texture index
func (d *DynamicScene) RestoreTexture(index int) {
	if index >= 0 && index < len(d.Replaced) {
		d.Replaced[index] = false
	}
}

// SetModel overrides the reflectance model of material index
func (d *DynamicScene) SetModel(index int, model MaterialModel) error {
	if index < 0 || index >= len(d.Materials) {
		return invalid("material out of range", "dynamic.materials[%d]", index)
	}
	d.Materials[index].Model = model
	return nil
}

// Sample reads texture index at uv, honoring replacements
func (d *DynamicScene) Sample(s *Scene, index uint32, uv mgl32.Vec2) mgl32.Vec4 {
	if d.Replaced[index] {
		return d.Textures[index].Value
	}
	return s.Textures[index].Sample(uv)
}

// Model returns the current reflectance model of material index
func (d *DynamicScene) Model(index uint32) MaterialModel {
	return d.Materials[index].Model
}

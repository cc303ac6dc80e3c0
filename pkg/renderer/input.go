package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/phoekz/raydiance-sub000/pkg/core"
	"github.com/phoekz/raydiance-sub000/pkg/scene"
	"github.com/phoekz/raydiance-sub000/pkg/sky"
)

// Input is everything the owner can change between frames. Any difference
// from the current input restarts accumulation.
type Input struct {
	Camera           int        // Index into the scene's cameras
	CameraTransform  mgl32.Mat4 // Viewer transform; the camera moves by its inverse
	Width, Height    int
	Hemisphere       core.HemisphereSampler
	Dynamic          scene.DynamicScene // Empty means the scene's own values
	Sky              sky.Params
	Exposure         core.Exposure
	Tonemap          bool
	VisualizeNormals bool
	Salt             uint64
}

// DefaultInput returns an input for the first camera with default sky and exposure
func DefaultInput(width, height int) Input {
	return Input{
		CameraTransform: mgl32.Ident4(),
		Width:           width,
		Height:          height,
		Hemisphere:      core.HemisphereCosine,
		Sky:             sky.DefaultParams(),
		Exposure:        core.DefaultExposure(),
		Tonemap:         true,
	}
}

// Validate checks the input against the scene it will be rendered with
func (in *Input) Validate(s *scene.Scene) error {
	if in.Width <= 0 || in.Height <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidImageSize, in.Width, in.Height)
	}
	if in.Camera < 0 || in.Camera >= len(s.Cameras) {
		return fmt.Errorf("%w: camera %d out of range", ErrInvalidInput, in.Camera)
	}
	if in.CameraTransform.Det() == 0 {
		return fmt.Errorf("%w: camera transform is singular", ErrInvalidInput)
	}
	if in.Hemisphere != core.HemisphereUniform && in.Hemisphere != core.HemisphereCosine {
		return fmt.Errorf("%w: unknown hemisphere sampler %v", ErrInvalidInput, in.Hemisphere)
	}
	if err := in.Sky.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if !in.Dynamic.IsZero() {
		if err := in.Dynamic.Validate(s); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}
	return nil
}

// Clone returns a copy that shares no memory with in
func (in Input) Clone() Input {
	if !in.Dynamic.IsZero() {
		in.Dynamic = in.Dynamic.Clone()
	}
	return in
}

// Equal compares two inputs by value
func (in *Input) Equal(o *Input) bool {
	return in.Camera == o.Camera &&
		in.CameraTransform == o.CameraTransform &&
		in.Width == o.Width &&
		in.Height == o.Height &&
		in.Hemisphere == o.Hemisphere &&
		in.Sky == o.Sky &&
		in.Exposure == o.Exposure &&
		in.Tonemap == o.Tonemap &&
		in.VisualizeNormals == o.VisualizeNormals &&
		in.Salt == o.Salt &&
		in.Dynamic.IsZero() == o.Dynamic.IsZero() &&
		in.Dynamic.Equal(&o.Dynamic)
}

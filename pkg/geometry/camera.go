package geometry

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera generates primary rays by unprojecting pixels through the inverse
// view-projection transform
type Camera struct {
	origin        mgl32.Vec3
	worldFromClip mgl32.Mat4
	width         int
	height        int
}

// NewCamera creates a perspective camera. worldFromView places the camera in
// the scene and viewTransform is an extra world-space transform applied by the
// viewer (orbiting, zooming); the camera is moved by its inverse.
func NewCamera(worldFromView, viewTransform mgl32.Mat4, yFov, zNear, zFar float32, width, height int) Camera {
	aspectRatio := float32(width) / float32(height)
	clipFromView := mgl32.Perspective(yFov, aspectRatio, zNear, zFar)
	cameraTransform := viewTransform.Inv()

	return Camera{
		origin:        mgl32.TransformCoordinate(worldFromView.Col(3).Vec3(), cameraTransform),
		worldFromClip: cameraTransform.Mul4(worldFromView).Mul4(clipFromView.Inv()),
		width:         width,
		height:        height,
	}
}

// Origin returns the world-space camera position
func (c Camera) Origin() mgl32.Vec3 {
	return c.origin
}

// GetRay generates a ray through pixel (x, y) offset by (s, t) within the pixel,
// where 0 <= s,t < 1. Pixel rows grow downwards.
func (c Camera) GetRay(x, y int, s, t float32) Ray {
	px := (float32(x) + s) / float32(c.width)
	py := (float32(y) + t) / float32(c.height)

	// Flip Y and map to [-1, 1]
	py = 1.0 - py
	px = 2.0*px - 1.0
	py = 2.0*py - 1.0

	p := c.worldFromClip.Mul4x1(mgl32.Vec4{px, py, 1.0, 1.0})
	target := p.Vec3().Mul(1.0 / p.W())

	return NewRay(c.origin, target.Sub(c.origin))
}

package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl32.Vec3 // Minimum corner
	Max mgl32.Vec3 // Maximum corner
}

// NewAABB returns an empty box with inverted bounds so that any Extend or Merge
// produces the correct result.
func NewAABB() AABB {
	inf := math32.Inf(1)
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...mgl32.Vec3) AABB {
	box := NewAABB()
	for _, p := range points {
		box.Extend(p)
	}
	return box
}

// Extend grows the box to contain p
func (b *AABB) Extend(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		b.Min[i] = math32.Min(b.Min[i], p[i])
		b.Max[i] = math32.Max(b.Max[i], p[i])
	}
}

// Merge grows the box to contain o
func (b *AABB) Merge(o AABB) {
	for i := 0; i < 3; i++ {
		b.Min[i] = math32.Min(b.Min[i], o.Min[i])
		b.Max[i] = math32.Max(b.Max[i], o.Max[i])
	}
}

// Merged returns the union of b and o
func (b AABB) Merged(o AABB) AABB {
	b.Merge(o)
	return b
}

// IsEmpty reports whether the box has not been extended yet
func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Center returns the center point of the box
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Extents returns the size of the box along each axis
func (b AABB) Extents() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// MaxExtentAxis returns the axis with the largest extent (0=X, 1=Y, 2=Z)
func (b AABB) MaxExtentAxis() int {
	e := b.Extents()
	if e[0] > e[1] && e[0] > e[2] {
		return 0
	}
	if e[1] > e[2] {
		return 1
	}
	return 2
}

// SurfaceArea returns the surface area of the box, zero when empty
func (b AABB) SurfaceArea() float32 {
	if b.IsEmpty() {
		return 0
	}
	e := b.Extents()
	return 2.0 * (e[0]*e[1] + e[0]*e[2] + e[1]*e[2])
}

// Contains reports whether o lies entirely inside b
func (b AABB) Contains(o AABB) bool {
	for i := 0; i < 3; i++ {
		if o.Min[i] < b.Min[i] || o.Max[i] > b.Max[i] {
			return false
		}
	}
	return true
}

package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// RayTriangleIntersector holds the per-ray state of the watertight
// ray/triangle test ("Watertight Ray/Triangle Intersection", Woop et al. 2013).
type RayTriangleIntersector struct {
	origin     mgl32.Vec3
	kx, ky, kz int
	sx, sy, sz float32
}

// NewRayTriangleIntersector precomputes the projection axis and shear constants for ray
func NewRayTriangleIntersector(ray Ray) RayTriangleIntersector {
	d := ray.Direction

	// The axis with the largest absolute direction component becomes z
	kz := 0
	if math32.Abs(d[1]) > math32.Abs(d[kz]) {
		kz = 1
	}
	if math32.Abs(d[2]) > math32.Abs(d[kz]) {
		kz = 2
	}
	kx := (kz + 1) % 3
	ky := (kx + 1) % 3

	// Swap to preserve the winding of triangles
	if d[kz] < 0 {
		kx, ky = ky, kx
	}

	return RayTriangleIntersector{
		origin: ray.Origin,
		kx:     kx,
		ky:     ky,
		kz:     kz,
		sx:     d[kx] / d[kz],
		sy:     d[ky] / d[kz],
		sz:     1.0 / d[kz],
	}
}

// Hit tests the triangle against the ray. Hits at or beyond tMax are rejected.
// Returns the hit distance and the barycentric weights of the three vertices.
func (r *RayTriangleIntersector) Hit(tri *Triangle, tMax float32) (float32, mgl32.Vec3, bool) {
	// Translate vertices into ray space
	a := tri.Positions[0].Sub(r.origin)
	b := tri.Positions[1].Sub(r.origin)
	c := tri.Positions[2].Sub(r.origin)

	// Shear and scale
	ax := a[r.kx] - r.sx*a[r.kz]
	ay := a[r.ky] - r.sy*a[r.kz]
	bx := b[r.kx] - r.sx*b[r.kz]
	by := b[r.ky] - r.sy*b[r.kz]
	cx := c[r.kx] - r.sx*c[r.kz]
	cy := c[r.ky] - r.sy*c[r.kz]

	// Scaled barycentric coordinates from edge functions
	u := cx*by - cy*bx
	v := ax*cy - ay*cx
	w := bx*ay - by*ax

	// Ray passes exactly through an edge or vertex, redo in double precision
	if u == 0 && v == 0 && w == 0 {
		u = float32(float64(cx)*float64(by) - float64(cy)*float64(bx))
		v = float32(float64(ax)*float64(cy) - float64(ay)*float64(cx))
		w = float32(float64(bx)*float64(ay) - float64(by)*float64(ax))
	}

	// Edge tests accept either winding but never mixed signs
	if (u < 0 || v < 0 || w < 0) && (u > 0 || v > 0 || w > 0) {
		return 0, mgl32.Vec3{}, false
	}

	det := u + v + w
	if det == 0 {
		return 0, mgl32.Vec3{}, false
	}

	// Scaled hit distance, compared without dividing by det
	az := r.sz * a[r.kz]
	bz := r.sz * b[r.kz]
	cz := r.sz * c[r.kz]
	t := u*az + v*bz + w*cz
	if det < 0 && (t >= 0 || t < tMax*det) {
		return 0, mgl32.Vec3{}, false
	}
	if det > 0 && (t <= 0 || t > tMax*det) {
		return 0, mgl32.Vec3{}, false
	}

	rcpDet := 1.0 / det
	return t * rcpDet, mgl32.Vec3{u * rcpDet, v * rcpDet, w * rcpDet}, true
}

// RayAABBIntersector holds the per-ray state of the slab test
type RayAABBIntersector struct {
	origin mgl32.Vec3
	invDir mgl32.Vec3
	dirNeg [3]bool
}

// NewRayAABBIntersector precomputes the inverse direction and its signs
func NewRayAABBIntersector(ray Ray) RayAABBIntersector {
	inv := mgl32.Vec3{1.0 / ray.Direction[0], 1.0 / ray.Direction[1], 1.0 / ray.Direction[2]}
	return RayAABBIntersector{
		origin: ray.Origin,
		invDir: inv,
		dirNeg: [3]bool{inv[0] < 0, inv[1] < 0, inv[2] < 0},
	}
}

// DirectionNegative reports whether the ray travels towards -axis
func (r *RayAABBIntersector) DirectionNegative(axis int) bool {
	return r.dirNeg[axis]
}

// gamma bounds the relative rounding error of n floating point operations
func gamma(n float32) float32 {
	const machineEpsilon = 0x1p-23 * 0.5
	return (n * machineEpsilon) / (1.0 - n*machineEpsilon)
}

// farScale widens the far slab distance to absorb rounding error
var farScale = 1.0 + 2.0*gamma(3)

// Hit reports whether the ray overlaps the box in front of its origin
func (r *RayAABBIntersector) Hit(box *AABB) bool {
	var near, far [3]float32
	for axis := 0; axis < 3; axis++ {
		lo, hi := box.Min[axis], box.Max[axis]
		if r.dirNeg[axis] {
			lo, hi = hi, lo
		}
		near[axis] = (lo - r.origin[axis]) * r.invDir[axis]
		far[axis] = (hi - r.origin[axis]) * r.invDir[axis] * farScale

		// 0*Inf: the ray runs inside a slab plane, which does not bound it
		if math32.IsNaN(near[axis]) {
			near[axis] = math32.Inf(-1)
		}
		if math32.IsNaN(far[axis]) {
			far[axis] = math32.Inf(1)
		}
	}

	tMin, tMax := near[0], far[0]
	for axis := 1; axis < 3; axis++ {
		if tMin > far[axis] || near[axis] > tMax {
			return false
		}
		if near[axis] > tMin {
			tMin = near[axis]
		}
		if far[axis] < tMax {
			tMax = far[axis]
		}
	}

	return tMin < math32.Inf(1) && tMax > 0
}

package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func testTriangle() Triangle {
	return Triangle{Positions: [3]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}
}

func TestRayTriangleIntersector_Hit(t *testing.T) {
	tri := testTriangle()
	inf := float32(math.Inf(1))

	tests := []struct {
		name     string
		ray      Ray
		tMax     float32
		hit      bool
		expected float32
	}{
		{"front face", NewRay(mgl32.Vec3{0.25, 0.25, 1}, mgl32.Vec3{0, 0, -1}), inf, true, 1},
		{"back face", NewRay(mgl32.Vec3{0.25, 0.25, -2}, mgl32.Vec3{0, 0, 1}), inf, true, 2},
		{"miss outside", NewRay(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{0, 0, -1}), inf, false, 0},
		{"behind origin", NewRay(mgl32.Vec3{0.25, 0.25, -1}, mgl32.Vec3{0, 0, -1}), inf, false, 0},
		{"parallel", NewRay(mgl32.Vec3{-1, 0.25, 0}, mgl32.Vec3{1, 0, 0}), inf, false, 0},
		{"beyond tMax", NewRay(mgl32.Vec3{0.25, 0.25, 3}, mgl32.Vec3{0, 0, -1}), 2, false, 0},
		{"oblique", NewRay(mgl32.Vec3{0.25, 0.25, 1}, mgl32.Vec3{0, 0.1, -1}), inf, true, float32(math.Sqrt(1.01))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intersector := NewRayTriangleIntersector(tt.ray)
			hitT, bary, ok := intersector.Hit(&tri, tt.tMax)
			if ok != tt.hit {
				t.Fatalf("Expected hit=%v, got %v", tt.hit, ok)
			}
			if !ok {
				return
			}
			if math.Abs(float64(hitT-tt.expected)) > 1e-5 {
				t.Errorf("Expected t=%v, got %v", tt.expected, hitT)
			}
			sum := bary[0] + bary[1] + bary[2]
			if math.Abs(float64(sum-1)) > 1e-5 {
				t.Errorf("Barycentrics should sum to 1, got %v", bary)
			}
			for i := 0; i < 3; i++ {
				if bary[i] < 0 || bary[i] > 1 {
					t.Errorf("Barycentric %d out of range: %v", i, bary)
				}
			}
			// Barycentrics reconstruct the hit point
			p := tri.Positions[0].Mul(bary[0]).Add(tri.Positions[1].Mul(bary[1])).Add(tri.Positions[2].Mul(bary[2]))
			if !p.ApproxEqualThreshold(tt.ray.At(hitT), 1e-5) {
				t.Errorf("Expected point %v, got %v", tt.ray.At(hitT), p)
			}
		})
	}
}

func TestRayTriangleIntersector_Watertight(t *testing.T) {
	// Two triangles sharing the diagonal x == z of the unit square in the XZ plane
	triangles := []Triangle{
		{Positions: [3]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}}},
		{Positions: [3]mgl32.Vec3{{0, 0, 0}, {1, 0, 1}, {0, 0, 1}}},
	}
	inf := float32(math.Inf(1))

	const steps = 1000
	for i := 0; i <= steps; i++ {
		s := float32(i) / steps
		for _, origin := range []mgl32.Vec3{{s, 1, s}, {s, -1, s}} {
			direction := mgl32.Vec3{0, -origin[1], 0}
			intersector := NewRayTriangleIntersector(NewRay(origin, direction))
			hits := 0
			for j := range triangles {
				if _, _, ok := intersector.Hit(&triangles[j], inf); ok {
					hits++
				}
			}
			if hits == 0 {
				t.Fatalf("Ray through shared edge at s=%v from %v leaked", s, origin)
			}
		}
	}
}

func TestRayAABBIntersector_Hit(t *testing.T) {
	box := NewAABBFromPoints(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})
	flat := NewAABBFromPoints(mgl32.Vec3{-1, 0, -1}, mgl32.Vec3{1, 0, 1})

	tests := []struct {
		name string
		box  AABB
		ray  Ray
		hit  bool
	}{
		{"straight through", box, NewRay(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}), true},
		{"from inside", box, NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 0}), true},
		{"negative direction", box, NewRay(mgl32.Vec3{5, 5, 5}, mgl32.Vec3{-1, -1, -1}), true},
		{"miss", box, NewRay(mgl32.Vec3{0, 3, 5}, mgl32.Vec3{0, 0, -1}), false},
		{"behind", box, NewRay(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1}), false},
		{"axis aligned outside slab", box, NewRay(mgl32.Vec3{2, 0, 5}, mgl32.Vec3{0, 0, -1}), false},
		{"zero thickness box", flat, NewRay(mgl32.Vec3{0.5, 1, 0.5}, mgl32.Vec3{0, -1, 0}), true},
		{"inside max slab plane", box, NewRay(mgl32.Vec3{1, 0, 5}, mgl32.Vec3{0, 0, -1}), true},
		{"inside min slab plane", box, NewRay(mgl32.Vec3{0, -1, 5}, mgl32.Vec3{0, 0, -1}), true},
		{"inside flat box plane", flat, NewRay(mgl32.Vec3{-3, 0, 0.5}, mgl32.Vec3{1, 0, 0}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intersector := NewRayAABBIntersector(tt.ray)
			if got := intersector.Hit(&tt.box); got != tt.hit {
				t.Errorf("Expected hit=%v, got %v", tt.hit, got)
			}
		})
	}
}

func TestRayAABBIntersector_DirectionNegative(t *testing.T) {
	intersector := NewRayAABBIntersector(NewRay(mgl32.Vec3{}, mgl32.Vec3{-1, 1, -1}))
	expected := [3]bool{true, false, true}
	for axis := 0; axis < 3; axis++ {
		if intersector.DirectionNegative(axis) != expected[axis] {
			t.Errorf("Axis %d: expected %v", axis, expected[axis])
		}
	}
}

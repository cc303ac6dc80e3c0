package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const traversalStackSize = 64

// Hit describes the closest intersection found by a BVH query
type Hit struct {
	T             float32
	Barycentrics  mgl32.Vec3 // Weights of the triangle's three vertices
	TriangleIndex uint32     // Index into BVH.Triangles
}

// HitStats counts intersection work for diagnostics
type HitStats struct {
	Rays             uint64
	RayTriangleTests uint64
	RayTriangleHits  uint64
	RayAABBTests     uint64
	RayAABBHits      uint64
}

// Add accumulates other into s
func (s *HitStats) Add(other HitStats) {
	s.Rays += other.Rays
	s.RayTriangleTests += other.RayTriangleTests
	s.RayTriangleHits += other.RayTriangleHits
	s.RayAABBTests += other.RayAABBTests
	s.RayAABBHits += other.RayAABBHits
}

// Hit finds the closest triangle along ray. stats may be nil.
func (b *BVH) Hit(ray Ray, stats *HitStats) (Hit, bool) {
	if stats == nil {
		stats = &HitStats{}
	}
	stats.Rays++
	if len(b.Nodes) == 0 {
		return Hit{}, false
	}

	triangleTest := NewRayTriangleIntersector(ray)
	boxTest := NewRayAABBIntersector(ray)

	var stack [traversalStackSize]uint32
	top := 0
	nodeIndex := uint32(0)

	closest := Hit{T: math32.MaxFloat32}
	found := false

	for {
		node := &b.Nodes[nodeIndex]
		stats.RayAABBTests++
		if boxTest.Hit(&node.Bounds) {
			stats.RayAABBHits++
			if node.IsLeaf() {
				for i := uint32(0); i < uint32(node.PrimitiveCount); i++ {
					index := node.Offset + i
					stats.RayTriangleTests++
					t, bary, ok := triangleTest.Hit(&b.Triangles[index], closest.T)
					if !ok {
						continue
					}
					stats.RayTriangleHits++
					if t < closest.T {
						closest = Hit{T: t, Barycentrics: bary, TriangleIndex: index}
						found = true
					}
				}
			} else {
				// Visit the near child first, defer the far one
				if boxTest.DirectionNegative(int(node.Axis)) {
					stack[top] = nodeIndex + 1
					nodeIndex = node.Offset
				} else {
					stack[top] = node.Offset
					nodeIndex = nodeIndex + 1
				}
				top++
				continue
			}
		}

		if top == 0 {
			break
		}
		top--
		nodeIndex = stack[top]
	}

	return closest, found
}

package geometry

import (
	"math/bits"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/phoekz/raydiance-sub000/pkg/log"
)

var logger = log.New("bvh")

const (
	bucketCount       = 12  // SAH buckets per split
	maxLeafPrimitives = 255 // Leaf primitive counts are stored in one byte
	maxTreeDepth      = 64  // Bounded by the traversal stack
	traversalCost     = 0.125
)

// Node is one entry of the flattened BVH. Interior nodes store their right
// child in Offset; the left child always follows at index+1. Leaves store the
// first triangle in Offset and a non-zero PrimitiveCount.
type Node struct {
	Bounds         AABB
	Offset         uint32
	PrimitiveCount uint8
	Axis           uint8
}

// IsLeaf reports whether the node references triangles directly
func (n *Node) IsLeaf() bool {
	return n.PrimitiveCount > 0
}

// BVH is a flattened bounding volume hierarchy over a triangle list.
// Triangles are reordered so every leaf references a contiguous range.
type BVH struct {
	Nodes     []Node
	Triangles []Triangle
}

// BuildStats describes the shape of a built hierarchy
type BuildStats struct {
	Nodes    int
	Leaves   int
	MaxDepth int
	Duration time.Duration
}

// buildPrimitive caches the bounds of one input triangle
type buildPrimitive struct {
	index    int
	bounds   AABB
	centroid mgl32.Vec3
}

// buildNode lives in the builder's arena and is addressed by index
type buildNode struct {
	bounds   AABB
	children [2]int
	axis     int
	first    int
	count    int // zero for interior nodes
}

type bucket struct {
	count  int
	bounds AABB
}

type bvhBuilder struct {
	nodes   []buildNode
	ordered []int
	stats   BuildStats
}

// NewBVH builds a hierarchy over triangles using the surface area heuristic.
// The input slice is not modified.
func NewBVH(triangles []Triangle) *BVH {
	bvh, _ := NewBVHWithStats(triangles)
	return bvh
}

// NewBVHWithStats builds a hierarchy and reports build statistics
func NewBVHWithStats(triangles []Triangle) (*BVH, BuildStats) {
	start := time.Now()
	if len(triangles) == 0 {
		return &BVH{}, BuildStats{}
	}

	primitives := make([]buildPrimitive, len(triangles))
	for i := range triangles {
		bounds := triangles[i].Bounds()
		primitives[i] = buildPrimitive{index: i, bounds: bounds, centroid: bounds.Center()}
	}

	b := &bvhBuilder{
		nodes:   make([]buildNode, 0, 2*len(triangles)),
		ordered: make([]int, 0, len(triangles)),
	}
	b.build(primitives, 0)

	nodes := make([]Node, 0, len(b.nodes))
	b.flatten(0, &nodes)

	ordered := make([]Triangle, len(b.ordered))
	for i, index := range b.ordered {
		ordered[i] = triangles[index]
	}

	b.stats.Nodes = len(nodes)
	b.stats.Duration = time.Since(start)
	logger.Debugf("built bvh over %d triangles in %d ms: %d nodes, %d leaves, depth %d",
		len(triangles), b.stats.Duration.Milliseconds(), b.stats.Nodes, b.stats.Leaves, b.stats.MaxDepth)

	return &BVH{Nodes: nodes, Triangles: ordered}, b.stats
}

// build recursively partitions primitives and returns the arena index of the new node
func (b *bvhBuilder) build(primitives []buildPrimitive, depth int) int {
	current := len(b.nodes)
	b.nodes = append(b.nodes, buildNode{bounds: NewAABB()})

	bounds := NewAABB()
	for i := range primitives {
		bounds.Merge(primitives[i].bounds)
	}

	count := len(primitives)
	if count == 1 {
		return b.makeLeaf(current, primitives, bounds, depth)
	}

	centroidBounds := NewAABB()
	for i := range primitives {
		centroidBounds.Extend(primitives[i].centroid)
	}
	axis := centroidBounds.MaxExtentAxis()
	degenerate := centroidBounds.Max[axis] == centroidBounds.Min[axis]

	// Switch to balanced splits once SAH splits could exceed the depth limit
	balanced := depth+balancedDepth(count) >= maxTreeDepth-1

	var split int
	switch {
	case (degenerate || balanced) && count <= maxLeafPrimitives:
		return b.makeLeaf(current, primitives, bounds, depth)
	case degenerate || balanced || count <= 4:
		sortByCentroid(primitives, axis)
		split = count / 2
	default:
		var leaf bool
		split, leaf = splitSAH(primitives, bounds, centroidBounds, axis)
		if leaf {
			return b.makeLeaf(current, primitives, bounds, depth)
		}
		if split == 0 || split == count {
			sortByCentroid(primitives, axis)
			split = count / 2
		}
	}

	left := b.build(primitives[:split], depth+1)
	right := b.build(primitives[split:], depth+1)

	node := &b.nodes[current]
	node.bounds = b.nodes[left].bounds.Merged(b.nodes[right].bounds)
	node.children = [2]int{left, right}
	node.axis = axis
	return current
}

func (b *bvhBuilder) makeLeaf(current int, primitives []buildPrimitive, bounds AABB, depth int) int {
	node := &b.nodes[current]
	node.bounds = bounds
	node.first = len(b.ordered)
	node.count = len(primitives)
	for i := range primitives {
		b.ordered = append(b.ordered, primitives[i].index)
	}
	b.stats.Leaves++
	b.stats.MaxDepth = max(b.stats.MaxDepth, depth)
	return current
}

// splitSAH buckets primitives along axis and partitions them around the cheapest
// bucket boundary. It reports leaf=true when no split beats a leaf.
func splitSAH(primitives []buildPrimitive, bounds, centroidBounds AABB, axis int) (int, bool) {
	lo := centroidBounds.Min[axis]
	extent := centroidBounds.Max[axis] - lo
	bucketOf := func(p *buildPrimitive) int {
		index := int(bucketCount * (p.centroid[axis] - lo) / extent)
		return min(index, bucketCount-1)
	}

	var buckets [bucketCount]bucket
	for i := range buckets {
		buckets[i].bounds = NewAABB()
	}
	for i := range primitives {
		bk := &buckets[bucketOf(&primitives[i])]
		bk.count++
		bk.bounds.Merge(primitives[i].bounds)
	}

	// Cost of splitting after each of the first bucketCount-1 buckets
	area := bounds.SurfaceArea()
	minCost := float32(0)
	minIndex := -1
	for i := 0; i < bucketCount-1; i++ {
		left, right := NewAABB(), NewAABB()
		leftCount, rightCount := 0, 0
		for j := 0; j <= i; j++ {
			left.Merge(buckets[j].bounds)
			leftCount += buckets[j].count
		}
		for j := i + 1; j < bucketCount; j++ {
			right.Merge(buckets[j].bounds)
			rightCount += buckets[j].count
		}
		cost := float32(traversalCost)
		if area > 0 {
			cost += (float32(leftCount)*left.SurfaceArea() + float32(rightCount)*right.SurfaceArea()) / area
		}
		if minIndex < 0 || cost < minCost {
			minCost = cost
			minIndex = i
		}
	}

	leafCost := float32(len(primitives))
	if len(primitives) <= maxLeafPrimitives && minCost >= leafCost {
		return 0, true
	}

	split := partition(primitives, func(p *buildPrimitive) bool {
		return bucketOf(p) <= minIndex
	})
	return split, false
}

// partition moves primitives satisfying pred to the front and returns their count
func partition(primitives []buildPrimitive, pred func(*buildPrimitive) bool) int {
	split := 0
	for i := range primitives {
		if pred(&primitives[i]) {
			primitives[i], primitives[split] = primitives[split], primitives[i]
			split++
		}
	}
	return split
}

func sortByCentroid(primitives []buildPrimitive, axis int) {
	sort.Slice(primitives, func(i, j int) bool {
		return primitives[i].centroid[axis] < primitives[j].centroid[axis]
	})
}

// balancedDepth returns how many median splits reduce count to leaf size
func balancedDepth(count int) int {
	return bits.Len(uint((count - 1) / maxLeafPrimitives))
}

// flatten writes the subtree rooted at arena index into nodes in pre-order
func (b *bvhBuilder) flatten(index int, nodes *[]Node) uint32 {
	current := uint32(len(*nodes))
	*nodes = append(*nodes, Node{})

	node := &b.nodes[index]
	flat := Node{Bounds: node.bounds}
	if node.count > 0 {
		flat.Offset = uint32(node.first)
		flat.PrimitiveCount = uint8(node.count)
	} else {
		flat.Axis = uint8(node.axis)
		b.flatten(node.children[0], nodes)
		flat.Offset = b.flatten(node.children[1], nodes)
	}

	(*nodes)[current] = flat
	return current
}

package core

import (
	"sort"
)

// HitRecord contains information about a ray-shape intersection
type HitRecord struct {
	Point     Vec3    // Point of intersection
	Normal    Vec3    // Outward geometric normal
	T         float64 // Parameter t along the ray
	FrontFace bool    // Whether the ray hit the outside of the shape
	Shape     Shape   // The shape that was hit
}

// Shape is anything the BVH can intersect
type Shape interface {
	Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool)
	BoundingBox() AABB
}

// ShapeFilter decides whether a shape participates in a query
type ShapeFilter func(Shape) bool

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox AABB
	Left        *BVHNode
	Right       *BVHNode
	Shapes      []Shape // Non-nil only for leaves
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection
type BVH struct {
	Root *BVHNode
}

// Leaf threshold: if we have this many or fewer shapes, store them in a leaf node
const leafThreshold = 4

// NewBVH constructs a BVH from a slice of shapes. The input slice is not modified.
func NewBVH(shapes []Shape) *BVH {
	if len(shapes) == 0 {
		return &BVH{}
	}
	shapesCopy := make([]Shape, len(shapes))
	copy(shapesCopy, shapes)
	return &BVH{Root: buildBVH(shapesCopy)}
}

// buildBVH splits at the median along the longest axis
func buildBVH(shapes []Shape) *BVHNode {
	bounds := shapes[0].BoundingBox()
	for _, s := range shapes[1:] {
		bounds = bounds.Union(s.BoundingBox())
	}

	if len(shapes) <= leafThreshold {
		return &BVHNode{BoundingBox: bounds, Shapes: shapes}
	}

	longest := bounds.LongestAxis()
	sort.Slice(shapes, func(i, j int) bool {
		return axis(shapes[i].BoundingBox().Center(), longest) < axis(shapes[j].BoundingBox().Center(), longest)
	})

	mid := len(shapes) / 2
	return &BVHNode{
		BoundingBox: bounds,
		Left:        buildBVH(shapes[:mid]),
		Right:       buildBVH(shapes[mid:]),
	}
}

// Hit returns the closest intersection in [tMin, tMax]
func (bvh *BVH) Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool) {
	return bvh.HitFiltered(ray, tMin, tMax, nil)
}

// HitFiltered returns the closest intersection with a shape accepted by filter.
// A nil filter accepts every shape.
func (bvh *BVH) HitFiltered(ray Ray, tMin, tMax float64, filter ShapeFilter) (*HitRecord, bool) {
	if bvh.Root == nil {
		return nil, false
	}
	hit := hitNode(bvh.Root, ray, tMin, tMax, filter)
	return hit, hit != nil
}

func hitNode(node *BVHNode, ray Ray, tMin, tMax float64, filter ShapeFilter) *HitRecord {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return nil
	}

	var closest *HitRecord
	if node.Shapes != nil {
		for _, shape := range node.Shapes {
			if filter != nil && !filter(shape) {
				continue
			}
			if hit, ok := shape.Hit(ray, tMin, tMax); ok {
				closest = hit
				tMax = hit.T
			}
		}
		return closest
	}

	for _, child := range []*BVHNode{node.Left, node.Right} {
		if child == nil {
			continue
		}
		if hit := hitNode(child, ray, tMin, tMax, filter); hit != nil {
			closest = hit
			tMax = hit.T
		}
	}
	return closest
}

// Size returns the number of shapes stored in the leaves
func (bvh *BVH) Size() int {
	var count func(n *BVHNode) int
	count = func(n *BVHNode) int {
		if n == nil {
			return 0
		}
		if n.Shapes != nil {
			return len(n.Shapes)
		}
		return count(n.Left) + count(n.Right)
	}
	return count(bvh.Root)
}

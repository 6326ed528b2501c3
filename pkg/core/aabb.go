package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3
	Max Vec3
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// axis returns component i (0=X, 1=Y, 2=Z) of v
func axis(v Vec3, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Hit reports whether the ray overlaps the box within [tMin, tMax] (slab test)
func (b AABB) Hit(ray Ray, tMin, tMax float64) bool {
	for i := 0; i < 3; i++ {
		lo, hi := axis(b.Min, i), axis(b.Max, i)
		origin, dir := axis(ray.Origin, i), axis(ray.Direction, i)

		if math.Abs(dir) < 1e-12 {
			if origin < lo || origin > hi {
				return false
			}
			continue
		}

		inv := 1.0 / dir
		t0, t1 := (lo-origin)*inv, (hi-origin)*inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tMin = math.Max(tMin, t0)
		tMax = math.Min(tMax, t1)
		if tMin > tMax {
			return false
		}
	}
	return true
}

// Union returns the box bounding both boxes
func (b AABB) Union(other AABB) AABB {
	return AABB{
		Min: Vec3{math.Min(b.Min.X, other.Min.X), math.Min(b.Min.Y, other.Min.Y), math.Min(b.Min.Z, other.Min.Z)},
		Max: Vec3{math.Max(b.Max.X, other.Max.X), math.Max(b.Max.Y, other.Max.Y), math.Max(b.Max.Z, other.Max.Z)},
	}
}

// Center returns the center point of the box
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Multiply(0.5)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (b AABB) LongestAxis() int {
	size := b.Max.Subtract(b.Min)
	if size.X > size.Y && size.X > size.Z {
		return 0
	}
	if size.Y > size.Z {
		return 1
	}
	return 2
}

package scene

import (
	"math"

	"github.com/df07/go-hybrid-composer/pkg/core"
)

// Object is a shape that belongs to a scene instance
type Object interface {
	core.Shape
	Instance() int
	// Curvature returns the surface curvature, zero for flat shapes
	Curvature() float64
}

// Sphere represents a sphere shape
type Sphere struct {
	Center     core.Vec3
	Radius     float64
	InstanceID int
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, instanceID int) *Sphere {
	return &Sphere{
		Center:     center,
		Radius:     radius,
		InstanceID: instanceID,
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	// Vector from ray origin to sphere center
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return nil, false
		}
	}

	point := ray.At(root)
	outwardNormal := point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	return &core.HitRecord{
		T:         root,
		Point:     point,
		Normal:    outwardNormal,
		FrontFace: ray.Direction.Dot(outwardNormal) < 0,
		Shape:     s,
	}, true
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	radius := core.Splat(s.Radius)
	return core.NewAABB(
		s.Center.Subtract(radius),
		s.Center.Add(radius),
	)
}

// Instance returns the owning instance
func (s *Sphere) Instance() int { return s.InstanceID }

// Curvature returns 1/radius
func (s *Sphere) Curvature() float64 { return 1 / s.Radius }

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point      core.Vec3 // A point on the plane
	Normal     core.Vec3 // Unit normal
	InstanceID int
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3, instanceID int) *Plane {
	return &Plane{
		Point:      point,
		Normal:     normal.Normalize(),
		InstanceID: instanceID,
	}
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Ray parallel to the plane
	if math.Abs(denominator) < 1e-8 {
		return nil, false
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t < tMin || t > tMax {
		return nil, false
	}

	return &core.HitRecord{
		T:         t,
		Point:     ray.At(t),
		Normal:    p.Normal,
		FrontFace: denominator < 0,
		Shape:     p,
	}, true
}

// BoundingBox returns a bounding box for this plane. Axis-aligned planes get
// a thin slab, anything else the whole scene extent.
func (p *Plane) BoundingBox() core.AABB {
	const largeValue = core.Infinity
	const epsilon = 0.001

	lo := core.Splat(-largeValue)
	hi := core.Splat(largeValue)
	switch {
	case math.Abs(p.Normal.X) > 0.999:
		lo.X, hi.X = p.Point.X-epsilon, p.Point.X+epsilon
	case math.Abs(p.Normal.Y) > 0.999:
		lo.Y, hi.Y = p.Point.Y-epsilon, p.Point.Y+epsilon
	case math.Abs(p.Normal.Z) > 0.999:
		lo.Z, hi.Z = p.Point.Z-epsilon, p.Point.Z+epsilon
	}
	return core.NewAABB(lo, hi)
}

// Instance returns the owning instance
func (p *Plane) Instance() int { return p.InstanceID }

// Curvature is zero for planes
func (p *Plane) Curvature() float64 { return 0 }

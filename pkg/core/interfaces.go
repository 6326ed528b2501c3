package core

import "image"

// RayFlags restricts which geometry a ray query may report
type RayFlags uint8

const (
	GeometryAll RayFlags = iota
	GeometryOnlyTransparent
	GeometryIgnoreTransparent
)

// RayQuery is the input of a single ray or visibility cast
type RayQuery struct {
	Origin    Vec3
	Direction Vec3
	TMin      float64
	TMax      float64
	ConeAngle float64
	Flags     RayFlags
}

// Ray returns the query as a plain ray
func (q RayQuery) Ray() Ray {
	return NewRay(q.Origin, q.Direction)
}

// Tracer is the contract of the ray-tracing backend
type Tracer interface {
	// CastRay returns the closest hit in [TMin, TMax], or a sky record on miss
	CastRay(q RayQuery) GeometryProps
	// CastVisibilityRay returns the attenuation along the ray in [0, 1]
	CastVisibilityRay(q RayQuery) float64
}

// MaterialEvaluator evaluates the material and direct lighting at a hit
type MaterialEvaluator interface {
	Evaluate(g GeometryProps) MaterialProps
}

// RadianceChannel selects which previous-frame signal to reproject
type RadianceChannel int

const (
	ChannelDiffuse RadianceChannel = iota
	ChannelSpecular
	ChannelCombined
)

// Reprojector fetches previous-frame radiance at the surface point described by g.
// The returned weight is the reprojection confidence in [0, 1].
type Reprojector interface {
	PreviousRadiance(g GeometryProps, pixel image.Point, channel RadianceChannel) (Vec3, float64)
}

// MotionEstimator converts a current/previous world position pair into a motion vector
type MotionEstimator interface {
	Motion(x, xPrev Vec3) Vec3
}

// InstanceHistory maps a world position on an instance to its previous-frame position
type InstanceHistory interface {
	PreviousPosition(instanceID int, x Vec3) Vec3
}

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

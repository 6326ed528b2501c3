package core

import (
	"math"
)

// Infinity is the distance reported for misses and the view depth stored for sky pixels.
const Infinity = 1e6

// Vec3 represents a 3D vector or an RGB radiance triple
type Vec3 struct {
	X, Y, Z float64
}

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Splat returns a vector with all components set to v
func Splat(v float64) Vec3 {
	return Vec3{v, v, v}
}

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// MultiplyVec returns component-wise multiplication of two vectors
func (v Vec3) MultiplyVec(other Vec3) Vec3 {
	return Vec3{
		X: v.X * other.X,
		Y: v.Y * other.Y,
		Z: v.Z * other.Z,
	}
}

// AddScalar adds s to every component
func (v Vec3) AddScalar(s float64) Vec3 {
	return Vec3{v.X + s, v.Y + s, v.Z + s}
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Normalize returns a unit vector in the same direction
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{0, 0, 0}
	}
	return Vec3{v.X / length, v.Y / length, v.Z / length}
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{
		X: -v.X,
		Y: -v.Y,
		Z: -v.Z,
	}
}

// Clamp returns a vector with components clamped to [min, max]
func (v Vec3) Clamp(minVal, maxVal float64) Vec3 {
	return Vec3{
		X: max(minVal, min(maxVal, v.X)),
		Y: max(minVal, min(maxVal, v.Y)),
		Z: max(minVal, min(maxVal, v.Z)),
	}
}

// Saturate clamps every component to [0, 1]
func (v Vec3) Saturate() Vec3 {
	return v.Clamp(0, 1)
}

// MaxScalar returns the component-wise maximum with s
func (v Vec3) MaxScalar(s float64) Vec3 {
	return Vec3{max(v.X, s), max(v.Y, s), max(v.Z, s)}
}

// Fract returns the fractional part of every component (x - floor(x))
func (v Vec3) Fract() Vec3 {
	return Vec3{
		X: v.X - math.Floor(v.X),
		Y: v.Y - math.Floor(v.Y),
		Z: v.Z - math.Floor(v.Z),
	}
}

// IsZero reports whether every component is exactly zero
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// IsFinite reports whether no component is NaN or infinite
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsNaN(v.Z) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0)
}

// Luminance returns the Rec. 709 luminance of an RGB color
func (v Vec3) Luminance() float64 {
	return 0.2126*v.X + 0.7152*v.Y + 0.0722*v.Z
}

// Lerp interpolates between a and b by t
func Lerp(a, b Vec3, t float64) Vec3 {
	return a.Add(b.Subtract(a).Multiply(t))
}

// Saturate clamps x to [0, 1]
func Saturate(x float64) float64 {
	return max(0, min(1, x))
}

// Sign returns +1 for x >= 0 and -1 otherwise
func Sign(x float64) float64 {
	if x >= 0 {
		return 1
	}
	return -1
}

// Vec2 represents a 2D vector, used for screen-space coordinates
type Vec2 struct {
	X, Y float64
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns the sum of two vectors
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Multiply returns the vector scaled by a scalar
func (v Vec2) Multiply(scalar float64) Vec2 {
	return Vec2{v.X * scalar, v.Y * scalar}
}

// Ray represents a ray with an origin and direction
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

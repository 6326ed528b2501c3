package core

// GeometryFlags classifies a hit returned by the tracing backend
type GeometryFlags uint8

const (
	FlagSky GeometryFlags = 1 << iota
	FlagTransparent
	FlagStatic
)

// GeometryProps is the hit record produced by a single ray cast.
// It is immutable once returned by the backend.
type GeometryProps struct {
	X          Vec3    // World position of the hit
	N          Vec3    // Shading normal
	V          Vec3    // Unit direction from the hit back toward the ray origin
	InstanceID int     // Owning instance, used to look up previous-frame transforms
	Curvature  float64 // Zero for flat surfaces
	Mip        float64 // Texture footprint estimate
	T          float64 // Closest-hit distance, Infinity on miss
	Flags      GeometryFlags
}

// IsSky reports whether the ray escaped the scene
func (g GeometryProps) IsSky() bool {
	return g.Flags&FlagSky != 0
}

// IsTransparent reports whether the hit surface is a transparent (glass-like) surface
func (g GeometryProps) IsTransparent() bool {
	return g.Flags&FlagTransparent != 0
}

// IsStatic reports whether the owning instance does not move between frames
func (g GeometryProps) IsStatic() bool {
	return g.Flags&FlagStatic != 0
}

// MissGeometry builds the record for a ray that escaped to the sky
func MissGeometry(ray Ray) GeometryProps {
	dir := ray.Direction.Normalize()
	return GeometryProps{
		X:     ray.Origin.Add(dir.Multiply(Infinity)),
		N:     dir.Negate(),
		V:     dir.Negate(),
		T:     Infinity,
		Flags: FlagSky | FlagStatic,
	}
}

// MaterialProps is the material evaluation at a hit
type MaterialProps struct {
	Ldirect   Vec3 // Direct lighting already accumulated at the hit (sky radiance for misses)
	Lemi      Vec3 // Emission
	N         Vec3 // Shading normal after material perturbation
	BaseColor Vec3
	Metalness float64
	Roughness float64
}

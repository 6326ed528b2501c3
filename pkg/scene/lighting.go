package scene

import (
	"math"

	"github.com/df07/go-hybrid-composer/pkg/brdf"
	"github.com/df07/go-hybrid-composer/pkg/core"
)

// Sky is a gradient sky with a sun, lit in linear radiance units
type Sky struct {
	SunDirection core.Vec3 // Unit vector toward the sun
	SunColor     core.Vec3 // Irradiance on a surface facing the sun
	Zenith       core.Vec3
	Horizon      core.Vec3
	Ground       core.Vec3
}

// DefaultSky returns a clear daylight sky for the given sun direction
func DefaultSky(sunDirection core.Vec3) Sky {
	sun := core.NewVec3(1.0, 0.95, 0.85).Multiply(3)
	if sunDirection.Y <= 0 {
		sun = core.Vec3{}
	}
	return Sky{
		SunDirection: sunDirection.Normalize(),
		SunColor:     sun,
		Zenith:       core.NewVec3(0.25, 0.45, 0.9),
		Horizon:      core.NewVec3(0.7, 0.8, 0.95),
		Ground:       core.NewVec3(0.2, 0.18, 0.15),
	}
}

// Radiance returns the sky radiance seen along dir. The sun disc is left out;
// sunlight only arrives through direct lighting.
func (s Sky) Radiance(dir core.Vec3) core.Vec3 {
	dir = dir.Normalize()
	if dir.Y < 0 {
		return core.Lerp(s.Horizon, s.Ground, core.Saturate(-dir.Y*4))
	}
	return core.Lerp(s.Horizon, s.Zenith, math.Sqrt(dir.Y))
}

// Materials evaluates instance materials under the sky's sun. It implements
// core.MaterialEvaluator; visibility is left to the caller.
type Materials struct {
	World *World
	Sky   Sky
}

var fallbackMaterial = Material{BaseColor: core.Splat(0.5), Roughness: 1}

// Evaluate returns the material and unshadowed sun lighting at a hit, or the
// sky radiance for a miss
func (m *Materials) Evaluate(g core.GeometryProps) core.MaterialProps {
	if g.IsSky() {
		return core.MaterialProps{Ldirect: m.Sky.Radiance(g.V.Negate()), N: g.N}
	}

	mat := fallbackMaterial
	if inst := m.World.Instance(g.InstanceID); inst != nil {
		mat = inst.Material
	}

	n := g.N
	if n.Dot(g.V) < 0 {
		n = n.Negate()
	}
	props := core.MaterialProps{
		Lemi:      mat.Emission,
		N:         n,
		BaseColor: mat.BaseColor,
		Metalness: mat.Metalness,
		Roughness: mat.Roughness,
	}
	if mat.Transparent {
		return props
	}
	props.Ldirect = m.sunLighting(mat, n, g.V)
	return props
}

// sunLighting evaluates Lambert diffuse plus a GGX specular lobe for the sun
func (m *Materials) sunLighting(mat Material, n, v core.Vec3) core.Vec3 {
	l := m.Sky.SunDirection
	NoL := n.Dot(l)
	if NoL <= 0 || m.Sky.SunColor.IsZero() {
		return core.Vec3{}
	}
	NoV := max(math.Abs(n.Dot(v)), 1e-4)
	h := l.Add(v).Normalize()
	NoH := core.Saturate(n.Dot(h))
	VoH := core.Saturate(v.Dot(h))

	albedo, rf0 := brdf.AlbedoRf0(mat.BaseColor, mat.Metalness)

	alpha := max(mat.Roughness*mat.Roughness, 1e-3)
	a2 := alpha * alpha
	d := NoH*NoH*(a2-1) + 1
	D := a2 / (math.Pi * d * d)
	k := alpha * 0.5
	vis := 1 / (4 * (NoL*(1-k) + k) * (NoV*(1-k) + k))
	F := rf0.Add(core.Splat(1).Subtract(rf0).Multiply(math.Pow(1-VoH, 5)))

	diffuse := albedo.MultiplyVec(core.Splat(1).Subtract(F)).Multiply(1 / math.Pi)
	specular := F.Multiply(D * vis)
	return diffuse.Add(specular).MultiplyVec(m.Sky.SunColor).Multiply(NoL)
}

// AmbientProbe averages sky radiance over the upper hemisphere, the single
// ambient sample the composers consume
func AmbientProbe(sky Sky, samples int) core.Vec3 {
	if samples <= 0 {
		samples = 64
	}
	up := core.NewVec3(0, 1, 0)
	var sum core.Vec3
	for i := 0; i < samples; i++ {
		dir := core.SampleCosineHemisphere(up, spiral(i, samples))
		sum = sum.Add(sky.Radiance(dir))
	}
	return sum.Multiply(1 / float64(samples))
}

package brdf

import (
	"math"

	"github.com/df07/go-hybrid-composer/pkg/core"
)

// Reflectance of non-metals at normal incidence
const dielectricRf0 = 0.04

// AlbedoRf0 splits base color / metalness into diffuse albedo and the
// specular reflectance at normal incidence (metallic workflow).
func AlbedoRf0(baseColor core.Vec3, metalness float64) (albedo, rf0 core.Vec3) {
	metalness = core.Saturate(metalness)
	albedo = baseColor.Multiply(1 - metalness)
	rf0 = core.Lerp(core.Splat(dielectricRf0), baseColor, metalness)
	return albedo, rf0
}

// EnvironmentTerm returns the split-sum environment BRDF (directional albedo of
// the specular lobe) using the rational fit from Ray Tracing Gems, chapter 32.
func EnvironmentTerm(rf0 core.Vec3, NoV, roughness float64) core.Vec3 {
	m := core.Saturate(roughness * roughness)

	x := [4]float64{1, NoV, NoV * NoV, NoV * NoV * NoV}
	y := [4]float64{1, m, m * m, m * m * m}

	// bias = (M1·x.xy)·y.xy / (M2·x.xyw)·y.xyw
	b0 := 0.99044*x[0] - 1.28514*x[1]
	b1 := 1.29678*x[0] - 0.755907*x[1]
	biasNum := b0*y[0] + b1*y[1]

	d0 := 1.0*x[0] + 2.92338*x[1] + 59.4188*x[3]
	d1 := 20.3225*x[0] - 27.0302*x[1] + 222.592*x[3]
	d2 := 121.563*x[0] + 626.13*x[1] + 316.627*x[3]
	biasDen := d0*y[0] + d1*y[1] + d2*y[3]

	// scale = (M3·x.xy)·y.xy / (M4·x.xzw)·y.xyw
	s0 := 0.0365463*x[0] + 3.32707*x[1]
	s1 := 9.0632*x[0] - 9.04756*x[1]
	scaleNum := s0*y[0] + s1*y[1]

	e0 := 1.0*x[0] + 3.59685*x[2] - 1.36772*x[3]
	e1 := 9.04401*x[0] - 16.3174*x[2] + 9.22949*x[3]
	e2 := 5.56589*x[0] + 19.7886*x[2] - 20.2123*x[3]
	scaleDen := e0*y[0] + e1*y[1] + e2*y[3]

	bias := biasNum / biasDen
	scale := scaleNum / scaleDen

	return rf0.Multiply(scale).AddScalar(bias).Saturate()
}

// SpecMagicCurve maps roughness to how diffuse-like a specular lobe behaves.
// 0 for mirrors, close to 1 for fully rough surfaces.
func SpecMagicCurve(roughness float64) float64 {
	f := 1.0 - math.Exp2(-200.0*roughness*roughness)
	f *= math.Pow(core.Saturate(roughness), 0.25)
	return f
}

// DiffuseProbability estimates the share of reflected energy going into the
// diffuse lobe. With boost, rough surfaces are pushed toward diffuse.
func DiffuseProbability(albedo, fenv core.Vec3, roughness float64, boost bool) float64 {
	lumSpec := fenv.Luminance()
	lumDiff := albedo.MultiplyVec(core.Splat(1).Subtract(fenv)).Luminance()

	p := lumDiff / (lumDiff + lumSpec + 1e-6)
	if boost {
		p += (1 - p) * SpecMagicCurve(roughness)
	}
	return core.Saturate(p)
}

// Demodulation floor keeping the re-modulation factors away from zero
const demodFloor = 0.01

// ModulationFactors returns the factors that turn demodulated (albedo-free)
// diffuse and specular radiance back into radiance. Both are >= 0.01.
func ModulationFactors(albedo, fenv core.Vec3) (diff, spec core.Vec3) {
	oneMinusF := core.Splat(1).Subtract(fenv)
	diff = oneMinusF.MultiplyVec(albedo).Multiply(1 - demodFloor).AddScalar(demodFloor)
	spec = fenv.Multiply(1 - demodFloor).AddScalar(demodFloor)
	return diff, spec
}

// Modulate multiplies radiance by a modulation factor
func Modulate(radiance, factor core.Vec3) core.Vec3 {
	return radiance.MultiplyVec(factor)
}

// Demodulate divides radiance by a modulation factor. Factors come from
// ModulationFactors and are never below the floor.
func Demodulate(radiance, factor core.Vec3) core.Vec3 {
	f := factor.MaxScalar(demodFloor)
	return core.NewVec3(radiance.X/f.X, radiance.Y/f.Y, radiance.Z/f.Z)
}

package denoiser

import (
	"math"

	"github.com/df07/go-hybrid-composer/pkg/core"
	"github.com/mrjoshuak/go-openexr/half"
)

// HitDistanceParams are the hit distance normalization parameters (a, b, c, d).
// The distance scale is (a + |viewZ|*b) * lerp(1, c, exp2(d * roughness^2)).
var HitDistanceParams = [4]float64{3, 0.1, 20, -25}

// NormHitDist maps a world-space hit distance into [0,1] relative to the
// expected hit distance for the given depth and roughness
func NormHitDist(hitT, viewZ, roughness float64) float64 {
	p := HitDistanceParams
	scale := (p[0] + math.Abs(viewZ)*p[1]) * (1 + (p[2]-1)*math.Exp2(p[3]*roughness*roughness))
	return core.Saturate(hitT / scale)
}

// LinearToYCoCg converts linear RGB into luma and two chroma channels
func LinearToYCoCg(c core.Vec3) core.Vec3 {
	y := 0.25*c.X + 0.5*c.Y + 0.25*c.Z
	co := 0.5*c.X - 0.5*c.Z
	cg := -0.25*c.X + 0.5*c.Y - 0.25*c.Z
	return core.NewVec3(y, co, cg)
}

// YCoCgToLinear is the inverse of LinearToYCoCg. Negative results are clamped.
func YCoCgToLinear(c core.Vec3) core.Vec3 {
	t := c.X - c.Z
	return core.NewVec3(t+c.Y, c.X+c.Z, t-c.Y).MaxScalar(0)
}

// quantize rounds every component through an IEEE half float, the precision of
// the RGBA16F targets the denoiser writes
func quantize(v [4]float64) [4]float64 {
	for i := range v {
		v[i] = half.FromFloat64(v[i]).Float64()
	}
	return v
}

// PackRadiance packs radiance and hit distance for the Normal mode. Reblur
// expects a normalized hit distance, Relax a world-space one.
func PackRadiance(family Family, radiance core.Vec3, hitDist float64) [4]float64 {
	radiance = radiance.MaxScalar(0)
	if family.PacksYCoCg() {
		radiance = LinearToYCoCg(radiance)
	}
	return quantize([4]float64{radiance.X, radiance.Y, radiance.Z, hitDist})
}

// PackOcclusion packs a scalar occlusion value for the Occlusion mode
func PackOcclusion(occlusion float64) [4]float64 {
	return quantize([4]float64{core.Saturate(occlusion), 0, 0, 0})
}

// PackSH packs a zeroth-order term (color and hit distance) and the first-order
// luma moment. moment is the luma-weighted mean of the incoming directions,
// Σ luma·dir / n; its length relative to the luma carries the lobe spread.
func PackSH(family Family, radiance, moment core.Vec3, hitDist float64) (sh0, sh1 [4]float64) {
	radiance = radiance.MaxScalar(0)
	color := radiance
	if family.PacksYCoCg() {
		color = LinearToYCoCg(radiance)
	}
	sh0 = quantize([4]float64{color.X, color.Y, color.Z, hitDist})
	sh1 = quantize([4]float64{moment.X, moment.Y, moment.Z, 0})
	return sh0, sh1
}

// PackDirectionalOcclusion packs occlusion as a lobe: the occlusion-weighted
// mean direction in .xyz and the occlusion itself in .w
func PackDirectionalOcclusion(occlusion float64, moment core.Vec3) [4]float64 {
	occlusion = core.Saturate(occlusion)
	return quantize([4]float64{moment.X, moment.Y, moment.Z, occlusion})
}

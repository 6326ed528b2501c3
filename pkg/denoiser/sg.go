package denoiser

import (
	"math"

	"github.com/df07/go-hybrid-composer/pkg/brdf"
	"github.com/df07/go-hybrid-composer/pkg/core"
)

const maxDirectionality = 0.999

// SG is a spherical-Gaussian style lobe rebuilt from the two SH buffers: a
// zeroth-order color (luma C0 plus chroma) and a first-order luma moment C1
type SG struct {
	C0          float64
	Co, Cg      float64
	C1          core.Vec3
	NormHitDist float64
}

// NewSG unpacks a lobe from the zeroth- and first-order buffers
func NewSG(family Family, sh0, sh1 [4]float64) SG {
	ycocg := core.NewVec3(sh0[0], sh0[1], sh0[2])
	if !family.PacksYCoCg() {
		ycocg = LinearToYCoCg(ycocg)
	}
	return SG{
		C0:          ycocg.X,
		Co:          ycocg.Y,
		Cg:          ycocg.Z,
		C1:          core.NewVec3(sh1[0], sh1[1], sh1[2]),
		NormHitDist: sh0[3],
	}
}

// Color returns the direction-independent radiance of the lobe
func (sg SG) Color() core.Vec3 {
	return YCoCgToLinear(core.NewVec3(sg.C0, sg.Co, sg.Cg))
}

// Direction returns the unit lobe axis, or zero for an isotropic lobe
func (sg SG) Direction() core.Vec3 {
	return sg.C1.Normalize()
}

// Directionality returns |C1|/C0 in [0, 0.999]
func (sg SG) Directionality() float64 {
	if sg.C0 <= 0 {
		return 0
	}
	return min(sg.C1.Length()/sg.C0, maxDirectionality)
}

// Sharpness converts directionality into a lobe sharpness (von Mises-Fisher
// concentration estimate)
func (sg SG) Sharpness() float64 {
	f := sg.Directionality()
	return f * (3 - f*f) / (1 - f*f)
}

// Roughness returns the GGX roughness whose lobe width matches the sharpness
func (sg SG) Roughness() float64 {
	return math.Pow(2/(sg.Sharpness()+2), 0.25)
}

// scaled returns the lobe color with its luma scaled to y
func (sg SG) scaled(y float64) core.Vec3 {
	if sg.C0 <= 0 {
		return sg.Color()
	}
	return sg.Color().Multiply(y / sg.C0)
}

// diffuseLuma evaluates the irradiance luma toward n with the Geomerics L1
// reconstruction
func (sg SG) diffuseLuma(n core.Vec3) float64 {
	r0 := sg.C0
	if r0 <= 0 {
		return 0
	}
	r1 := sg.C1.Multiply(0.5)
	lenR1 := r1.Length()
	if lenR1 == 0 {
		return r0
	}
	ratio := min(lenR1/r0, 1)
	q := 0.5 * (1 + r1.Multiply(1/lenR1).Dot(n))
	p := 1 + 2*ratio
	a := (1 - ratio) / (1 + ratio)
	return r0 * (a + (1-a)*(p+1)*math.Pow(core.Saturate(q), p))
}

// ResolveDiffuse evaluates the lobe toward the surface normal
func (sg SG) ResolveDiffuse(n core.Vec3) core.Vec3 {
	return sg.scaled(sg.diffuseLuma(n))
}

// specularRatio returns how much brighter the lobe is along the mirror
// direction of v about n than on average, for a surface of the given roughness
func (sg SG) specularRatio(n, v core.Vec3, roughness float64) float64 {
	f := sg.Directionality()
	if f == 0 {
		return 1
	}
	r := brdf.Reflect(v.Negate(), n)
	lambda := sg.Sharpness()
	alpha := roughness * roughness
	lambdaBRDF := 2 / max(alpha*alpha, 1e-4)
	lambdaEff := lambda * lambdaBRDF / (lambda + lambdaBRDF)
	return max(0, 1+f*sg.Direction().Dot(r)*lambdaEff/(lambdaEff+1))
}

// ResolveSpecular evaluates the lobe along the reflection of v about n
func (sg SG) ResolveSpecular(n, v core.Vec3, roughness float64) core.Vec3 {
	return sg.Color().Multiply(sg.specularRatio(n, v, roughness))
}

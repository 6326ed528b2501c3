package scene

import (
	"image"
	"math"

	"github.com/df07/go-hybrid-composer/pkg/brdf"
	"github.com/df07/go-hybrid-composer/pkg/camera"
	"github.com/df07/go-hybrid-composer/pkg/core"
	"github.com/df07/go-hybrid-composer/pkg/denoiser"
	"github.com/df07/go-hybrid-composer/pkg/framebuffer"
)

const rayOffsetScale = 1e-4

// offset pushes a ray origin off the surface along n
func offset(x, n core.Vec3) core.Vec3 {
	scale := rayOffsetScale * (1 + max(math.Abs(x.X), math.Abs(x.Y), math.Abs(x.Z)))
	return x.Add(n.Multiply(scale))
}

// GBufferPass rasterizes opaque surfaces into a G-buffer by ray casting.
// Transparent geometry is skipped; the lighting composer traces it later.
type GBufferPass struct {
	Camera           *camera.Camera
	World            *World
	Materials        *Materials
	Shadows          bool
	SunAngularRadius float64
	Target           *framebuffer.GBuffer
	Motion           *framebuffer.Buffer // Optional
}

// ShadePixel fills the G-buffer texel at p
func (g *GBufferPass) ShadePixel(p image.Point) {
	cam := g.Camera
	if !p.In(cam.Rect()) {
		return
	}
	t := g.Target

	ray := cam.Ray(cam.SampleUV(p))
	hit := g.World.CastRay(core.RayQuery{
		Origin:    ray.Origin,
		Direction: ray.Direction,
		Flags:     core.GeometryIgnoreTransparent,
	})
	m := g.Materials.Evaluate(hit)

	g.writeMotion(p, hit)

	if hit.IsSky() {
		t.ViewZ.SetRaw(p, [4]float64{core.Infinity, 0, 0, 0})
		t.NormalRoughness.SetRaw(p, framebuffer.PackNormalRoughness(hit.N, 1))
		t.BaseColorMetalness.SetRaw(p, [4]float64{})
		t.DirectLighting.Set(p, m.Ldirect, 0)
		t.DirectEmission.Set(p, core.Vec3{}, 0)
		return
	}

	_, viewZ := cam.Project(hit.X)
	direct := m.Ldirect
	if g.Shadows && direct.Luminance() != 0 {
		direct = direct.Multiply(g.World.CastVisibilityRay(core.RayQuery{
			Origin:    offset(hit.X, m.N),
			Direction: g.Materials.Sky.SunDirection,
			ConeAngle: g.SunAngularRadius,
			Flags:     core.GeometryIgnoreTransparent,
		}))
	}

	t.ViewZ.SetRaw(p, [4]float64{viewZ, 0, 0, 0})
	t.NormalRoughness.SetRaw(p, framebuffer.PackNormalRoughness(m.N, m.Roughness))
	t.BaseColorMetalness.SetRaw(p, [4]float64{m.BaseColor.X, m.BaseColor.Y, m.BaseColor.Z, m.Metalness})
	t.DirectLighting.Set(p, direct, 0)
	t.DirectEmission.Set(p, m.Lemi, 0)
}

// writeMotion stores the screen-space motion of the primary hit
func (g *GBufferPass) writeMotion(p image.Point, hit core.GeometryProps) {
	if g.Motion == nil {
		return
	}
	xPrev := hit.X
	if !hit.IsStatic() {
		xPrev = g.World.PreviousPosition(hit.InstanceID, hit.X)
	}
	g.Motion.Set(p, g.Camera.Motion(hit.X, xPrev), 0)
}

// IndirectPass produces the inputs a denoiser would hand back: one bounce of
// diffuse and specular indirect light per pixel, demodulated and packed for
// the selected mode and family. It stands in for a real denoiser.
type IndirectPass struct {
	Camera           *camera.Camera
	World            *World
	Materials        *Materials
	GBuffer          *framebuffer.GBuffer
	Mode             denoiser.Mode
	Family           denoiser.Family
	Samples          int
	FrameIndex       uint32
	Shadows          bool
	SunAngularRadius float64
	Target           *framebuffer.Denoised
}

// maxHitDist keeps world-space hit distances inside half-float range
const maxHitDist = 1e3

// lobeEstimate is the averaged result of the rays traced for one lobe
type lobeEstimate struct {
	radiance core.Vec3
	// Luma-weighted mean of the incoming directions
	lumaMoment core.Vec3
	// Occlusion-weighted mean of the incoming directions
	occlusionMoment core.Vec3
	// Mean of the per-sample normalized hit distances
	occlusion float64
	// Mean world-space hit distance, clamped to maxHitDist
	hitT float64
}

// ShadePixel fills the denoised texels at p
func (d *IndirectPass) ShadePixel(p image.Point) {
	cam := d.Camera
	if !p.In(cam.Rect()) {
		return
	}
	gb := d.GBuffer
	viewZ := gb.ViewZ.Raw(p)[0]
	if math.Abs(viewZ) >= core.Infinity {
		d.write(p, lobeEstimate{}, lobeEstimate{})
		return
	}

	n, roughness := gb.ReadSurface(p)
	x := cam.WorldPosition(cam.ViewPosition(cam.PixelUV(p), viewZ))
	v := cam.ViewVector(x)
	sampler := core.NewHashSampler(p, d.FrameIndex)

	samples := max(d.Samples, 1)
	var diff, spec lobeEstimate
	for i := 0; i < samples; i++ {
		dir := core.SampleCosineHemisphere(n, sampler.Get2D())
		L, hitT := d.gather(x, n, dir)
		diff.add(L, dir, hitT, denoiser.NormHitDist(hitT, viewZ, 1))

		r := brdf.Reflect(v.Negate(), n)
		cosWidth := math.Cos(roughness * roughness * math.Pi * 0.5)
		dir = core.SampleCone(r, cosWidth, sampler.Get2D())
		if dir.Dot(n) <= 0 {
			dir = r
		}
		L, hitT = d.gather(x, n, dir)
		spec.add(L, dir, hitT, denoiser.NormHitDist(hitT, viewZ, roughness))
	}
	diff.scale(1 / float64(samples))
	spec.scale(1 / float64(samples))

	d.write(p, diff, spec)
}

func (e *lobeEstimate) add(L, dir core.Vec3, hitT, occlusion float64) {
	e.radiance = e.radiance.Add(L)
	e.lumaMoment = e.lumaMoment.Add(dir.Multiply(denoiser.LinearToYCoCg(L.MaxScalar(0)).X))
	e.occlusionMoment = e.occlusionMoment.Add(dir.Multiply(occlusion))
	e.occlusion += occlusion
	e.hitT += min(hitT, maxHitDist)
}

func (e *lobeEstimate) scale(s float64) {
	e.radiance = e.radiance.Multiply(s)
	e.lumaMoment = e.lumaMoment.Multiply(s)
	e.occlusionMoment = e.occlusionMoment.Multiply(s)
	e.occlusion *= s
	e.hitT *= s
}

// hitDist is the hit distance a family expects next to radiance
func (e *lobeEstimate) hitDist(family denoiser.Family) float64 {
	if family.PacksYCoCg() {
		return e.occlusion
	}
	return e.hitT
}

// gather traces one indirect ray and returns the radiance arriving along it
// and the distance it travelled
func (d *IndirectPass) gather(x, n, dir core.Vec3) (core.Vec3, float64) {
	hit := d.World.CastRay(core.RayQuery{
		Origin:    offset(x, n),
		Direction: dir,
		Flags:     core.GeometryIgnoreTransparent,
	})
	m := d.Materials.Evaluate(hit)
	if hit.IsSky() {
		return m.Ldirect, core.Infinity
	}

	L := m.Ldirect
	if d.Shadows && L.Luminance() != 0 {
		L = L.Multiply(d.World.CastVisibilityRay(core.RayQuery{
			Origin:    offset(hit.X, m.N),
			Direction: d.Materials.Sky.SunDirection,
			ConeAngle: d.SunAngularRadius,
			Flags:     core.GeometryIgnoreTransparent,
		}))
	}
	return L.Add(m.Lemi), hit.T
}

func (d *IndirectPass) write(p image.Point, diff, spec lobeEstimate) {
	t := d.Target
	switch d.Mode {
	case denoiser.ModeOcclusion:
		t.Diff.SetRaw(p, denoiser.PackOcclusion(diff.occlusion))
		t.Spec.SetRaw(p, denoiser.PackOcclusion(spec.occlusion))
	case denoiser.ModeDirectionalOcclusion:
		t.Diff.SetRaw(p, denoiser.PackDirectionalOcclusion(diff.occlusion, diff.occlusionMoment))
		t.Spec.SetRaw(p, [4]float64{})
	case denoiser.ModeSphericalHarmonics:
		sh0, sh1 := denoiser.PackSH(d.Family, diff.radiance, diff.lumaMoment, diff.hitDist(d.Family))
		t.Diff.SetRaw(p, sh0)
		t.Diff1.SetRaw(p, sh1)
		sh0, sh1 = denoiser.PackSH(d.Family, spec.radiance, spec.lumaMoment, spec.hitDist(d.Family))
		t.Spec.SetRaw(p, sh0)
		t.Spec1.SetRaw(p, sh1)
	default:
		t.Diff.SetRaw(p, denoiser.PackRadiance(d.Family, diff.radiance, diff.hitDist(d.Family)))
		t.Spec.SetRaw(p, denoiser.PackRadiance(d.Family, spec.radiance, spec.hitDist(d.Family)))
	}
}

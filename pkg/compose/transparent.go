package compose

import (
	"image"
	"math"

	"github.com/df07/go-hybrid-composer/pkg/brdf"
	"github.com/df07/go-hybrid-composer/pkg/core"
)

const (
	// Fraction of radiance surviving each pass through glass
	glassAbsorption = 0.96
	rayOffsetScale  = 1e-4
)

// TraceTransparentDesc is the input of one transparent path
type TraceTransparentDesc struct {
	Geometry     core.GeometryProps // First transparent hit
	Ambient      core.Vec3
	Pixel        image.Point
	BounceNum    int
	IsReflection bool // Branch forced on the first bounce
}

// TransparentTracer follows a reflection/refraction path through glass until
// it reaches an opaque surface or the sky
type TransparentTracer struct {
	Config      *FrameConfig
	Tracer      core.Tracer
	Materials   core.MaterialEvaluator
	History     core.Reprojector // Optional
	Diagnostics *Diagnostics     // Optional
}

type traceOutcome int

const (
	outcomeOpaque traceOutcome = iota
	outcomeSky
	outcomeTotalInternalReflection
	outcomeExhausted
)

type traceResult struct {
	radiance      core.Vec3
	transmittance float64
	bounces       int
	outcome       traceOutcome
}

// Trace returns the radiance carried back along the path, already scaled by
// the path transmittance
func (t *TransparentTracer) Trace(desc TraceTransparentDesc, sampler core.Sampler) core.Vec3 {
	return t.trace(desc, sampler).radiance
}

func (t *TransparentTracer) trace(desc TraceTransparentDesc, sampler core.Sampler) traceResult {
	eta := brdf.IORAir / brdf.IORGlass
	g := desc.Geometry
	transmittance := 1.0

	for bounce := 1; bounce <= desc.BounceNum; bounce++ {
		n := g.N
		NoV := n.Dot(g.V)
		if NoV < 0 {
			n = n.Negate()
			NoV = -NoV
		}
		F := brdf.FresnelDielectric(eta, NoV)

		isReflection := desc.IsReflection
		if bounce == 1 {
			if isReflection {
				transmittance *= F
			} else {
				transmittance *= 1 - F
			}
		} else {
			isReflection = sampler.Get1D() < F
		}

		var dir, side core.Vec3
		if isReflection {
			dir = brdf.Reflect(g.V.Negate(), n)
			side = n
		} else {
			refracted, ok := brdf.Refract(g.V.Negate(), n, eta)
			if !ok {
				t.Diagnostics.addTotalInternalReflection()
				return traceResult{transmittance: transmittance, bounces: bounce, outcome: outcomeTotalInternalReflection}
			}
			dir = refracted
			side = n.Negate()
			transmittance *= glassAbsorption
			eta = 1 / eta
		}

		flags := core.GeometryAll
		if bounce == desc.BounceNum {
			flags = core.GeometryIgnoreTransparent
		}
		g = t.Tracer.CastRay(core.RayQuery{
			Origin:    offsetRay(g.X, side),
			Direction: dir,
			TMax:      core.Infinity,
			Flags:     flags,
		})

		if g.IsSky() {
			sky := t.Materials.Evaluate(g).Ldirect
			return traceResult{radiance: sky.Multiply(transmittance), transmittance: transmittance, bounces: bounce, outcome: outcomeSky}
		}
		if !g.IsTransparent() {
			L := t.shade(g, desc)
			return traceResult{radiance: L.Multiply(transmittance), transmittance: transmittance, bounces: bounce, outcome: outcomeOpaque}
		}
	}

	t.Diagnostics.addExhaustedPath()
	return traceResult{transmittance: transmittance, bounces: desc.BounceNum, outcome: outcomeExhausted}
}

// shade returns the radiance leaving an opaque hit toward the path
func (t *TransparentTracer) shade(g core.GeometryProps, desc TraceTransparentDesc) core.Vec3 {
	m := t.Materials.Evaluate(g)

	L := m.Ldirect
	if t.Config.Shadows && L.Luminance() != 0 {
		visibility := t.Tracer.CastVisibilityRay(core.RayQuery{
			Origin:    offsetRay(g.X, m.N),
			Direction: t.Config.SunDirection,
			TMax:      core.Infinity,
			ConeAngle: t.Config.SunAngularRadius,
			Flags:     core.GeometryIgnoreTransparent,
		})
		L = L.Multiply(visibility)
	}
	L = L.Add(m.Lemi)

	albedo, rf0 := brdf.AlbedoRf0(m.BaseColor, m.Metalness)
	NoV := math.Abs(m.N.Dot(g.V))
	fenv := brdf.EnvironmentTerm(rf0, NoV, m.Roughness)
	diffProb := brdf.DiffuseProbability(albedo, fenv, m.Roughness, true)

	ambientBRDF := albedo.MultiplyVec(core.Splat(1).Subtract(fenv)).Add(fenv)
	L = L.Add(desc.Ambient.MultiplyVec(ambientBRDF).Multiply(diffProb))

	if t.History != nil {
		prev, confidence := t.History.PreviousRadiance(g, desc.Pixel, core.ChannelCombined)
		L = core.Lerp(L, prev, core.Saturate(confidence))
	}
	return L
}

// offsetRay pushes a ray origin off the surface along n to avoid self hits
func offsetRay(x, n core.Vec3) core.Vec3 {
	scale := rayOffsetScale * (1 + max(math.Abs(x.X), math.Abs(x.Y), math.Abs(x.Z)))
	return x.Add(n.Multiply(scale))
}

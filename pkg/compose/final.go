package compose

import (
	"fmt"
	"image"
	"math"

	"github.com/df07/go-hybrid-composer/pkg/brdf"
	"github.com/df07/go-hybrid-composer/pkg/core"
	"github.com/df07/go-hybrid-composer/pkg/denoiser"
	"github.com/df07/go-hybrid-composer/pkg/framebuffer"
)

const (
	// DepthAlphaScale fits the depth stored in output alpha into half floats
	DepthAlphaScale = 0.125
	// Ambient fades out with exp2(-k * d^2), d in meters from the camera
	ambientFalloff = 1e-4
)

// FinalSources are the G-buffer and denoiser outputs the final composer reads
type FinalSources struct {
	GBuffer      *framebuffer.GBuffer
	Denoised     *framebuffer.Denoised
	AmbientProbe core.Vec3
}

// FinalTargets receive the composed diffuse and specular radiance. The alpha
// of both carries the depth, signed by whether the surface faces the sun.
type FinalTargets struct {
	Diff *framebuffer.Buffer
	Spec *framebuffer.Buffer
}

// FinalComposer decodes denoised indirect lighting and recombines it with
// direct and ambient light
type FinalComposer struct {
	Config  *FrameConfig
	Decoder denoiser.Decoder
	Sources FinalSources
	Targets FinalTargets
}

// NewFinalComposer builds a composer with the decoder selected by the frame's
// denoiser mode and family
func NewFinalComposer(cfg *FrameConfig, src FinalSources, dst FinalTargets) (*FinalComposer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	decoder, err := denoiser.NewDecoder(cfg.Mode, cfg.Family, cfg.DecoderOptions())
	if err != nil {
		return nil, fmt.Errorf("final composer: %w", err)
	}
	return &FinalComposer{Config: cfg, Decoder: decoder, Sources: src, Targets: dst}, nil
}

// ComposePixel runs the kernel for one pixel
func (c *FinalComposer) ComposePixel(p image.Point) {
	cfg := c.Config
	cam := cfg.Camera
	if !p.In(cam.Rect()) {
		return
	}
	gb := c.Sources.GBuffer

	viewZ := gb.ViewZ.Raw(p)[0]
	alpha := math.Abs(viewZ) * DepthAlphaScale
	direct := gb.DirectLighting.Get(p)

	if math.Abs(viewZ) >= core.Infinity {
		var sky core.Vec3
		if cfg.OnScreen == ViewFinal {
			sky = direct
		}
		c.Targets.Diff.Set(p, sky, alpha)
		c.Targets.Spec.Set(p, core.Vec3{}, alpha)
		return
	}

	n, roughness := gb.ReadSurface(p)
	bm := gb.BaseColorMetalness.Raw(p)
	baseColor, metalness := core.NewVec3(bm[0], bm[1], bm[2]), bm[3]
	albedo, rf0 := brdf.AlbedoRf0(baseColor, metalness)

	xv := cam.ViewPosition(cam.PixelUV(p), viewZ)
	x := cam.WorldPosition(xv)
	v := cam.ViewVector(x)

	res := c.Decoder.Decode(c.sample(p), c.surface(p, n, v, viewZ, roughness))
	roughness = res.Roughness
	diffOcc, specOcc := res.Diffuse.HitDist, res.Specular.HitDist

	diff := res.Diffuse.Radiance.Multiply(cfg.IndirectDiffuse)
	spec := res.Specular.Radiance.Multiply(cfg.IndirectSpecular)

	NoV := math.Abs(n.Dot(v))
	fenv := brdf.EnvironmentTerm(rf0, NoV, roughness)

	diffFactor, specFactor := brdf.ModulationFactors(albedo, fenv)
	if cfg.Reference {
		diffFactor, specFactor = core.Splat(1), core.Splat(1)
	}
	diff = brdf.Modulate(diff, diffFactor)
	spec = brdf.Modulate(spec, specFactor)

	distMeters := xv.Multiply(cfg.UnitToMeters).LengthSquared()
	Lamb := c.Sources.AmbientProbe.Multiply(cfg.Ambient * math.Exp2(-ambientFalloff*distMeters))

	specAmbient := roughness
	if cfg.Family == denoiser.FamilyReblur {
		specAmbient = brdf.SpecMagicCurve(roughness)
	}
	oneMinusF := core.Splat(1).Subtract(fenv)
	diff = diff.Add(Lamb.MultiplyVec(oneMinusF).MultiplyVec(albedo).Multiply(diffOcc))
	spec = spec.Add(Lamb.MultiplyVec(fenv).Multiply(specOcc * specAmbient))

	// Direct light goes with diffuse, which reprojects the same way
	emission := gb.DirectEmission.Get(p)
	diff = diff.Add(direct).Add(emission)

	diff = substitute(cfg.OnScreen, diff, &debugInputs{
		denoisedDiff: res.Diffuse.Radiance,
		denoisedSpec: res.Specular.Radiance,
		diffOcc:      diffOcc,
		specOcc:      specOcc,
		baseColor:    baseColor,
		normal:       n,
		roughness:    roughness,
		metalness:    metalness,
		worldPos:     x,
		unitToMeters: cfg.UnitToMeters,
		direct:       direct,
	})

	alpha *= core.Sign(n.Dot(cfg.SunDirection))
	c.Targets.Diff.Set(p, diff, alpha)
	c.Targets.Spec.Set(p, spec, alpha)
}

func (c *FinalComposer) sample(p image.Point) denoiser.Sample {
	d := c.Sources.Denoised
	s := denoiser.Sample{Diff: d.Diff.Raw(p), Spec: d.Spec.Raw(p)}
	if c.Decoder.Mode() == denoiser.ModeSphericalHarmonics {
		s.Diff1 = d.Diff1.Raw(p)
		s.Spec1 = d.Spec1.Raw(p)
	}
	return s
}

var neighborOffsets = [4]image.Point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

func (c *FinalComposer) surface(p image.Point, n, v core.Vec3, viewZ, roughness float64) denoiser.Surface {
	surf := denoiser.Surface{N: n, V: v, ViewZ: viewZ, Roughness: roughness}
	if !c.Config.DecoderOptions().Resolve {
		return surf
	}

	gb := c.Sources.GBuffer
	for i, off := range neighborOffsets {
		q := gb.ViewZ.Clamp(p.Add(off))
		nq, _ := gb.ReadSurface(q)
		surf.Neighbors[i] = denoiser.Neighbor{N: nq, ViewZ: gb.ViewZ.Raw(q)[0]}
	}
	return surf
}

package denoiser

import (
	"fmt"
	"math"

	"github.com/df07/go-hybrid-composer/pkg/core"
)

// Signal is a decoded radiance value and its hit distance. In occlusion modes
// the hit distance doubles as the occlusion term.
type Signal struct {
	Radiance core.Vec3
	HitDist  float64
}

// Result is the canonical decode output shared by every mode
type Result struct {
	Diffuse   Signal
	Specular  Signal
	Roughness float64
}

// Sample holds the raw denoiser outputs at a pixel. Diff1 and Spec1 are only
// read in the SH mode.
type Sample struct {
	Diff, Spec   [4]float64
	Diff1, Spec1 [4]float64
}

// Options controls the optional resolve stages
type Options struct {
	// Resolve re-applies macro directionality toward the true normal and
	// micro detail through neighbourhood re-jitter
	Resolve bool
	// ReplaceRoughness substitutes the specular lobe's effective roughness for
	// the G-buffer roughness when resolving
	ReplaceRoughness bool
}

// Decoder reconstructs canonical signals from one packed format
type Decoder interface {
	Mode() Mode
	Decode(s Sample, surf Surface) Result
}

// OcclusionFallback is the occlusion reported by families without occlusion
// output: the diffuse normalization constant 1/pi
const OcclusionFallback = 1 / math.Pi

var decoderTable = map[Mode]func(Family, Options) Decoder{
	ModeNormal: func(f Family, _ Options) Decoder {
		return normalDecoder{family: f}
	},
	ModeOcclusion: func(Family, Options) Decoder {
		return occlusionDecoder{}
	},
	ModeDirectionalOcclusion: func(_ Family, o Options) Decoder {
		return directionalOcclusionDecoder{opts: o}
	},
	ModeSphericalHarmonics: func(f Family, o Options) Decoder {
		return shDecoder{family: f, opts: o}
	},
}

// NewDecoder returns the decoder for a mode, adapted to the family's packing
func NewDecoder(mode Mode, family Family, opts Options) (Decoder, error) {
	build, ok := decoderTable[mode]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownMode, mode)
	}
	if _, ok := familyNames[family]; !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownFamily, family)
	}

	d := build(family, opts)
	if !family.SupportsOcclusion() {
		d = occlusionFallback{Decoder: d}
	}
	return d, nil
}

type normalDecoder struct {
	family Family
}

func (normalDecoder) Mode() Mode { return ModeNormal }

func (d normalDecoder) Decode(s Sample, surf Surface) Result {
	return Result{
		Diffuse:   d.unpack(s.Diff),
		Specular:  d.unpack(s.Spec),
		Roughness: surf.Roughness,
	}
}

func (d normalDecoder) unpack(v [4]float64) Signal {
	radiance := core.NewVec3(v[0], v[1], v[2])
	if d.family.PacksYCoCg() {
		radiance = YCoCgToLinear(radiance)
	}
	return Signal{Radiance: radiance.MaxScalar(0), HitDist: v[3]}
}

type occlusionDecoder struct{}

func (occlusionDecoder) Mode() Mode { return ModeOcclusion }

func (occlusionDecoder) Decode(s Sample, surf Surface) Result {
	return Result{
		Diffuse:   Signal{HitDist: s.Diff[0]},
		Specular:  Signal{HitDist: s.Spec[0]},
		Roughness: surf.Roughness,
	}
}

type directionalOcclusionDecoder struct {
	opts Options
}

func (directionalOcclusionDecoder) Mode() Mode { return ModeDirectionalOcclusion }

func (d directionalOcclusionDecoder) Decode(s Sample, surf Surface) Result {
	sg := SG{
		C0:          s.Diff[3],
		C1:          core.NewVec3(s.Diff[0], s.Diff[1], s.Diff[2]),
		NormHitDist: s.Diff[3],
	}

	occlusion := sg.C0
	if d.opts.Resolve {
		occlusion = sg.diffuseLuma(surf.N) * rejitterScale(surf, sg.diffuseLuma)
	}

	return Result{
		Diffuse:   Signal{HitDist: core.Saturate(occlusion)},
		Roughness: surf.Roughness,
	}
}

type shDecoder struct {
	family Family
	opts   Options
}

func (shDecoder) Mode() Mode { return ModeSphericalHarmonics }

func (d shDecoder) Decode(s Sample, surf Surface) Result {
	diff := NewSG(d.family, s.Diff, s.Diff1)
	spec := NewSG(d.family, s.Spec, s.Spec1)

	res := Result{
		Diffuse:   Signal{Radiance: diff.Color(), HitDist: diff.NormHitDist},
		Specular:  Signal{Radiance: spec.Color(), HitDist: spec.NormHitDist},
		Roughness: surf.Roughness,
	}
	if !d.opts.Resolve {
		return res
	}

	diffScale := rejitterScale(surf, diff.diffuseLuma)
	res.Diffuse.Radiance = diff.ResolveDiffuse(surf.N).Multiply(diffScale)

	specScale := rejitterScale(surf, func(n core.Vec3) float64 {
		return spec.specularRatio(n, surf.V, surf.Roughness)
	})
	res.Specular.Radiance = spec.ResolveSpecular(surf.N, surf.V, surf.Roughness).Multiply(specScale)

	if d.opts.ReplaceRoughness {
		res.Roughness = spec.Roughness()
	}
	return res
}

// occlusionFallback reports a fixed occlusion for families that do not
// produce one, whatever the inner decoder found in the hit distance channel
type occlusionFallback struct {
	Decoder
}

func (d occlusionFallback) Decode(s Sample, surf Surface) Result {
	res := d.Decoder.Decode(s, surf)
	res.Diffuse.HitDist = OcclusionFallback
	res.Specular.HitDist = OcclusionFallback
	return res
}

package framebuffer

import (
	"fmt"
	"image"
	"math"

	"github.com/df07/go-hybrid-composer/pkg/core"
)

// GBuffer holds the per-pixel surface attributes produced by the primary pass.
//
//	ViewZ              .x = signed view depth, core.Infinity for sky
//	NormalRoughness    octahedral normal in .xy, linear roughness in .z
//	BaseColorMetalness sRGB-free base color in .rgb, metalness in .a
//	DirectLighting     sun lighting in .rgb
//	DirectEmission     emitted radiance in .rgb
type GBuffer struct {
	ViewZ              *Buffer
	NormalRoughness    *Buffer
	BaseColorMetalness *Buffer
	DirectLighting     *Buffer
	DirectEmission     *Buffer
}

// NewGBuffer allocates every G-buffer target at the given size
func NewGBuffer(width, height int) (*GBuffer, error) {
	buffers := make([]*Buffer, 5)
	for i := range buffers {
		b, err := New(width, height)
		if err != nil {
			return nil, fmt.Errorf("allocate gbuffer: %w", err)
		}
		buffers[i] = b
	}
	return &GBuffer{
		ViewZ:              buffers[0],
		NormalRoughness:    buffers[1],
		BaseColorMetalness: buffers[2],
		DirectLighting:     buffers[3],
		DirectEmission:     buffers[4],
	}, nil
}

// Named returns the G-buffer targets keyed by file-friendly names
func (g *GBuffer) Named() map[string]*Buffer {
	return map[string]*Buffer{
		"viewz":            g.ViewZ,
		"normal_roughness": g.NormalRoughness,
		"basecolor_metal":  g.BaseColorMetalness,
		"direct_lighting":  g.DirectLighting,
		"direct_emission":  g.DirectEmission,
	}
}

// Denoised holds the denoiser outputs. Diff1 and Spec1 carry the first-order
// SH coefficients and are only populated in the SH mode.
type Denoised struct {
	Diff  *Buffer
	Spec  *Buffer
	Diff1 *Buffer
	Spec1 *Buffer
}

// NewDenoised allocates every denoiser output at the given size
func NewDenoised(width, height int) (*Denoised, error) {
	buffers := make([]*Buffer, 4)
	for i := range buffers {
		b, err := New(width, height)
		if err != nil {
			return nil, fmt.Errorf("allocate denoised targets: %w", err)
		}
		buffers[i] = b
	}
	return &Denoised{Diff: buffers[0], Spec: buffers[1], Diff1: buffers[2], Spec1: buffers[3]}, nil
}

// Named returns the denoiser outputs keyed by file-friendly names
func (d *Denoised) Named() map[string]*Buffer {
	return map[string]*Buffer{
		"denoised_diff":  d.Diff,
		"denoised_spec":  d.Spec,
		"denoised_diff1": d.Diff1,
		"denoised_spec1": d.Spec1,
	}
}

// ReadSurface returns the unpacked normal and roughness at p
func (g *GBuffer) ReadSurface(p image.Point) (core.Vec3, float64) {
	return UnpackNormalRoughness(g.NormalRoughness.Raw(p))
}

// PackNormalRoughness encodes a unit normal with octahedral mapping into
// [0,1]^2 and stores roughness alongside it
func PackNormalRoughness(n core.Vec3, roughness float64) [4]float64 {
	n = n.Normalize()
	l1 := math.Abs(n.X) + math.Abs(n.Y) + math.Abs(n.Z)
	if l1 == 0 {
		return [4]float64{0.5, 0.5, core.Saturate(roughness), 0}
	}
	x, y := n.X/l1, n.Y/l1
	if n.Z < 0 {
		x, y = (1-math.Abs(y))*core.Sign(x), (1-math.Abs(x))*core.Sign(y)
	}
	return [4]float64{x*0.5 + 0.5, y*0.5 + 0.5, core.Saturate(roughness), 0}
}

// UnpackNormalRoughness reverses PackNormalRoughness
func UnpackNormalRoughness(v [4]float64) (core.Vec3, float64) {
	x, y := v[0]*2-1, v[1]*2-1
	z := 1 - math.Abs(x) - math.Abs(y)
	if z < 0 {
		t := -z
		x -= t * core.Sign(x)
		y -= t * core.Sign(y)
	}
	return core.NewVec3(x, y, z).Normalize(), v[2]
}

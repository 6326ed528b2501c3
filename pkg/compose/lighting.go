package compose

import (
	"image"
	"math"

	"github.com/df07/go-hybrid-composer/pkg/core"
	"github.com/df07/go-hybrid-composer/pkg/framebuffer"
)

// LightingSources are the opaque results the lighting composer starts from.
// The alpha of ComposedSpec carries the depth as written by FinalComposer.
type LightingSources struct {
	ComposedDiff *framebuffer.Buffer
	ComposedSpec *framebuffer.Buffer
	AmbientProbe core.Vec3
}

// LightingTargets receive the combined color (alpha carried through) and, for
// curved glass, patched motion vectors. Motion may be nil.
type LightingTargets struct {
	Composed *framebuffer.Buffer
	Motion   *framebuffer.Buffer
}

// LightingComposer merges opaque lighting with transparent surfaces in front
// of it
type LightingComposer struct {
	Config      *FrameConfig
	Tracer      core.Tracer
	Instances   core.InstanceHistory
	Motion      core.MotionEstimator
	Transparent *TransparentTracer
	Sources     LightingSources
	Targets     LightingTargets

	// NewSampler seeds the per-pixel random sequence. Defaults to a hash of
	// the pixel and frame index.
	NewSampler func(p image.Point, frameIndex uint32) core.Sampler
}

// ComposePixel runs the kernel for one pixel
func (c *LightingComposer) ComposePixel(p image.Point) {
	cam := c.Config.Camera
	if !p.In(cam.Rect()) {
		return
	}

	spec := c.Sources.ComposedSpec.Raw(p)
	viewZ := math.Abs(spec[3]) / DepthAlphaScale
	L := c.Sources.ComposedDiff.Get(p).Add(core.NewVec3(spec[0], spec[1], spec[2]))

	if c.Config.TransparentEnabled() {
		if Ltransparent, ok := c.traceTransparent(p, viewZ); ok && !Ltransparent.IsZero() {
			L = Ltransparent
		}
	}

	c.Targets.Composed.Set(p, L, spec[3])
}

// traceTransparent looks for glass in front of the opaque surface and returns
// the summed reflection and refraction radiance. ok is false without a hit.
func (c *LightingComposer) traceTransparent(p image.Point, viewZ float64) (core.Vec3, bool) {
	cam := c.Config.Camera
	uv := cam.SampleUV(p)
	ray := cam.Ray(uv)
	tMax := cam.HitDistance(uv, viewZ)

	g := c.Tracer.CastRay(core.RayQuery{
		Origin:    ray.Origin,
		Direction: ray.Direction,
		TMax:      tMax,
		Flags:     core.GeometryOnlyTransparent,
	})
	if g.IsSky() || g.T >= tMax {
		return core.Vec3{}, false
	}

	var sampler core.Sampler
	if c.NewSampler != nil {
		sampler = c.NewSampler(p, c.Config.FrameIndex)
	} else {
		sampler = core.NewHashSampler(p, c.Config.FrameIndex)
	}

	// Motion of the glass itself replaces the background motion. Only valid
	// for curved surfaces where the background is heavily distorted anyway.
	if g.Curvature != 0 && c.Targets.Motion != nil {
		xPrev := g.X
		if !g.IsStatic() {
			xPrev = c.Instances.PreviousPosition(g.InstanceID, g.X)
		}
		m := c.Motion.Motion(g.X, xPrev)
		c.Targets.Motion.Set(p, m, c.Targets.Motion.Alpha(p))
	}

	desc := TraceTransparentDesc{
		Geometry:     g,
		Ambient:      c.Sources.AmbientProbe.Multiply(c.Config.Ambient),
		Pixel:        p,
		BounceNum:    c.Config.BounceNum,
		IsReflection: true,
	}
	L := c.Transparent.Trace(desc, sampler)

	desc.IsReflection = false
	L = L.Add(c.Transparent.Trace(desc, sampler))
	return L, true
}

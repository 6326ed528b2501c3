package scene

import (
	"image"
	"math"

	"github.com/df07/go-hybrid-composer/pkg/camera"
	"github.com/df07/go-hybrid-composer/pkg/core"
	"github.com/df07/go-hybrid-composer/pkg/framebuffer"
)

// History reprojects into last frame's composed buffers. The alpha of every
// buffer holds the depth written by the final composer. It implements
// core.Reprojector.
type History struct {
	Camera    *camera.Camera
	Instances core.InstanceHistory
	Diff      *framebuffer.Buffer // Optional
	Spec      *framebuffer.Buffer // Optional
	Combined  *framebuffer.Buffer // Optional
	// Relative view depth difference beyond which a sample is rejected
	DepthTolerance float64
	// Alpha scale used when the depth was stored
	DepthScale float64
}

// PreviousRadiance looks up the previous-frame radiance of the surface at g.
// The weight is zero when the point was off screen or occluded last frame.
func (h *History) PreviousRadiance(g core.GeometryProps, pixel image.Point, channel core.RadianceChannel) (core.Vec3, float64) {
	buf := h.buffer(channel)
	if buf == nil || g.IsSky() {
		return core.Vec3{}, 0
	}

	xPrev := g.X
	if !g.IsStatic() && h.Instances != nil {
		xPrev = h.Instances.PreviousPosition(g.InstanceID, g.X)
	}
	uv, zPrev := h.Camera.ProjectPrev(xPrev)
	if zPrev <= 0 {
		return core.Vec3{}, 0
	}

	q := image.Pt(int(math.Floor(uv.X*float64(buf.Width()))), int(math.Floor(uv.Y*float64(buf.Height()))))
	if !q.In(buf.Bounds()) {
		return core.Vec3{}, 0
	}

	scale := h.DepthScale
	if scale <= 0 {
		scale = 1
	}
	storedZ := math.Abs(buf.Alpha(q)) / scale
	tolerance := h.DepthTolerance
	if tolerance <= 0 {
		tolerance = 0.05
	}
	if math.Abs(storedZ-zPrev) > tolerance*zPrev {
		return core.Vec3{}, 0
	}
	return buf.Get(q), 1
}

func (h *History) buffer(channel core.RadianceChannel) *framebuffer.Buffer {
	switch channel {
	case core.ChannelDiffuse:
		return h.Diff
	case core.ChannelSpecular:
		return h.Spec
	default:
		return h.Combined
	}
}

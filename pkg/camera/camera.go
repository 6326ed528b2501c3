// Package camera reconstructs view and world positions from depth and builds
// camera rays and motion vectors for a pinhole or orthographic camera.
//
// View space is left-handed: +X right, +Y up, +Z forward, so visible
// surfaces have a positive viewZ.
package camera

import (
	"image"
	"math"

	"github.com/df07/go-hybrid-composer/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// Config describes how the camera is placed
type Config struct {
	Origin      core.Vec3
	LookAt      core.Vec3
	Up          core.Vec3
	VFov        float64 // Vertical field of view in degrees (perspective only)
	OrthoHeight float64 // Visible height in world units (orthographic only)
	Ortho       bool
	Width       int
	Height      int
	Jitter      core.Vec2 // Sub-pixel offset in pixels
}

// Camera holds the per-frame transforms. It is immutable once built.
type Camera struct {
	ViewToWorld     mgl64.Mat4
	WorldToView     mgl64.Mat4
	ViewToClip      mgl64.Mat4
	WorldToClip     mgl64.Mat4
	WorldToViewPrev mgl64.Mat4
	WorldToClipPrev mgl64.Mat4

	// Frustum maps uv to view-space xy at unit depth: xy = uv*Frustum.zw + Frustum.xy
	Frustum  mgl64.Vec4
	Ortho    bool
	Jitter   core.Vec2
	RectSize image.Point
}

// New builds a camera whose previous-frame transforms equal the current ones
func New(cfg Config) *Camera {
	origin := ToMgl(cfg.Origin)
	forward := ToMgl(cfg.LookAt.Subtract(cfg.Origin)).Normalize()
	up := ToMgl(cfg.Up)
	if up.Len() == 0 {
		up = mgl64.Vec3{0, 1, 0}
	}
	right := forward.Cross(up).Normalize()
	up = right.Cross(forward)

	viewToWorld := mgl64.Mat4FromCols(right.Vec4(0), up.Vec4(0), forward.Vec4(0), origin.Vec4(1))

	aspect := float64(cfg.Width) / float64(max(cfg.Height, 1))

	var viewToClip mgl64.Mat4
	var frustum mgl64.Vec4
	if cfg.Ortho {
		halfH := cfg.OrthoHeight * 0.5
		if halfH <= 0 {
			halfH = 1
		}
		halfW := halfH * aspect
		viewToClip = mgl64.Mat4FromRows(
			mgl64.Vec4{1 / halfW, 0, 0, 0},
			mgl64.Vec4{0, 1 / halfH, 0, 0},
			mgl64.Vec4{0, 0, 1, 0},
			mgl64.Vec4{0, 0, 0, 1},
		)
		frustum = mgl64.Vec4{-halfW, halfH, 2 * halfW, -2 * halfH}
	} else {
		tanY := math.Tan(mgl64.DegToRad(cfg.VFov) * 0.5)
		tanX := tanY * aspect
		viewToClip = mgl64.Mat4FromRows(
			mgl64.Vec4{1 / tanX, 0, 0, 0},
			mgl64.Vec4{0, 1 / tanY, 0, 0},
			mgl64.Vec4{0, 0, 1, 0},
			mgl64.Vec4{0, 0, 1, 0},
		)
		frustum = mgl64.Vec4{-tanX, tanY, 2 * tanX, -2 * tanY}
	}

	worldToView := viewToWorld.Inv()
	worldToClip := viewToClip.Mul4(worldToView)

	return &Camera{
		ViewToWorld:     viewToWorld,
		WorldToView:     worldToView,
		ViewToClip:      viewToClip,
		WorldToClip:     worldToClip,
		WorldToViewPrev: worldToView,
		WorldToClipPrev: worldToClip,
		Frustum:         frustum,
		Ortho:           cfg.Ortho,
		Jitter:          cfg.Jitter,
		RectSize:        image.Pt(cfg.Width, cfg.Height),
	}
}

// WithPrevious returns a copy of c whose previous-frame transforms come from prev
func (c *Camera) WithPrevious(prev *Camera) *Camera {
	next := *c
	next.WorldToViewPrev = prev.WorldToView
	next.WorldToClipPrev = prev.WorldToClip
	return &next
}

// Rect returns the active output rectangle
func (c *Camera) Rect() image.Rectangle {
	return image.Rectangle{Max: c.RectSize}
}

// PixelUV returns the uv of a pixel center
func (c *Camera) PixelUV(p image.Point) core.Vec2 {
	return core.NewVec2(
		(float64(p.X)+0.5)/float64(c.RectSize.X),
		(float64(p.Y)+0.5)/float64(c.RectSize.Y),
	)
}

// SampleUV returns the jittered uv used for primary rays
func (c *Camera) SampleUV(p image.Point) core.Vec2 {
	uv := c.PixelUV(p)
	return core.NewVec2(
		uv.X+c.Jitter.X/float64(c.RectSize.X),
		uv.Y+c.Jitter.Y/float64(c.RectSize.Y),
	)
}

// ViewPosition reconstructs the view-space position at uv with the given depth
func (c *Camera) ViewPosition(uv core.Vec2, viewZ float64) core.Vec3 {
	scale := viewZ
	if c.Ortho {
		scale = 1
	}
	return core.NewVec3(
		(uv.X*c.Frustum[2]+c.Frustum[0])*scale,
		(uv.Y*c.Frustum[3]+c.Frustum[1])*scale,
		viewZ,
	)
}

// WorldPosition transforms a view-space position to world space
func (c *Camera) WorldPosition(xv core.Vec3) core.Vec3 {
	return FromMgl(mgl64.TransformCoordinate(ToMgl(xv), c.ViewToWorld))
}

// Origin returns the camera position in world space
func (c *Camera) Origin() core.Vec3 {
	return FromMgl(c.ViewToWorld.Col(3).Vec3())
}

// Forward returns the viewing direction in world space
func (c *Camera) Forward() core.Vec3 {
	return FromMgl(c.ViewToWorld.Col(2).Vec3())
}

// Ray returns the primary ray through uv
func (c *Camera) Ray(uv core.Vec2) core.Ray {
	if c.Ortho {
		origin := c.WorldPosition(c.ViewPosition(uv, 0))
		return core.NewRay(origin, c.Forward())
	}
	dirView := ToMgl(c.ViewPosition(uv, 1))
	dir := FromMgl(mgl64.TransformNormal(dirView, c.ViewToWorld)).Normalize()
	return core.NewRay(c.Origin(), dir)
}

// HitDistance converts a depth sample at uv into a distance along the primary ray
func (c *Camera) HitDistance(uv core.Vec2, viewZ float64) float64 {
	if math.Abs(viewZ) >= core.Infinity {
		return core.Infinity
	}
	if c.Ortho {
		return math.Abs(viewZ)
	}
	return c.ViewPosition(uv, viewZ).Length()
}

// ViewVector returns the unit vector from x toward the viewer
func (c *Camera) ViewVector(x core.Vec3) core.Vec3 {
	if c.Ortho {
		return c.Forward().Negate()
	}
	return c.Origin().Subtract(x).Normalize()
}

// Project returns the uv and viewZ of a world position in the current frame
func (c *Camera) Project(x core.Vec3) (core.Vec2, float64) {
	return project(x, c.WorldToClip, c.WorldToView)
}

// ProjectPrev returns the uv and viewZ of a world position in the previous frame
func (c *Camera) ProjectPrev(x core.Vec3) (core.Vec2, float64) {
	return project(x, c.WorldToClipPrev, c.WorldToViewPrev)
}

// Motion returns the 2.5D motion vector between the current position x and
// its previous position xPrev: screen-space delta in pixels and viewZ delta.
func (c *Camera) Motion(x, xPrev core.Vec3) core.Vec3 {
	uv, z := c.Project(x)
	uvPrev, zPrev := c.ProjectPrev(xPrev)
	return core.NewVec3(
		(uvPrev.X-uv.X)*float64(c.RectSize.X),
		(uvPrev.Y-uv.Y)*float64(c.RectSize.Y),
		zPrev-z,
	)
}

func project(x core.Vec3, worldToClip, worldToView mgl64.Mat4) (core.Vec2, float64) {
	p := ToMgl(x).Vec4(1)
	clip := worldToClip.Mul4x1(p)
	viewZ := worldToView.Mul4x1(p)[2]

	w := clip[3]
	if math.Abs(w) < 1e-12 {
		w = 1e-12
	}
	ndcX, ndcY := clip[0]/w, clip[1]/w
	return core.NewVec2(ndcX*0.5+0.5, 0.5-ndcY*0.5), viewZ
}

// ToMgl converts a vector for use with mathgl transforms
func ToMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// FromMgl converts a mathgl vector back
func FromMgl(v mgl64.Vec3) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

package camera

import (
	"image"
	"math"
	"testing"

	"github.com/df07/go-hybrid-composer/pkg/core"
)

func testCamera(ortho bool) *Camera {
	return New(Config{
		Origin:      core.NewVec3(0, 1, 5),
		LookAt:      core.NewVec3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        60,
		OrthoHeight: 4,
		Ortho:       ortho,
		Width:       64,
		Height:      32,
	})
}

func TestCamera_CenterRayLooksForward(t *testing.T) {
	cam := testCamera(false)
	ray := cam.Ray(core.NewVec2(0.5, 0.5))

	expected := core.NewVec3(0, 0, -1)
	if ray.Direction.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected forward direction %v, got %v", expected, ray.Direction)
	}
	if ray.Origin.Subtract(core.NewVec3(0, 1, 5)).Length() > 1e-9 {
		t.Errorf("Expected ray from camera origin, got %v", ray.Origin)
	}
}

func TestCamera_UVOrientation(t *testing.T) {
	cam := testCamera(false)

	// uv (0,0) is the top-left corner: left and up in world space
	ray := cam.Ray(core.NewVec2(0, 0))
	if ray.Direction.X >= 0 || ray.Direction.Y <= 0 {
		t.Errorf("Expected top-left ray to point left and up, got %v", ray.Direction)
	}
}

func TestCamera_ReconstructProjectRoundTrip(t *testing.T) {
	for _, ortho := range []bool{false, true} {
		cam := testCamera(ortho)
		for _, p := range []image.Point{{0, 0}, {10, 20}, {63, 31}, {32, 16}} {
			uv := cam.PixelUV(p)
			const viewZ = 7.5

			x := cam.WorldPosition(cam.ViewPosition(uv, viewZ))
			gotUV, gotZ := cam.Project(x)

			if math.Abs(gotUV.X-uv.X) > 1e-9 || math.Abs(gotUV.Y-uv.Y) > 1e-9 {
				t.Errorf("ortho=%v pixel %v: expected uv %v, got %v", ortho, p, uv, gotUV)
			}
			if math.Abs(gotZ-viewZ) > 1e-9 {
				t.Errorf("ortho=%v pixel %v: expected viewZ %f, got %f", ortho, p, viewZ, gotZ)
			}
		}
	}
}

func TestCamera_HitDistanceMatchesRay(t *testing.T) {
	cam := testCamera(false)
	uv := cam.PixelUV(image.Pt(5, 7))
	const viewZ = 4.0

	x := cam.WorldPosition(cam.ViewPosition(uv, viewZ))
	ray := cam.Ray(uv)
	dist := cam.HitDistance(uv, viewZ)

	if ray.At(dist).Subtract(x).Length() > 1e-9 {
		t.Errorf("Ray at hit distance %v does not reach reconstructed point %v", ray.At(dist), x)
	}

	if got := cam.HitDistance(uv, core.Infinity); got != core.Infinity {
		t.Errorf("Expected sky distance %f, got %f", core.Infinity, got)
	}
}

func TestCamera_MotionStaticIsZero(t *testing.T) {
	cam := testCamera(false)
	x := core.NewVec3(0.3, 0.7, -2)

	if m := cam.Motion(x, x); m.Length() > 1e-9 {
		t.Errorf("Expected zero motion for a static point and camera, got %v", m)
	}
}

func TestCamera_MotionFollowsPreviousCamera(t *testing.T) {
	prev := testCamera(false)
	cur := New(Config{
		Origin: core.NewVec3(1, 1, 5),
		LookAt: core.NewVec3(1, 1, 0),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   60,
		Width:  64,
		Height: 32,
	}).WithPrevious(prev)

	x := core.NewVec3(1, 1, 0)
	m := cur.Motion(x, x)

	// The point was right of center last frame
	if m.X <= 0 {
		t.Errorf("Expected positive x motion, got %v", m)
	}
	if math.Abs(m.Y) > 1e-9 || math.Abs(m.Z) > 1e-9 {
		t.Errorf("Expected purely horizontal motion, got %v", m)
	}
}

func TestCamera_JitterShiftsSampleUV(t *testing.T) {
	cam := New(Config{
		Origin: core.NewVec3(0, 0, 0),
		LookAt: core.NewVec3(0, 0, -1),
		VFov:   90,
		Width:  10,
		Height: 10,
		Jitter: core.NewVec2(0.5, -0.5),
	})

	uv := cam.SampleUV(image.Pt(0, 0))
	if math.Abs(uv.X-0.1) > 1e-12 || math.Abs(uv.Y-0.0) > 1e-12 {
		t.Errorf("Expected jittered uv (0.1, 0.0), got %v", uv)
	}
}

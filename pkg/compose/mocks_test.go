package compose

import (
	"image"
	"testing"

	"github.com/df07/go-hybrid-composer/pkg/camera"
	"github.com/df07/go-hybrid-composer/pkg/core"
	"github.com/df07/go-hybrid-composer/pkg/denoiser"
	"github.com/df07/go-hybrid-composer/pkg/framebuffer"
)

// mockTracer answers casts through castFunc and records every query
type mockTracer struct {
	castFunc        func(q core.RayQuery) core.GeometryProps
	visibility      float64
	casts           []core.RayQuery
	visibilityCasts []core.RayQuery
}

func (m *mockTracer) CastRay(q core.RayQuery) core.GeometryProps {
	m.casts = append(m.casts, q)
	if m.castFunc == nil {
		return core.MissGeometry(q.Ray())
	}
	return m.castFunc(q)
}

func (m *mockTracer) CastVisibilityRay(q core.RayQuery) float64 {
	m.visibilityCasts = append(m.visibilityCasts, q)
	return m.visibility
}

// mockMaterials returns sky radiance for misses and a fixed material otherwise
type mockMaterials struct {
	sky      core.Vec3
	material core.MaterialProps
}

func (m *mockMaterials) Evaluate(g core.GeometryProps) core.MaterialProps {
	if g.IsSky() {
		return core.MaterialProps{Ldirect: m.sky}
	}
	return m.material
}

// mockSampler cycles through a fixed list of values
type mockSampler struct {
	values []float64
	index  int
}

func (m *mockSampler) Get1D() float64 {
	if len(m.values) == 0 {
		return 0.5
	}
	v := m.values[m.index%len(m.values)]
	m.index++
	return v
}

func (m *mockSampler) Get2D() core.Vec2 {
	return core.NewVec2(m.Get1D(), m.Get1D())
}

type mockHistory struct {
	radiance   core.Vec3
	confidence float64
	calls      int
}

func (m *mockHistory) PreviousRadiance(core.GeometryProps, image.Point, core.RadianceChannel) (core.Vec3, float64) {
	m.calls++
	return m.radiance, m.confidence
}

type mockInstances struct {
	offset core.Vec3
	calls  int
}

func (m *mockInstances) PreviousPosition(_ int, x core.Vec3) core.Vec3 {
	m.calls++
	return x.Add(m.offset)
}

// mockMotion reports the world-space displacement as the motion vector
type mockMotion struct{}

func (mockMotion) Motion(x, xPrev core.Vec3) core.Vec3 {
	return xPrev.Subtract(x)
}

func glassHit(x, n, v core.Vec3) core.GeometryProps {
	return core.GeometryProps{X: x, N: n, V: v, T: 1, Flags: core.FlagTransparent}
}

func opaqueHit(x, n, v core.Vec3) core.GeometryProps {
	return core.GeometryProps{X: x, N: n, V: v, T: 1}
}

func testCamera(width, height int) *camera.Camera {
	return camera.New(camera.Config{
		Origin: core.NewVec3(0, 0, 0),
		LookAt: core.NewVec3(0, 0, -1),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   90,
		Width:  width,
		Height: height,
	})
}

func testFrameConfig(width, height int) *FrameConfig {
	return &FrameConfig{
		Camera:           testCamera(width, height),
		FrameIndex:       3,
		SunDirection:     core.NewVec3(0, 0.6, 0.8),
		SunAngularRadius: 0.0047,
		Shadows:          true,
		Transparent:      true,
		Resolve:          true,
		OnScreen:         ViewFinal,
		Mode:             denoiser.ModeNormal,
		Family:           denoiser.FamilyReblur,
		IndirectDiffuse:  1,
		IndirectSpecular: 1,
		Ambient:          1,
		UnitToMeters:     1,
		BounceNum:        1,
	}
}

func newBuffer(t *testing.T, width, height int) *framebuffer.Buffer {
	t.Helper()
	b, err := framebuffer.New(width, height)
	if err != nil {
		t.Fatalf("Failed to create buffer: %v", err)
	}
	return b
}

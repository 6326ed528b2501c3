package scene

import (
	"github.com/df07/go-hybrid-composer/pkg/camera"
	"github.com/df07/go-hybrid-composer/pkg/core"
)

// Instance ids of the default scene
const (
	GroundInstance = iota + 1
	DiffuseInstance
	MetalInstance
	GlassInstance
	MovingGlassInstance
	LampInstance
)

// Scene bundles a world with its lighting and camera placement
type Scene struct {
	World     *World
	Materials *Materials
	Sky       Sky

	CameraOrigin core.Vec3
	CameraLookAt core.Vec3
	// Camera translation since the previous frame
	CameraDelta core.Vec3
}

// NewDefaultScene creates the demo scene: a ground plane, a diffuse and a
// metal sphere, a static and a moving glass sphere and a small lamp
func NewDefaultScene(sunDirection core.Vec3) (*Scene, error) {
	instances := []*Instance{
		NewStaticInstance(GroundInstance, Material{BaseColor: core.NewVec3(0.5, 0.5, 0.45), Roughness: 0.9}),
		NewStaticInstance(DiffuseInstance, Material{BaseColor: core.NewVec3(0.65, 0.25, 0.2), Roughness: 0.7}),
		NewStaticInstance(MetalInstance, Material{BaseColor: core.NewVec3(0.8, 0.6, 0.2), Metalness: 1, Roughness: 0.3}),
		NewStaticInstance(GlassInstance, Material{BaseColor: core.Splat(1), Transparent: true}),
		NewMovingInstance(MovingGlassInstance, Material{BaseColor: core.Splat(1), Transparent: true}, core.NewVec3(0.05, 0, 0)),
		NewStaticInstance(LampInstance, Material{BaseColor: core.Splat(1), Roughness: 1, Emission: core.NewVec3(4, 3, 2)}),
	}

	objects := []Object{
		NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), GroundInstance),
		NewSphere(core.NewVec3(-1.2, 0.5, -1), 0.5, DiffuseInstance),
		NewSphere(core.NewVec3(1.2, 0.5, -1), 0.5, MetalInstance),
		NewSphere(core.NewVec3(0, 0.5, -1), 0.5, GlassInstance),
		NewSphere(core.NewVec3(0.6, 0.3, 0.2), 0.3, MovingGlassInstance),
		NewSphere(core.NewVec3(-0.5, 0.1, 0.3), 0.1, LampInstance),
	}

	world, err := NewWorld(instances, objects)
	if err != nil {
		return nil, err
	}

	sky := DefaultSky(sunDirection)
	return &Scene{
		World:        world,
		Materials:    &Materials{World: world, Sky: sky},
		Sky:          sky,
		CameraOrigin: core.NewVec3(0, 1.2, 3),
		CameraLookAt: core.NewVec3(0, 0.4, -1),
		CameraDelta:  core.NewVec3(0.02, 0, 0),
	}, nil
}

// Camera builds the frame camera from cfg, with the previous-frame transforms
// taken from the camera position before CameraDelta was applied
func (s *Scene) Camera(cfg camera.Config) *camera.Camera {
	cfg.Origin = s.CameraOrigin
	cfg.LookAt = s.CameraLookAt
	current := camera.New(cfg)

	cfg.Origin = s.CameraOrigin.Subtract(s.CameraDelta)
	cfg.LookAt = s.CameraLookAt.Subtract(s.CameraDelta)
	return current.WithPrevious(camera.New(cfg))
}

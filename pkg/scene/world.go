package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-hybrid-composer/pkg/camera"
	"github.com/df07/go-hybrid-composer/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrDuplicateInstance = errors.New("scene: duplicate instance id")
	ErrUnknownInstance   = errors.New("scene: object references unknown instance")
)

// Material describes a surface in the metallic workflow. Transparent surfaces
// are treated as clear glass by the transparent tracer and ignore the rest.
type Material struct {
	BaseColor   core.Vec3
	Metalness   float64
	Roughness   float64
	Emission    core.Vec3
	Transparent bool
}

// Instance is a placed group of objects sharing a material and a rigid
// transform. Object geometry is stored in world space at the current
// transform; Previous is the transform of the last frame.
type Instance struct {
	ID       int
	Material Material
	Current  mgl64.Mat4
	Previous mgl64.Mat4
}

// NewStaticInstance creates an instance that does not move between frames
func NewStaticInstance(id int, m Material) *Instance {
	return &Instance{ID: id, Material: m, Current: mgl64.Ident4(), Previous: mgl64.Ident4()}
}

// NewMovingInstance creates an instance that moved by delta since last frame
func NewMovingInstance(id int, m Material, delta core.Vec3) *Instance {
	return &Instance{
		ID:       id,
		Material: m,
		Current:  mgl64.Ident4(),
		Previous: mgl64.Translate3D(-delta.X, -delta.Y, -delta.Z),
	}
}

// IsStatic reports whether both transforms are the same
func (i *Instance) IsStatic() bool {
	return i.Current.ApproxEqual(i.Previous)
}

// World is a BVH over scene objects. It implements core.Tracer and
// core.InstanceHistory.
type World struct {
	objects   []Object
	instances map[int]*Instance
	bvh       *core.BVH
}

// NewWorld builds the acceleration structure. Every object must reference
// one of the given instances.
func NewWorld(instances []*Instance, objects []Object) (*World, error) {
	w := &World{
		objects:   objects,
		instances: make(map[int]*Instance, len(instances)),
	}
	for _, inst := range instances {
		if _, ok := w.instances[inst.ID]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateInstance, inst.ID)
		}
		w.instances[inst.ID] = inst
	}

	shapes := make([]core.Shape, len(objects))
	for i, obj := range objects {
		if _, ok := w.instances[obj.Instance()]; !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownInstance, obj.Instance())
		}
		shapes[i] = obj
	}
	w.bvh = core.NewBVH(shapes)
	return w, nil
}

// Instance returns the instance with the given id, or nil
func (w *World) Instance(id int) *Instance {
	return w.instances[id]
}

// ObjectCount returns the number of objects in the BVH
func (w *World) ObjectCount() int {
	return w.bvh.Size()
}

func (w *World) filter(flags core.RayFlags) core.ShapeFilter {
	switch flags {
	case core.GeometryOnlyTransparent:
		return func(s core.Shape) bool { return w.transparent(s) }
	case core.GeometryIgnoreTransparent:
		return func(s core.Shape) bool { return !w.transparent(s) }
	default:
		return nil
	}
}

func (w *World) transparent(s core.Shape) bool {
	obj, ok := s.(Object)
	return ok && w.instances[obj.Instance()].Material.Transparent
}

// CastRay returns the closest hit. A zero TMax means unbounded.
func (w *World) CastRay(q core.RayQuery) core.GeometryProps {
	ray := core.NewRay(q.Origin, q.Direction.Normalize())
	tMax := q.TMax
	if tMax <= 0 {
		tMax = core.Infinity
	}

	hit, ok := w.bvh.HitFiltered(ray, max(q.TMin, 0), tMax, w.filter(q.Flags))
	if !ok {
		return core.MissGeometry(ray)
	}

	obj := hit.Shape.(Object)
	inst := w.instances[obj.Instance()]
	g := core.GeometryProps{
		X:          hit.Point,
		N:          hit.Normal,
		V:          ray.Direction.Negate(),
		InstanceID: inst.ID,
		Curvature:  obj.Curvature(),
		T:          hit.T,
	}
	if inst.Material.Transparent {
		g.Flags |= core.FlagTransparent
	}
	if inst.IsStatic() {
		g.Flags |= core.FlagStatic
	}
	return g
}

// visibilityTaps is the number of cone samples per visibility query
const visibilityTaps = 8

// CastVisibilityRay returns the unoccluded fraction of a cone of rays. The
// taps follow a fixed spiral so results are deterministic.
func (w *World) CastVisibilityRay(q core.RayQuery) float64 {
	dir := q.Direction.Normalize()
	tMax := q.TMax
	if tMax <= 0 {
		tMax = core.Infinity
	}
	filter := w.filter(q.Flags)

	taps := 1
	if q.ConeAngle > 0 {
		taps = visibilityTaps
	}
	cosWidth := math.Cos(q.ConeAngle)

	visible := 0
	for i := 0; i < taps; i++ {
		d := dir
		if taps > 1 {
			d = core.SampleCone(dir, cosWidth, spiral(i, taps))
		}
		if _, hit := w.bvh.HitFiltered(core.NewRay(q.Origin, d), max(q.TMin, 0), tMax, filter); !hit {
			visible++
		}
	}
	return float64(visible) / float64(taps)
}

// spiral returns the i-th of n stratified points on the unit square
func spiral(i, n int) core.Vec2 {
	const golden = 0.6180339887498949
	u := (float64(i) + 0.5) / float64(n)
	v := float64(i) * golden
	return core.NewVec2(u, v-math.Floor(v))
}

// PreviousPosition maps a point on an instance back through its last-frame
// transform
func (w *World) PreviousPosition(instanceID int, x core.Vec3) core.Vec3 {
	inst, ok := w.instances[instanceID]
	if !ok || inst.IsStatic() {
		return x
	}
	toPrev := inst.Previous.Mul4(inst.Current.Inv())
	return camera.FromMgl(mgl64.TransformCoordinate(camera.ToMgl(x), toPrev))
}

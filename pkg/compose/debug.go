package compose

import (
	"errors"
	"fmt"
	"strings"

	"github.com/df07/go-hybrid-composer/pkg/core"
)

// ErrUnknownDebugView is returned when parsing an unrecognized view name
var ErrUnknownDebugView = errors.New("compose: unknown debug view")

// DebugView selects what the final composer writes to the diffuse output
type DebugView int

const (
	ViewFinal DebugView = iota
	ViewDenoisedDiffuse
	ViewDenoisedSpecular
	ViewDiffuseOcclusion
	ViewSpecularOcclusion
	ViewBaseColor
	ViewNormal
	ViewRoughness
	ViewMetalness
	ViewWorldUnits
	ViewDirectLighting
)

var debugViewNames = map[DebugView]string{
	ViewFinal:             "final",
	ViewDenoisedDiffuse:   "denoised-diffuse",
	ViewDenoisedSpecular:  "denoised-specular",
	ViewDiffuseOcclusion:  "diffuse-occlusion",
	ViewSpecularOcclusion: "specular-occlusion",
	ViewBaseColor:         "base-color",
	ViewNormal:            "normal",
	ViewRoughness:         "roughness",
	ViewMetalness:         "metalness",
	ViewWorldUnits:        "world-units",
	ViewDirectLighting:    "direct-lighting",
}

func (v DebugView) String() string {
	if name, ok := debugViewNames[v]; ok {
		return name
	}
	return fmt.Sprintf("DebugView(%d)", int(v))
}

// ParseDebugView converts a view name into a DebugView
func ParseDebugView(s string) (DebugView, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for v, name := range debugViewNames {
		if name == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDebugView, s)
}

// DebugViews lists every view in selector order
func DebugViews() []DebugView {
	views := make([]DebugView, 0, len(debugViewNames))
	for v := ViewFinal; v <= ViewDirectLighting; v++ {
		views = append(views, v)
	}
	return views
}

// debugInputs are the per-pixel values a debug view can show
type debugInputs struct {
	denoisedDiff core.Vec3
	denoisedSpec core.Vec3
	diffOcc      float64
	specOcc      float64
	baseColor    core.Vec3
	normal       core.Vec3
	roughness    float64
	metalness    float64
	worldPos     core.Vec3
	unitToMeters float64
	direct       core.Vec3
}

// debugViewTable maps every substituting view to its source. ViewFinal is
// absent and leaves the composed output alone.
var debugViewTable = map[DebugView]func(in *debugInputs) core.Vec3{
	ViewDenoisedDiffuse:   func(in *debugInputs) core.Vec3 { return in.denoisedDiff },
	ViewDenoisedSpecular:  func(in *debugInputs) core.Vec3 { return in.denoisedSpec },
	ViewDiffuseOcclusion:  func(in *debugInputs) core.Vec3 { return core.Splat(in.diffOcc) },
	ViewSpecularOcclusion: func(in *debugInputs) core.Vec3 { return core.Splat(in.specOcc) },
	ViewBaseColor:         func(in *debugInputs) core.Vec3 { return in.baseColor },
	ViewNormal:            func(in *debugInputs) core.Vec3 { return in.normal.Multiply(0.5).AddScalar(0.5) },
	ViewRoughness:         func(in *debugInputs) core.Vec3 { return core.Splat(in.roughness) },
	ViewMetalness:         func(in *debugInputs) core.Vec3 { return core.Splat(in.metalness) },
	ViewWorldUnits:        func(in *debugInputs) core.Vec3 { return in.worldPos.Multiply(in.unitToMeters).Fract() },
	ViewDirectLighting:    func(in *debugInputs) core.Vec3 { return in.direct },
}

// substitute returns the debug replacement for the diffuse output, or diff
// unchanged in the final view
func substitute(view DebugView, diff core.Vec3, in *debugInputs) core.Vec3 {
	if source, ok := debugViewTable[view]; ok {
		return source(in)
	}
	return diff
}

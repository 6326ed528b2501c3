// Package compose implements the two per-pixel composition kernels: the
// lighting composer with its transparent path tracer, and the final composer
// that recombines decoded denoiser output with direct and ambient light.
package compose

import (
	"errors"
	"fmt"

	"github.com/df07/go-hybrid-composer/pkg/camera"
	"github.com/df07/go-hybrid-composer/pkg/core"
	"github.com/df07/go-hybrid-composer/pkg/denoiser"
)

// ErrInvalidConfig is returned when a frame configuration cannot be used
var ErrInvalidConfig = errors.New("compose: invalid frame config")

// FrameConfig is the per-frame constant block shared by every kernel
// invocation. It must not be modified while a dispatch is running.
type FrameConfig struct {
	Camera     *camera.Camera
	FrameIndex uint32

	SunDirection     core.Vec3 // Unit vector toward the sun
	SunAngularRadius float64   // Radians, used as the shadow ray cone angle

	Shadows     bool
	Transparent bool
	Reference   bool // Path-traced reference: no demodulation, no resolve
	Resolve     bool
	SGRoughness bool // Replace G-buffer roughness with the denoiser's estimate

	OnScreen DebugView
	Mode     denoiser.Mode
	Family   denoiser.Family

	IndirectDiffuse  float64
	IndirectSpecular float64
	Ambient          float64
	UnitToMeters     float64
	BounceNum        int
}

// Validate checks the fields every kernel relies on
func (c *FrameConfig) Validate() error {
	switch {
	case c.Camera == nil:
		return fmt.Errorf("%w: missing camera", ErrInvalidConfig)
	case c.BounceNum < 1:
		return fmt.Errorf("%w: bounce count %d", ErrInvalidConfig, c.BounceNum)
	case c.UnitToMeters <= 0:
		return fmt.Errorf("%w: unit to meters %f", ErrInvalidConfig, c.UnitToMeters)
	case c.SunDirection.LengthSquared() == 0:
		return fmt.Errorf("%w: zero sun direction", ErrInvalidConfig)
	}
	return nil
}

// DecoderOptions returns the denoiser decode options implied by the frame
func (c *FrameConfig) DecoderOptions() denoiser.Options {
	resolve := c.Resolve && !c.Reference
	return denoiser.Options{
		Resolve:          resolve,
		ReplaceRoughness: resolve && c.SGRoughness,
	}
}

// TransparentEnabled reports whether the lighting composer should look for
// glass. Occlusion-only modes carry no radiance to refract and debug views
// show the opaque surface.
func (c *FrameConfig) TransparentEnabled() bool {
	if !c.Transparent || c.OnScreen != ViewFinal {
		return false
	}
	return c.Mode != denoiser.ModeOcclusion && c.Mode != denoiser.ModeDirectionalOcclusion
}

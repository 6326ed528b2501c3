package compose

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/df07/go-hybrid-composer/pkg/camera"
	"github.com/df07/go-hybrid-composer/pkg/core"
	"github.com/df07/go-hybrid-composer/pkg/denoiser"
	"github.com/go-gl/mathgl/mgl64"
)

// Settings are the user-facing knobs, loadable from JSON. FrameConfig turns
// them into the per-frame constant block.
type Settings struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	CamFov       float64 `json:"cam_fov"`
	Ortho        bool    `json:"ortho"`
	CameraJitter bool    `json:"camera_jitter"`
	FrameIndex   uint32  `json:"frame_index"`

	SunAzimuth         float64 `json:"sun_azimuth"`
	SunElevation       float64 `json:"sun_elevation"`
	SunAngularDiameter float64 `json:"sun_angular_diameter"`

	Exposure         float64 `json:"exposure"`
	MeterToUnits     float64 `json:"meter_to_units"`
	BounceNum        int     `json:"bounce_num"`
	Ambient          bool    `json:"ambient"`
	IndirectDiffuse  bool    `json:"indirect_diffuse"`
	IndirectSpecular bool    `json:"indirect_specular"`
	Shadows          bool    `json:"shadows"`
	Transparent      bool    `json:"transparent"`
	Reference        bool    `json:"reference"`
	Resolve          bool    `json:"resolve"`
	SGRoughness      bool    `json:"sg_roughness"`
	Denoiser         string  `json:"denoiser"`
	Mode             string  `json:"mode"`
	OnScreen         string  `json:"on_screen"`
	IndirectSamples  int     `json:"indirect_samples"`
	TileSize         int     `json:"tile_size"`
	Workers          int     `json:"workers"`
}

// DefaultSettings returns the settings the demo starts with
func DefaultSettings() Settings {
	return Settings{
		Width:              320,
		Height:             180,
		CamFov:             90,
		CameraJitter:       true,
		SunAzimuth:         -147,
		SunElevation:       45,
		SunAngularDiameter: 0.533,
		Exposure:           1,
		MeterToUnits:       1,
		BounceNum:          4,
		Ambient:            true,
		IndirectDiffuse:    true,
		IndirectSpecular:   true,
		Shadows:            true,
		Transparent:        true,
		Resolve:            true,
		SGRoughness:        false,
		Denoiser:           denoiser.FamilyReblur.String(),
		Mode:               denoiser.ModeNormal.String(),
		OnScreen:           ViewFinal.String(),
		IndirectSamples:    8,
		TileSize:           16,
	}
}

// LoadSettings reads a JSON settings file. Fields missing from the file keep
// their defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return s, nil
}

// SunDirection returns the unit vector toward the sun. Y is up; azimuth is
// measured in the XZ plane from +X toward +Z.
func (s Settings) SunDirection() core.Vec3 {
	az := mgl64.DegToRad(s.SunAzimuth)
	el := mgl64.DegToRad(s.SunElevation)
	return core.NewVec3(
		math.Cos(az)*math.Cos(el),
		math.Sin(el),
		math.Sin(az)*math.Cos(el),
	)
}

// Jitter returns the sub-pixel camera offset for the configured frame, a
// Halton (2, 3) point centered on the pixel, or zero without jitter
func (s Settings) Jitter() core.Vec2 {
	if !s.CameraJitter {
		return core.Vec2{}
	}
	i := int(s.FrameIndex%16) + 1
	return core.NewVec2(halton(i, 2)-0.5, halton(i, 3)-0.5)
}

func halton(i, base int) float64 {
	f, r := 1.0, 0.0
	for ; i > 0; i /= base {
		f /= float64(base)
		r += f * float64(i%base)
	}
	return r
}

// CameraConfig places a camera according to the settings
func (s Settings) CameraConfig(origin, lookAt core.Vec3) camera.Config {
	return camera.Config{
		Origin:      origin,
		LookAt:      lookAt,
		Up:          core.NewVec3(0, 1, 0),
		VFov:        s.CamFov,
		OrthoHeight: 2 * math.Tan(mgl64.DegToRad(s.CamFov)*0.5) * 3 * s.MeterToUnits,
		Ortho:       s.Ortho,
		Width:       s.Width,
		Height:      s.Height,
		Jitter:      s.Jitter(),
	}
}

// FrameConfig resolves names and toggles into a validated frame block
func (s Settings) FrameConfig(cam *camera.Camera) (*FrameConfig, error) {
	family, err := denoiser.ParseFamily(s.Denoiser)
	if err != nil {
		return nil, err
	}
	mode, err := denoiser.ParseMode(s.Mode)
	if err != nil {
		return nil, err
	}
	view, err := ParseDebugView(s.OnScreen)
	if err != nil {
		return nil, err
	}
	if s.MeterToUnits <= 0 {
		return nil, fmt.Errorf("%w: meter to units %f", ErrInvalidConfig, s.MeterToUnits)
	}

	cfg := &FrameConfig{
		Camera:           cam,
		FrameIndex:       s.FrameIndex,
		SunDirection:     s.SunDirection(),
		SunAngularRadius: mgl64.DegToRad(s.SunAngularDiameter) * 0.5,
		Shadows:          s.Shadows && s.SunElevation > 0,
		Transparent:      s.Transparent,
		Reference:        s.Reference,
		Resolve:          s.Resolve,
		SGRoughness:      s.SGRoughness,
		OnScreen:         view,
		Mode:             mode,
		Family:           family,
		IndirectDiffuse:  boolToFloat(s.IndirectDiffuse),
		IndirectSpecular: boolToFloat(s.IndirectSpecular),
		Ambient:          boolToFloat(s.Ambient),
		UnitToMeters:     1 / s.MeterToUnits,
		BounceNum:        s.BounceNum,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

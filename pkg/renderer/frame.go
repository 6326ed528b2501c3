package renderer

import (
	"context"
	"fmt"
	"image"

	"github.com/df07/go-hybrid-composer/pkg/compose"
	"github.com/df07/go-hybrid-composer/pkg/framebuffer"
	"github.com/df07/go-hybrid-composer/pkg/log"
	"github.com/df07/go-hybrid-composer/pkg/scene"
)

// ambientProbeSamples is the number of sky directions averaged into the probe
const ambientProbeSamples = 64

// FrameResult holds every buffer produced by one frame
type FrameResult struct {
	GBuffer  *framebuffer.GBuffer
	Denoised *framebuffer.Denoised
	Motion   *framebuffer.Buffer
	Diff     *framebuffer.Buffer // Kernel B diffuse output
	Spec     *framebuffer.Buffer // Kernel B specular output
	Composed *framebuffer.Buffer // Kernel A output

	Stats                    []DispatchStats
	TotalInternalReflections int64
	ExhaustedPaths           int64
}

// Named returns every output buffer keyed by a file-friendly name
func (r *FrameResult) Named() map[string]*framebuffer.Buffer {
	named := map[string]*framebuffer.Buffer{
		"motion":   r.Motion,
		"diff":     r.Diff,
		"spec":     r.Spec,
		"composed": r.Composed,
	}
	for k, v := range r.GBuffer.Named() {
		named[k] = v
	}
	for k, v := range r.Denoised.Named() {
		named[k] = v
	}
	return named
}

// FrameRenderer runs the frame graph: G-buffer and indirect passes from the
// reference scene, then the final composer, then the lighting composer. The
// composed output of each frame becomes the history of the next.
type FrameRenderer struct {
	Settings   compose.Settings
	Scene      *scene.Scene
	Dispatcher *Dispatcher

	history     *framebuffer.Buffer
	diagnostics compose.Diagnostics
	logger      log.Logger
}

// NewFrameRenderer creates a frame renderer for a scene
func NewFrameRenderer(settings compose.Settings, sc *scene.Scene) *FrameRenderer {
	return &FrameRenderer{
		Settings:   settings,
		Scene:      sc,
		Dispatcher: NewDispatcher(settings.TileSize, settings.Workers),
		logger:     log.New("frame"),
	}
}

// Render produces one frame at Settings.FrameIndex and then advances the
// frame index
func (fr *FrameRenderer) Render(ctx context.Context) (*FrameResult, error) {
	s := fr.Settings
	sc := fr.Scene

	cam := sc.Camera(s.CameraConfig(sc.CameraOrigin, sc.CameraLookAt))
	cfg, err := s.FrameConfig(cam)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", s.FrameIndex, err)
	}

	res, err := allocateFrame(s.Width, s.Height)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", s.FrameIndex, err)
	}
	probe := scene.AmbientProbe(sc.Sky, ambientProbeSamples)
	fr.diagnostics.Reset()

	gbufferPass := &scene.GBufferPass{
		Camera:           cam,
		World:            sc.World,
		Materials:        sc.Materials,
		Shadows:          cfg.Shadows,
		SunAngularRadius: cfg.SunAngularRadius,
		Target:           res.GBuffer,
		Motion:           res.Motion,
	}
	indirectPass := &scene.IndirectPass{
		Camera:           cam,
		World:            sc.World,
		Materials:        sc.Materials,
		GBuffer:          res.GBuffer,
		Mode:             cfg.Mode,
		Family:           cfg.Family,
		Samples:          s.IndirectSamples,
		FrameIndex:       cfg.FrameIndex,
		Shadows:          cfg.Shadows,
		SunAngularRadius: cfg.SunAngularRadius,
		Target:           res.Denoised,
	}

	final, err := compose.NewFinalComposer(cfg,
		compose.FinalSources{GBuffer: res.GBuffer, Denoised: res.Denoised, AmbientProbe: probe},
		compose.FinalTargets{Diff: res.Diff, Spec: res.Spec},
	)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", s.FrameIndex, err)
	}

	tracer := &compose.TransparentTracer{
		Config:      cfg,
		Tracer:      sc.World,
		Materials:   sc.Materials,
		Diagnostics: &fr.diagnostics,
	}
	if fr.history != nil {
		tracer.History = &scene.History{
			Camera:     cam,
			Instances:  sc.World,
			Combined:   fr.history,
			DepthScale: compose.DepthAlphaScale,
		}
	}
	lighting := &compose.LightingComposer{
		Config:      cfg,
		Tracer:      sc.World,
		Instances:   sc.World,
		Motion:      cam,
		Transparent: tracer,
		Sources:     compose.LightingSources{ComposedDiff: res.Diff, ComposedSpec: res.Spec, AmbientProbe: probe},
		Targets:     compose.LightingTargets{Composed: res.Composed, Motion: res.Motion},
	}

	size := image.Pt(s.Width, s.Height)
	passes := []struct {
		name   string
		kernel Kernel
	}{
		{"gbuffer", gbufferPass.ShadePixel},
		{"indirect", indirectPass.ShadePixel},
		{"final", final.ComposePixel},
		{"lighting", lighting.ComposePixel},
	}
	for _, pass := range passes {
		stats, err := fr.Dispatcher.Dispatch(ctx, pass.name, size, pass.kernel)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", s.FrameIndex, err)
		}
		fr.logger.Infof("%s: %d tiles in %s", pass.name, stats.Tiles, stats.Duration)
		res.Stats = append(res.Stats, stats)
	}

	res.TotalInternalReflections = fr.diagnostics.TotalInternalReflections()
	res.ExhaustedPaths = fr.diagnostics.ExhaustedPaths()

	fr.history = res.Composed
	fr.Settings.FrameIndex++
	return res, nil
}

func allocateFrame(width, height int) (*FrameResult, error) {
	gb, err := framebuffer.NewGBuffer(width, height)
	if err != nil {
		return nil, err
	}
	denoised, err := framebuffer.NewDenoised(width, height)
	if err != nil {
		return nil, err
	}

	res := &FrameResult{GBuffer: gb, Denoised: denoised}
	for _, target := range []**framebuffer.Buffer{&res.Motion, &res.Diff, &res.Spec, &res.Composed} {
		if *target, err = framebuffer.New(width, height); err != nil {
			return nil, err
		}
	}
	return res, nil
}

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/df07/go-hybrid-composer/pkg/compose"
	"github.com/df07/go-hybrid-composer/pkg/framebuffer"
	"github.com/df07/go-hybrid-composer/pkg/renderer"
	"github.com/df07/go-hybrid-composer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// ComposeFrames renders the demo scene through both composition kernels and
// writes every buffer of the last frame.
func ComposeFrames(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	settings, err := loadSettings(ctx)
	if err != nil {
		return err
	}

	sc, err := scene.NewDefaultScene(settings.SunDirection())
	if err != nil {
		return err
	}
	logger.Infof("scene ready with %d objects", sc.World.ObjectCount())

	frames := ctx.Int("frames")
	if frames < 1 {
		frames = 1
	}

	fr := renderer.NewFrameRenderer(settings, sc)
	var res *renderer.FrameResult
	for i := 0; i < frames; i++ {
		if res, err = fr.Render(context.Background()); err != nil {
			return err
		}
		if res.TotalInternalReflections > 0 || res.ExhaustedPaths > 0 {
			logger.Warningf("frame %d: %d transparent paths hit total internal reflection, %d ran out of bounces",
				i, res.TotalInternalReflections, res.ExhaustedPaths)
		}
	}

	displayDispatchStats(res.Stats)
	return writeOutputs(ctx.String("out"), res, settings.Exposure)
}

// loadSettings starts from the defaults or a JSON file and applies flags on top
func loadSettings(ctx *cli.Context) (compose.Settings, error) {
	s := compose.DefaultSettings()
	if path := ctx.String("config"); path != "" {
		var err error
		if s, err = compose.LoadSettings(path); err != nil {
			return s, err
		}
	}

	if ctx.IsSet("width") {
		s.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		s.Height = ctx.Int("height")
	}
	if ctx.IsSet("frame") {
		s.FrameIndex = uint32(ctx.Int("frame"))
	}
	if ctx.IsSet("exposure") {
		s.Exposure = ctx.Float64("exposure")
	}
	if ctx.IsSet("bounces") {
		s.BounceNum = ctx.Int("bounces")
	}
	if ctx.IsSet("denoiser") {
		s.Denoiser = ctx.String("denoiser")
	}
	if ctx.IsSet("mode") {
		s.Mode = ctx.String("mode")
	}
	if ctx.IsSet("view") {
		s.OnScreen = ctx.String("view")
	}
	if ctx.IsSet("workers") {
		s.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("tile-size") {
		s.TileSize = ctx.Int("tile-size")
	}
	if ctx.Bool("ortho") {
		s.Ortho = true
	}
	if ctx.Bool("reference") {
		s.Reference = true
	}
	if ctx.Bool("no-transparent") {
		s.Transparent = false
	}
	if ctx.Bool("no-jitter") {
		s.CameraJitter = false
	}
	return s, nil
}

func writeOutputs(dir string, res *renderer.FrameResult, exposure float64) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	named := res.Named()
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name+".exr")
		if err := framebuffer.SaveEXR(path, named[name]); err != nil {
			return err
		}
		logger.Debugf("wrote %s", path)
	}

	preview := filepath.Join(dir, "composed.png")
	if err := framebuffer.SavePNG(preview, res.Composed, exposure); err != nil {
		return err
	}
	logger.Noticef("wrote %d buffers and %s", len(names), preview)
	return nil
}

func displayDispatchStats(stats []renderer.DispatchStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Dispatch", "Size", "Tiles", "Invocations", "Workers", "Time", "Mpix/s"})

	var total float64
	for _, stat := range stats {
		table.Append([]string{
			stat.Name,
			fmt.Sprintf("%dx%d", stat.Width, stat.Height),
			fmt.Sprintf("%d", stat.Tiles),
			fmt.Sprintf("%d", stat.Invocations),
			fmt.Sprintf("%d", stat.Workers),
			stat.Duration.String(),
			fmt.Sprintf("%.2f", stat.PixelsPerSecond()/1e6),
		})
		total += stat.Duration.Seconds()
	}
	table.SetFooter([]string{"", "", "", "", "", "TOTAL", fmt.Sprintf("%.3fs", total)})

	table.Render()
	logger.Noticef("dispatch statistics\n%s", buf.String())
}

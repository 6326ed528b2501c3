package main

import (
	"fmt"
	"os"

	"github.com/df07/go-hybrid-composer/cmd"
	"github.com/df07/go-hybrid-composer/pkg/compose"
	"github.com/df07/go-hybrid-composer/pkg/denoiser"
	"github.com/urfave/cli"
)

func main() {
	defaults := compose.DefaultSettings()

	app := cli.NewApp()
	app.Name = "hybrid-composer"
	app.Usage = "compose denoised and ray traced lighting into a final frame"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "log-level",
			Value: "notice",
			Usage: "log level: debug, info, notice, warning or error",
		},
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "compose",
			Usage: "render the demo scene through both composition kernels",
			Description: `
Rasterize the demo scene into a G-buffer, synthesize denoiser outputs for the
selected mode, run the final composer and then the transparent lighting
composer. Every buffer of the last frame is written as EXR into the output
directory together with a tone-mapped PNG preview of the composed image.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config, c",
					Usage: "JSON settings file; flags override its values",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "output",
					Usage: "output directory",
				},
				cli.IntFlag{
					Name:  "width",
					Value: defaults.Width,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: defaults.Height,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "frames",
					Value: 1,
					Usage: "number of frames to render; later frames reproject earlier ones",
				},
				cli.IntFlag{
					Name:  "frame",
					Usage: "index of the first frame",
				},
				cli.Float64Flag{
					Name:  "exposure",
					Value: defaults.Exposure,
					Usage: "exposure for the PNG preview",
				},
				cli.IntFlag{
					Name:  "bounces",
					Value: defaults.BounceNum,
					Usage: "transparent path bounce budget",
				},
				cli.StringFlag{
					Name:  "denoiser",
					Value: defaults.Denoiser,
					Usage: "denoiser family: " + denoiser.FamilyReblur.String() + " or " + denoiser.FamilyRelax.String(),
				},
				cli.StringFlag{
					Name:  "mode",
					Value: defaults.Mode,
					Usage: "denoiser mode: NORMAL, OCCLUSION, SH or DIRECTIONAL_OCCLUSION",
				},
				cli.StringFlag{
					Name:  "view",
					Value: defaults.OnScreen,
					Usage: "on-screen view, see the inspect-views command",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "worker goroutines, 0 for one per CPU",
				},
				cli.IntFlag{
					Name:  "tile-size",
					Value: defaults.TileSize,
					Usage: "dispatch tile edge in pixels",
				},
				cli.BoolFlag{
					Name:  "ortho",
					Usage: "use an orthographic camera",
				},
				cli.BoolFlag{
					Name:  "reference",
					Usage: "skip demodulation and resolve",
				},
				cli.BoolFlag{
					Name:  "no-transparent",
					Usage: "disable transparent surface tracing",
				},
				cli.BoolFlag{
					Name:  "no-jitter",
					Usage: "disable sub-pixel camera jitter",
				},
			},
			Action: cmd.ComposeFrames,
		},
		{
			Name:      "inspect",
			Usage:     "print per-channel statistics of EXR buffers",
			ArgsUsage: "buffer1.exr buffer2.exr ...",
			Action:    cmd.InspectBuffers,
		},
		{
			Name:   "inspect-views",
			Usage:  "list the available on-screen views",
			Action: cmd.ListViews,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

package cmd

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-hybrid-composer/pkg/compose"
	"github.com/df07/go-hybrid-composer/pkg/renderer"
	"github.com/df07/go-hybrid-composer/pkg/scene"
	"github.com/urfave/cli"
)

func newContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("compose", flag.ContinueOnError)
	set.String("config", "", "")
	set.Int("width", 320, "")
	set.Int("height", 180, "")
	set.Int("frame", 0, "")
	set.Float64("exposure", 1, "")
	set.Int("bounces", 4, "")
	set.String("denoiser", "REBLUR", "")
	set.String("mode", "NORMAL", "")
	set.String("view", "final", "")
	set.Int("workers", 0, "")
	set.Int("tile-size", 16, "")
	set.Bool("ortho", false, "")
	set.Bool("reference", false, "")
	set.Bool("no-transparent", false, "")
	set.Bool("no-jitter", false, "")
	if err := set.Parse(args); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}
	return cli.NewContext(nil, set, nil)
}

func TestLoadSettings_Flags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(s compose.Settings) bool
	}{
		{"defaults", nil, func(s compose.Settings) bool { return s == compose.DefaultSettings() }},
		{"size", []string{"-width", "64", "-height", "32"}, func(s compose.Settings) bool { return s.Width == 64 && s.Height == 32 }},
		{"mode", []string{"-mode", "SH", "-denoiser", "RELAX"}, func(s compose.Settings) bool { return s.Mode == "SH" && s.Denoiser == "RELAX" }},
		{"toggles", []string{"-ortho", "-reference", "-no-transparent", "-no-jitter"}, func(s compose.Settings) bool {
			return s.Ortho && s.Reference && !s.Transparent && !s.CameraJitter
		}},
		{"frame", []string{"-frame", "5"}, func(s compose.Settings) bool { return s.FrameIndex == 5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := loadSettings(newContext(t, tt.args...))
			if err != nil {
				t.Fatalf("loadSettings failed: %v", err)
			}
			if !tt.check(s) {
				t.Errorf("Unexpected settings %+v", s)
			}
		})
	}
}

func TestLoadSettings_ConfigWithOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"width": 100, "height": 50, "bounce_num": 2}`), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := loadSettings(newContext(t, "-config", path, "-height", "60"))
	if err != nil {
		t.Fatalf("loadSettings failed: %v", err)
	}
	if s.Width != 100 || s.Height != 60 || s.BounceNum != 2 {
		t.Errorf("Expected file values with flag override, got %+v", s)
	}

	if _, err := loadSettings(newContext(t, "-config", filepath.Join(t.TempDir(), "missing.json"))); err == nil {
		t.Error("Expected an error for a missing config file")
	}
}

func TestWriteOutputs(t *testing.T) {
	s := compose.DefaultSettings()
	s.Width, s.Height = 8, 6
	s.IndirectSamples = 1
	sc, err := scene.NewDefaultScene(s.SunDirection())
	if err != nil {
		t.Fatal(err)
	}
	res, err := renderer.NewFrameRenderer(s, sc).Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "out")
	if err := writeOutputs(dir, res, s.Exposure); err != nil {
		t.Fatalf("writeOutputs failed: %v", err)
	}

	for _, name := range []string{"composed.exr", "viewz.exr", "denoised_diff.exr", "composed.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s to be written: %v", name, err)
		}
	}
}

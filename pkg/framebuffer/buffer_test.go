package framebuffer

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"math"
	"path/filepath"
	"testing"

	"github.com/df07/go-hybrid-composer/pkg/core"
)

func TestNew_InvalidSize(t *testing.T) {
	for _, size := range []image.Point{{0, 4}, {4, 0}, {-1, 3}} {
		if _, err := New(size.X, size.Y); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("New(%d, %d): expected ErrInvalidSize, got %v", size.X, size.Y, err)
		}
	}
}

func TestBuffer_SetGet(t *testing.T) {
	b := MustNew(4, 3)
	p := image.Pt(2, 1)
	b.Set(p, core.NewVec3(1, 2, 3), 4)

	if got := b.Get(p); got != core.NewVec3(1, 2, 3) {
		t.Errorf("Expected (1,2,3), got %v", got)
	}
	if got := b.Alpha(p); got != 4 {
		t.Errorf("Expected alpha 4, got %f", got)
	}

	// out-of-range reads are zero and writes are dropped
	b.Set(image.Pt(10, 10), core.NewVec3(1, 1, 1), 1)
	if got := b.Raw(image.Pt(10, 10)); got != [4]float64{} {
		t.Errorf("Expected zero outside the buffer, got %v", got)
	}
}

func TestBuffer_Clamp(t *testing.T) {
	b := MustNew(4, 3)
	tests := []struct {
		in, want image.Point
	}{
		{image.Pt(-1, -1), image.Pt(0, 0)},
		{image.Pt(5, 1), image.Pt(3, 1)},
		{image.Pt(2, 9), image.Pt(2, 2)},
		{image.Pt(1, 1), image.Pt(1, 1)},
	}
	for _, tt := range tests {
		if got := b.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestBuffer_FillAndClone(t *testing.T) {
	b := MustNew(2, 2)
	b.Fill([4]float64{0.5, 0.25, 1, 2})
	c := b.Clone()
	b.Fill([4]float64{})

	if got := c.Raw(image.Pt(1, 1)); got != [4]float64{0.5, 0.25, 1, 2} {
		t.Errorf("Clone should keep filled values, got %v", got)
	}
}

func TestNormalRoughness_RoundTrip(t *testing.T) {
	normals := []core.Vec3{
		core.NewVec3(0, 0, 1),
		core.NewVec3(0, 0, -1),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, -1, 0),
		core.NewVec3(1, 2, 3),
		core.NewVec3(-1, 0.5, -2),
		core.NewVec3(0.3, -0.7, -0.1),
	}
	for _, n := range normals {
		n = n.Normalize()
		packed := PackNormalRoughness(n, 0.35)
		if packed[0] < 0 || packed[0] > 1 || packed[1] < 0 || packed[1] > 1 {
			t.Errorf("Packed normal %v out of [0,1]: %v", n, packed)
		}
		got, roughness := UnpackNormalRoughness(packed)
		if got.Subtract(n).Length() > 1e-9 {
			t.Errorf("Expected normal %v, got %v", n, got)
		}
		if roughness != 0.35 {
			t.Errorf("Expected roughness 0.35, got %f", roughness)
		}
	}
}

func TestEXR_RoundTrip(t *testing.T) {
	b := MustNew(3, 2)
	b.Set(image.Pt(0, 0), core.NewVec3(0.5, 0.25, 2), 1)
	b.Set(image.Pt(2, 1), core.NewVec3(8, 0, 0.125), 0.5)

	path := filepath.Join(t.TempDir(), "buffer.exr")
	if err := SaveEXR(path, b); err != nil {
		t.Fatalf("SaveEXR failed: %v", err)
	}
	loaded, err := LoadEXR(path)
	if err != nil {
		t.Fatalf("LoadEXR failed: %v", err)
	}
	if !loaded.SameSize(b) {
		t.Fatalf("Expected bounds %v, got %v", b.Bounds(), loaded.Bounds())
	}

	for _, p := range []image.Point{{0, 0}, {2, 1}, {1, 0}} {
		want, got := b.Raw(p), loaded.Raw(p)
		for c := range want {
			if math.Abs(want[c]-got[c]) > 1e-3 {
				t.Errorf("Pixel %v channel %d: expected %f, got %f", p, c, want[c], got[c])
			}
		}
	}
}

func TestLoadEXR_Missing(t *testing.T) {
	if _, err := LoadEXR(filepath.Join(t.TempDir(), "missing.exr")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestToneMap(t *testing.T) {
	b := MustNew(2, 1)
	b.Set(image.Pt(0, 0), core.NewVec3(0, -1, math.NaN()), 0)
	b.Set(image.Pt(1, 0), core.NewVec3(1, 100, 1e6), 0)

	img := ToneMap(b, 1)
	dark := img.RGBAAt(0, 0)
	if dark.R != 0 || dark.G != 0 || dark.B != 0 {
		t.Errorf("Expected black for non-positive input, got %v", dark)
	}
	bright := img.RGBAAt(1, 0)
	if !(bright.R < bright.G && bright.G <= bright.B) {
		t.Errorf("Expected tone mapping to be monotonic, got %v", bright)
	}
	if bright.A != 255 {
		t.Errorf("Expected opaque output, got alpha %d", bright.A)
	}
}

func TestStats(t *testing.T) {
	b := MustNew(2, 1)
	b.SetRaw(image.Pt(0, 0), [4]float64{1, 0, math.Inf(1), 0})
	b.SetRaw(image.Pt(1, 0), [4]float64{3, 0, 2, 0})

	stats := Stats(b)
	if stats[0].Min != 1 || stats[0].Max != 3 || stats[0].Mean != 2 {
		t.Errorf("Unexpected red stats %+v", stats[0])
	}
	if stats[2].NonFinite != 1 || stats[2].Mean != 2 {
		t.Errorf("Expected one non-finite blue sample, got %+v", stats[2])
	}
}

// closeRecorder is a writer whose Close returns closeErr
type closeRecorder struct {
	bytes.Buffer
	closeErr error
	closed   bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return c.closeErr
}

func TestWritePNG(t *testing.T) {
	b, err := New(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	b.Fill([4]float64{1, 0.5, 0.25, 1})

	t.Run("Success", func(t *testing.T) {
		w := &closeRecorder{}
		if err := writePNG(w, "preview.png", b, 1); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !w.closed {
			t.Error("Expected the writer to be closed")
		}
		img, err := png.Decode(&w.Buffer)
		if err != nil {
			t.Fatalf("Expected a valid PNG: %v", err)
		}
		if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
			t.Errorf("Expected 3x2 image, got %v", img.Bounds())
		}
	})

	t.Run("CloseError", func(t *testing.T) {
		errDisk := errors.New("disk full")
		w := &closeRecorder{closeErr: errDisk}
		if err := writePNG(w, "preview.png", b, 1); !errors.Is(err, errDisk) {
			t.Errorf("Expected the close error to be returned, got %v", err)
		}
	})
}

func TestSavePNG_InvalidPath(t *testing.T) {
	b, err := New(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := SavePNG(filepath.Join(t.TempDir(), "missing", "out.png"), b, 1); err == nil {
		t.Error("Expected an error for a missing directory")
	}
}

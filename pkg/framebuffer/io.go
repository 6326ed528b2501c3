package framebuffer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/mrjoshuak/go-openexr/exr"
)

// SaveEXR writes the buffer as a half-float RGBA OpenEXR file
func SaveEXR(path string, b *Buffer) error {
	if err := exr.EncodeFile(path, b.img); err != nil {
		return fmt.Errorf("save exr %s: %w", path, err)
	}
	return nil
}

// LoadEXR reads an RGBA OpenEXR file into a new buffer
func LoadEXR(path string) (*Buffer, error) {
	img, err := exr.DecodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("load exr %s: %w", path, err)
	}
	if img.Rect.Empty() {
		return nil, fmt.Errorf("load exr %s: %w", path, ErrInvalidSize)
	}
	return FromImage(img), nil
}

// ToneMap converts the buffer to 8-bit color. Radiance is multiplied by
// exposure, Reinhard-compressed and gamma corrected with gamma 2.2.
func ToneMap(b *Buffer, exposure float64) *image.RGBA {
	bounds := b.Bounds()
	img := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := b.Get(image.Pt(x, y)).Multiply(exposure)
			img.SetRGBA(x, y, color.RGBA{
				R: toByte(c.X),
				G: toByte(c.Y),
				B: toByte(c.Z),
				A: 255,
			})
		}
	}
	return img
}

func toByte(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	v = v / (1 + v)
	return uint8(255*math.Pow(v, 1/2.2) + 0.5)
}

// SavePNG writes a tone-mapped preview of the buffer
func SavePNG(path string, b *Buffer, exposure float64) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return writePNG(file, path, b, exposure)
}

// writePNG encodes into w and closes it. A failed close is reported since the
// file may not be complete on disk.
func writePNG(w io.WriteCloser, path string, b *Buffer, exposure float64) error {
	if err := png.Encode(w, ToneMap(b, exposure)); err != nil {
		w.Close()
		return fmt.Errorf("encode png %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

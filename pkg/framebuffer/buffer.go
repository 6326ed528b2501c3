// Package framebuffer provides the float RGBA render targets shared by the
// composition kernels, plus EXR and PNG file IO.
package framebuffer

import (
	"errors"
	"fmt"
	"image"

	"github.com/df07/go-hybrid-composer/pkg/core"
	"github.com/mrjoshuak/go-openexr/exr"
)

var (
	// ErrInvalidSize is returned when a buffer is created with a non-positive dimension
	ErrInvalidSize = errors.New("framebuffer: invalid size")
	// ErrSizeMismatch is returned when buffers that must match in size do not
	ErrSizeMismatch = errors.New("framebuffer: size mismatch")
)

// Buffer is a float32 RGBA texture. Each pixel is written by exactly one
// kernel invocation, so concurrent writes to distinct pixels are safe.
type Buffer struct {
	img *exr.RGBAImage
}

// New creates a zeroed buffer of the given size
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &Buffer{img: exr.NewRGBAImage(image.Rect(0, 0, width, height))}, nil
}

// MustNew is like New but panics on an invalid size
func MustNew(width, height int) *Buffer {
	b, err := New(width, height)
	if err != nil {
		panic(err)
	}
	return b
}

// FromImage wraps an existing EXR image. The image is not copied.
func FromImage(img *exr.RGBAImage) *Buffer {
	return &Buffer{img: img}
}

// Image returns the underlying EXR image
func (b *Buffer) Image() *exr.RGBAImage {
	return b.img
}

// Width returns the buffer width in pixels
func (b *Buffer) Width() int { return b.img.Rect.Dx() }

// Height returns the buffer height in pixels
func (b *Buffer) Height() int { return b.img.Rect.Dy() }

// Bounds returns the pixel rectangle covered by the buffer
func (b *Buffer) Bounds() image.Rectangle { return b.img.Rect }

// SameSize reports whether two buffers have identical bounds
func (b *Buffer) SameSize(other *Buffer) bool {
	return b.img.Rect == other.img.Rect
}

// Raw returns all four channels at p. Pixels outside the buffer read as zero.
func (b *Buffer) Raw(p image.Point) [4]float64 {
	r, g, bl, a := b.img.RGBA(p.X, p.Y)
	return [4]float64{float64(r), float64(g), float64(bl), float64(a)}
}

// SetRaw writes all four channels at p. Writes outside the buffer are dropped.
func (b *Buffer) SetRaw(p image.Point, v [4]float64) {
	b.img.SetRGBA(p.X, p.Y, float32(v[0]), float32(v[1]), float32(v[2]), float32(v[3]))
}

// Get returns the RGB channels at p
func (b *Buffer) Get(p image.Point) core.Vec3 {
	v := b.Raw(p)
	return core.NewVec3(v[0], v[1], v[2])
}

// Alpha returns the fourth channel at p
func (b *Buffer) Alpha(p image.Point) float64 {
	return b.Raw(p)[3]
}

// Set writes RGB and alpha at p
func (b *Buffer) Set(p image.Point, c core.Vec3, alpha float64) {
	b.SetRaw(p, [4]float64{c.X, c.Y, c.Z, alpha})
}

// Clamp returns p moved to the nearest pixel inside the buffer
func (b *Buffer) Clamp(p image.Point) image.Point {
	r := b.img.Rect
	return image.Pt(
		max(r.Min.X, min(r.Max.X-1, p.X)),
		max(r.Min.Y, min(r.Max.Y-1, p.Y)),
	)
}

// RawClamped reads p with clamp-to-edge addressing
func (b *Buffer) RawClamped(p image.Point) [4]float64 {
	return b.Raw(b.Clamp(p))
}

// Fill sets every pixel to v
func (b *Buffer) Fill(v [4]float64) {
	pix := b.img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i+0] = float32(v[0])
		pix[i+1] = float32(v[1])
		pix[i+2] = float32(v[2])
		pix[i+3] = float32(v[3])
	}
}

// Clone returns a deep copy of the buffer
func (b *Buffer) Clone() *Buffer {
	img := exr.NewRGBAImage(b.img.Rect)
	copy(img.Pix, b.img.Pix)
	return &Buffer{img: img}
}

package core

import (
	"image"
	"math"
)

// HashSampler is a per-pixel generator seeded from (pixel, frame).
// Two samplers created with the same arguments produce the same sequence.
type HashSampler struct {
	state uint32
}

// NewHashSampler seeds a sampler for one pixel of one frame
func NewHashSampler(pixel image.Point, frameIndex uint32) *HashSampler {
	seed := pcgHash(uint32(pixel.X)&0xFFFF | uint32(pixel.Y)<<16)
	return &HashSampler{state: pcgHash(seed + frameIndex)}
}

// Get1D returns a float64 in [0, 1)
func (h *HashSampler) Get1D() float64 {
	h.state = pcgHash(h.state)
	// 24 mantissa bits keep the result strictly below 1
	return float64(h.state>>8) * (1.0 / (1 << 24))
}

// Get2D returns two floats in [0, 1)
func (h *HashSampler) Get2D() Vec2 {
	x := h.Get1D()
	return NewVec2(x, h.Get1D())
}

func pcgHash(v uint32) uint32 {
	state := v*747796405 + 2891336453
	word := ((state >> ((state >> 28) + 4)) ^ state) * 277803737
	return (word >> 22) ^ word
}

// SampleCone samples a direction uniformly within a cone
func SampleCone(direction Vec3, cosTotalWidth float64, sample Vec2) Vec3 {
	// Create coordinate system with z-axis pointing in cone direction
	w := direction
	var u Vec3
	if math.Abs(w.X) > 0.1 {
		u = NewVec3(0, 1, 0)
	} else {
		u = NewVec3(1, 0, 0)
	}
	u = u.Cross(w).Normalize()
	v := w.Cross(u)

	// Sample direction within the cone
	cosTheta := 1.0 - sample.X*(1.0-cosTotalWidth)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	phi := 2.0 * math.Pi * sample.Y

	x := sinTheta * math.Cos(phi)
	y := sinTheta * math.Sin(phi)
	z := cosTheta

	return u.Multiply(x).Add(v.Multiply(y)).Add(w.Multiply(z))
}

// SampleCosineHemisphere generates a cosine-weighted direction in the hemisphere around normal
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	a := 2.0 * math.Pi * sample.X
	z := sample.Y
	r := math.Sqrt(z)

	x := r * math.Cos(a)
	y := r * math.Sin(a)
	zCoord := math.Sqrt(1.0 - z)

	var nt Vec3
	if math.Abs(normal.X) > 0.1 {
		nt = NewVec3(0, 1, 0)
	} else {
		nt = NewVec3(1, 0, 0)
	}

	tangent := nt.Cross(normal).Normalize()
	bitangent := normal.Cross(tangent)

	return tangent.Multiply(x).Add(bitangent.Multiply(y)).Add(normal.Multiply(zCoord))
}

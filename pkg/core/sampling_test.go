package core

import (
	"image"
	"math"
	"testing"
)

func TestHashSampler_Deterministic(t *testing.T) {
	a := NewHashSampler(image.Pt(12, 34), 7)
	b := NewHashSampler(image.Pt(12, 34), 7)

	for i := 0; i < 100; i++ {
		if x, y := a.Get1D(), b.Get1D(); x != y {
			t.Fatalf("Sample %d differs: %f vs %f", i, x, y)
		}
	}
}

func TestHashSampler_VariesWithPixelAndFrame(t *testing.T) {
	base := NewHashSampler(image.Pt(5, 5), 1).Get1D()

	if NewHashSampler(image.Pt(6, 5), 1).Get1D() == base {
		t.Error("Expected different sequence for neighbouring pixel")
	}
	if NewHashSampler(image.Pt(5, 5), 2).Get1D() == base {
		t.Error("Expected different sequence for next frame")
	}
}

func TestHashSampler_Range(t *testing.T) {
	s := NewHashSampler(image.Pt(0, 0), 0)
	sum := 0.0
	const n = 10000
	for i := 0; i < n; i++ {
		v := s.Get1D()
		if v < 0 || v >= 1 {
			t.Fatalf("Sample %f outside [0, 1)", v)
		}
		sum += v
	}

	// Mean of a uniform distribution is 0.5
	if mean := sum / n; math.Abs(mean-0.5) > 0.02 {
		t.Errorf("Expected mean near 0.5, got %f", mean)
	}
}

func TestSampleCone_StaysInsideCone(t *testing.T) {
	s := NewHashSampler(image.Pt(1, 2), 3)
	dir := NewVec3(0, 0, 1)
	cosWidth := math.Cos(0.1)

	for i := 0; i < 200; i++ {
		d := SampleCone(dir, cosWidth, s.Get2D())
		if d.Dot(dir) < cosWidth-1e-9 {
			t.Fatalf("Direction %v outside cone", d)
		}
		if math.Abs(d.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit direction, got length %f", d.Length())
		}
	}
}

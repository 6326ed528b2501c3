package denoiser

import (
	"math"
	"testing"

	"github.com/df07/go-hybrid-composer/pkg/core"
)

func TestNormHitDist(t *testing.T) {
	prev := -1.0
	for _, hitT := range []float64{0, 0.5, 1, 4, 16, 1e3} {
		got := NormHitDist(hitT, 10, 0.5)
		if got < 0 || got > 1 {
			t.Fatalf("NormHitDist(%f) out of [0,1]: %f", hitT, got)
		}
		if got < prev {
			t.Errorf("Expected NormHitDist to be non-decreasing at hitT=%f", hitT)
		}
		prev = got
	}
	if got := NormHitDist(1e3, 10, 0.5); got != 1 {
		t.Errorf("Expected saturation for distant hits, got %f", got)
	}
}

func TestPackSH_FirstMoment(t *testing.T) {
	radiance := core.NewVec3(1, 1, 1)
	sh0, sh1 := PackSH(FamilyReblur, radiance, core.NewVec3(0, 0, 0.5), 0.5)

	if sh0[0] != 1 || sh0[1] != 0 || sh0[2] != 0 {
		t.Errorf("Expected YCoCg (1,0,0), got %v", sh0)
	}
	if sh1[2] != 0.5 || sh1[0] != 0 || sh1[1] != 0 {
		t.Errorf("Expected the moment stored unnormalized, got %v", sh1)
	}
	if f := NewSG(FamilyReblur, sh0, sh1).Directionality(); math.Abs(f-0.5) > 1e-3 {
		t.Errorf("Expected directionality 0.5 for a spread lobe, got %f", f)
	}
}

func TestPack_HalfPrecision(t *testing.T) {
	packed := PackRadiance(FamilyRelax, core.NewVec3(1.0/3, 0, 0), 0)
	if packed[0] == 1.0/3 {
		t.Error("Expected packed values to be quantized to half precision")
	}
	if math.Abs(packed[0]-1.0/3) > 1e-3 {
		t.Errorf("Quantization error too large: %f", packed[0])
	}
}

func TestPackDirectionalOcclusion(t *testing.T) {
	packed := PackDirectionalOcclusion(1.5, core.NewVec3(0, 1, 0))
	if packed[3] != 1 || packed[1] != 1 {
		t.Errorf("Expected saturated occlusion along +Y, got %v", packed)
	}

	packed = PackDirectionalOcclusion(0.5, core.NewVec3(0, 0.25, 0))
	if packed[3] != 0.5 || packed[1] != 0.25 {
		t.Errorf("Expected the moment stored unnormalized, got %v", packed)
	}
}

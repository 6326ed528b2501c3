package brdf

import (
	"math"
	"testing"

	"github.com/df07/go-hybrid-composer/pkg/core"
)

func TestFresnelDielectric_Range(t *testing.T) {
	etas := []float64{1.0 / 1.5, 1.5, 1.0, 1.0 / 2.4, 2.4, 0.1, 10}
	for _, eta := range etas {
		for i := 0; i <= 100; i++ {
			cosTheta := float64(i) / 100
			f := FresnelDielectric(eta, cosTheta)
			if f < 0 || f > 1 || math.IsNaN(f) {
				t.Fatalf("F(eta=%f, cos=%f) = %f outside [0,1]", eta, cosTheta, f)
			}
		}
	}
}

func TestFresnelDielectric_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		eta      float64
		cosTheta float64
		expected float64
	}{
		{"Normal incidence air to glass", 1.0 / 1.5, 1, 0.04},
		{"Normal incidence glass to air", 1.5, 1, 0.04},
		{"Grazing incidence", 1.0 / 1.5, 0, 1},
		{"Past critical angle", 1.5, 0.1, 1},
		{"Matched media", 1.0, 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const tolerance = 1e-6
			if got := FresnelDielectric(tt.eta, tt.cosTheta); math.Abs(got-tt.expected) > tolerance {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestFresnelDielectric_Monotonic(t *testing.T) {
	// Reflectance grows toward grazing angles for air -> glass
	prev := FresnelDielectric(1.0/1.5, 1)
	for i := 99; i >= 0; i-- {
		f := FresnelDielectric(1.0/1.5, float64(i)/100)
		if f < prev-1e-12 {
			t.Fatalf("Fresnel decreased toward grazing: %f < %f at cos=%f", f, prev, float64(i)/100)
		}
		prev = f
	}
}

func TestRefract_SnellsLaw(t *testing.T) {
	n := core.NewVec3(0, 1, 0)
	i := core.NewVec3(1, -1, 0).Normalize() // 45 degrees
	eta := 1.0 / 1.5

	tr, ok := Refract(i, n, eta)
	if !ok {
		t.Fatal("Expected refraction for air -> glass")
	}

	sinI := math.Sqrt(1 - math.Pow(i.Dot(n), 2))
	sinT := math.Sqrt(1 - math.Pow(tr.Dot(n), 2))
	if math.Abs(sinI*eta-sinT) > 1e-9 {
		t.Errorf("Snell's law violated: eta*sinI=%f sinT=%f", sinI*eta, sinT)
	}
	if tr.Y >= 0 {
		t.Errorf("Refracted ray should continue below the surface, got %v", tr)
	}
}

func TestRefract_TotalInternalReflection(t *testing.T) {
	n := core.NewVec3(0, 1, 0)
	i := core.NewVec3(1, -0.1, 0).Normalize()

	if _, ok := Refract(i, n, 1.5); ok {
		t.Error("Expected total internal reflection for glass -> air at a shallow angle")
	}
	// Fresnel must agree with the refraction discriminant
	if f := FresnelDielectric(1.5, -i.Dot(n)); f != 1 {
		t.Errorf("Expected F=1 past the critical angle, got %f", f)
	}
}

func TestReflect(t *testing.T) {
	got := Reflect(core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0))
	if got != core.NewVec3(1, 1, 0) {
		t.Errorf("Expected (1,1,0), got %v", got)
	}
}

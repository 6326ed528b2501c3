package denoiser

import (
	"math"
	"testing"

	"github.com/df07/go-hybrid-composer/pkg/core"
)

func TestSG_Isotropic(t *testing.T) {
	sg := SG{C0: 0.5}
	n := core.NewVec3(0, 0, 1)

	if got := sg.Directionality(); got != 0 {
		t.Errorf("Expected zero directionality, got %f", got)
	}
	if got := sg.Roughness(); got != 1 {
		t.Errorf("Expected roughness 1 for an isotropic lobe, got %f", got)
	}
	if got := sg.ResolveDiffuse(n); !vecNear(got, sg.Color(), 1e-12) {
		t.Errorf("Isotropic diffuse resolve should return the color, got %v", got)
	}
	if got := sg.ResolveSpecular(n, n, 0.3); !vecNear(got, sg.Color(), 1e-12) {
		t.Errorf("Isotropic specular resolve should return the color, got %v", got)
	}
}

func TestSG_RoughnessDecreasesWithDirectionality(t *testing.T) {
	dir := core.NewVec3(0, 1, 0)
	prev := 2.0
	for _, f := range []float64{0, 0.2, 0.5, 0.8, 0.95, 1.5} {
		sg := SG{C0: 1, C1: dir.Multiply(f)}
		r := sg.Roughness()
		if r < 0 || r > 1 || math.IsNaN(r) {
			t.Fatalf("Roughness for f=%f out of range: %f", f, r)
		}
		if r >= prev && f <= maxDirectionality {
			t.Errorf("Expected roughness to decrease at f=%f: %f >= %f", f, r, prev)
		}
		prev = r
	}
}

func TestSG_DiffuseResolveNonNegative(t *testing.T) {
	sg := SG{C0: 1, Co: 0.1, Cg: -0.05, C1: core.NewVec3(0, 0.9, 0)}
	for _, n := range []core.Vec3{
		core.NewVec3(0, 1, 0),
		core.NewVec3(0, -1, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0.5, -0.5, 0.7).Normalize(),
	} {
		got := sg.ResolveDiffuse(n)
		if got.X < 0 || got.Y < 0 || got.Z < 0 || !got.IsFinite() {
			t.Errorf("Resolve toward %v produced %v", n, got)
		}
	}
}

func TestSG_SpecularResolveFadesWithRoughness(t *testing.T) {
	up := core.NewVec3(0, 1, 0)
	sg := SG{C0: 1, C1: up.Multiply(0.8)}

	smooth := sg.ResolveSpecular(up, up, 0.05).Luminance()
	rough := sg.ResolveSpecular(up, up, 1).Luminance()
	base := sg.Color().Luminance()

	if !(smooth > rough && rough > base) {
		t.Errorf("Expected smooth > rough > unresolved, got %f, %f, %f", smooth, rough, base)
	}
}

// Package brdf holds the closed-form reflectance terms shared by the
// composition kernels.
package brdf

import (
	"math"

	"github.com/df07/go-hybrid-composer/pkg/core"
)

// Indices of refraction used by the transparent path
const (
	IORAir   = 1.0
	IORGlass = 1.5
)

// FresnelDielectric returns the unpolarised Fresnel reflectance of a dielectric
// interface. eta is the ratio n(incident side) / n(transmitted side) and cosTheta
// is the cosine between the normal and the view direction. Past the critical
// angle the result is 1.
func FresnelDielectric(eta, cosTheta float64) float64 {
	c := core.Saturate(math.Abs(cosTheta))
	n := 1.0 / eta

	g2 := n*n - 1.0 + c*c
	if g2 < 0 {
		return 1
	}
	g := math.Sqrt(g2)

	if g+c == 0 {
		return 1
	}
	a := (g - c) / (g + c)

	den := c*(g-c) + 1
	if den == 0 {
		return 1
	}
	b := (c*(g+c) - 1) / den

	return core.Saturate(0.5 * a * a * (1 + b*b))
}

// Reflect mirrors the incident direction i about the normal n
func Reflect(i, n core.Vec3) core.Vec3 {
	// r = i - 2*dot(i,n)*n
	return i.Subtract(n.Multiply(2 * i.Dot(n)))
}

// Refract bends the unit incident direction i through an interface with unit
// normal n facing against i, where eta = n1/n2. ok is false on total internal
// reflection, in which case the direction is undefined.
func Refract(i, n core.Vec3, eta float64) (core.Vec3, bool) {
	cosI := i.Dot(n)
	k := 1.0 - eta*eta*(1.0-cosI*cosI)
	if k < 0 {
		return core.Vec3{}, false
	}
	t := i.Multiply(eta).Subtract(n.Multiply(eta*cosI + math.Sqrt(k)))
	return t.Normalize(), true
}

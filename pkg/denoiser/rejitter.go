package denoiser

import (
	"math"

	"github.com/df07/go-hybrid-composer/pkg/core"
)

const (
	// Relative depth difference at which a neighbour's weight falls to 1/e
	rejitterDepthSigma = 0.03
	rejitterMinScale   = 0.5
	rejitterMaxScale   = 2.0
)

// Neighbor is the normal and depth of one of the four adjacent pixels
type Neighbor struct {
	N     core.Vec3
	ViewZ float64
}

// Surface is the G-buffer context a pixel is decoded against
type Surface struct {
	N         core.Vec3
	V         core.Vec3
	ViewZ     float64
	Roughness float64
	Neighbors [4]Neighbor
}

// rejitterScale recovers detail lost to spatial accumulation: the denoised
// lobe is shared by the neighbourhood, so the ratio of its response toward
// the center normal over the weighted neighbour response rescales the center.
// Flat neighbourhoods give exactly 1.
func rejitterScale(s Surface, eval func(n core.Vec3) float64) float64 {
	center := eval(s.N)

	var sum, weightSum float64
	for _, nb := range s.Neighbors {
		w := core.Saturate(s.N.Dot(nb.N))
		if z := math.Abs(s.ViewZ); z > 0 {
			w *= math.Exp(-math.Abs(nb.ViewZ-s.ViewZ) / (z * rejitterDepthSigma))
		}
		if w <= 0 {
			continue
		}
		sum += w * eval(nb.N)
		weightSum += w
	}

	if weightSum == 0 || sum <= 0 {
		return 1
	}
	avg := sum / weightSum
	return max(rejitterMinScale, min(rejitterMaxScale, center/avg))
}

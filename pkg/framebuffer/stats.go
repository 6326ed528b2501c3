package framebuffer

import (
	"image"
	"math"
)

// ChannelStats summarizes one channel of a buffer
type ChannelStats struct {
	Min       float64
	Max       float64
	Mean      float64
	NonFinite int // NaN or infinite samples, excluded from Min/Max/Mean
}

// Stats computes per-channel statistics over the whole buffer
func Stats(b *Buffer) [4]ChannelStats {
	var out [4]ChannelStats
	var sums [4]float64
	var counts [4]int
	for i := range out {
		out[i].Min = math.Inf(1)
		out[i].Max = math.Inf(-1)
	}

	bounds := b.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := b.Raw(image.Pt(x, y))
			for c := range v {
				if math.IsNaN(v[c]) || math.IsInf(v[c], 0) {
					out[c].NonFinite++
					continue
				}
				out[c].Min = min(out[c].Min, v[c])
				out[c].Max = max(out[c].Max, v[c])
				sums[c] += v[c]
				counts[c]++
			}
		}
	}

	for c := range out {
		if counts[c] == 0 {
			out[c].Min, out[c].Max = 0, 0
			continue
		}
		out[c].Mean = sums[c] / float64(counts[c])
	}
	return out
}

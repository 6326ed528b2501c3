package renderer

import "time"

// TileStats contains statistics about a single tile
type TileStats struct {
	Invocations int // Kernel invocations, including padding pixels
}

// DispatchStats contains statistics about one kernel dispatch
type DispatchStats struct {
	Name        string
	Width       int
	Height      int
	Tiles       int
	Invocations int
	Workers     int
	Duration    time.Duration
}

// Add accumulates a tile's statistics
func (ds *DispatchStats) Add(ts TileStats) {
	ds.Tiles++
	ds.Invocations += ts.Invocations
}

// PixelsPerSecond returns the dispatch throughput over the output rectangle
func (ds DispatchStats) PixelsPerSecond() float64 {
	if ds.Duration <= 0 {
		return 0
	}
	return float64(ds.Width*ds.Height) / ds.Duration.Seconds()
}

package renderer

import "image"

// Kernel is a per-pixel compute function. It must only write its own pixel.
type Kernel func(p image.Point)

// RunTile invokes the kernel once for every pixel of the tile, row by row
func RunTile(tile *Tile, kernel Kernel) TileStats {
	bounds := tile.Bounds
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			kernel(image.Pt(x, y))
		}
	}
	return TileStats{Invocations: bounds.Dx() * bounds.Dy()}
}

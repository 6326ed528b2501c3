package renderer

import "image"

// Tile represents a rectangular region of the dispatch grid
type Tile struct {
	ID     int             // Unique tile identifier
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{ID: id, Bounds: bounds}
}

// NewTileGrid creates a grid of full-size tiles covering the image. The grid is
// padded up to a multiple of tileSize; kernels ignore pixels outside their
// output rectangle.
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tileID := 0

	// Calculate number of tiles in each dimension
	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			bounds := image.Rect(x0, y0, x0+tileSize, y0+tileSize)
			tiles = append(tiles, NewTile(tileID, bounds))
			tileID++
		}
	}

	return tiles
}

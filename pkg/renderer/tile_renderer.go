package renderer

import (
	"image"

	"github.com/phoekz/raydiance-sub000/pkg/core"
	"github.com/phoekz/raydiance-sub000/pkg/geometry"
	"github.com/phoekz/raydiance-sub000/pkg/integrator"
)

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int             // Unique tile identifier, also its index in the grid
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTileGrid creates a grid of tiles covering the entire image. Edge tiles
// are clipped to the image bounds.
func NewTileGrid(width, height, tileSize int) []Tile {
	// Calculate number of tiles in each dimension
	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	tiles := make([]Tile, 0, tilesX*tilesY)
	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, Tile{ID: len(tiles), Bounds: image.Rect(x0, y0, x1, y1)})
		}
	}
	return tiles
}

// TileResult is a tile's private output buffer for one sample pass
type TileResult struct {
	Tile   Tile
	Pixels []core.Vec3 // Row-major within the tile
	Stats  geometry.HitStats
}

// TileRenderer handles the rendering of individual tiles using an integrator
type TileRenderer struct {
	integrator *integrator.PathTracingIntegrator
}

// NewTileRenderer creates a new tile renderer with the given integrator
func NewTileRenderer(integratorInst *integrator.PathTracingIntegrator) *TileRenderer {
	return &TileRenderer{integrator: integratorInst}
}

// RenderTile takes one sample for every pixel of tile
func (tr *TileRenderer) RenderTile(tile Tile, sampleIndex int) TileResult {
	bounds := tile.Bounds
	result := TileResult{
		Tile:   tile,
		Pixels: make([]core.Vec3, 0, bounds.Dx()*bounds.Dy()),
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			radiance := tr.integrator.Radiance(x, y, sampleIndex, &result.Stats)
			result.Pixels = append(result.Pixels, radiance)
		}
	}
	return result
}

// mergeTile adds a tile's samples into the full-image accumulator
func mergeTile(accumulator []core.Vec3, width int, result TileResult) {
	bounds := result.Tile.Bounds
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := accumulator[y*width : (y+1)*width]
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			row[x] = row[x].Add(result.Pixels[i])
			i++
		}
	}
}

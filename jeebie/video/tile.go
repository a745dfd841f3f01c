package video

import "github.com/valerio/dmgcore/jeebie/bit"

// TileRow represents one row of an 8-pixel tile pattern. Each row is stored
// as two bit-planes: Low provides bit 0 of each pixel's color, High
// provides bit 1. Bit 7 is the leftmost pixel, bit 0 the rightmost.
type TileRow struct {
	Low  byte
	High byte
}

// GetPixel extracts a pixel color (0-3) from the tile row. pixelX is 0-7,
// where 0 is the leftmost pixel.
func (t TileRow) GetPixel(pixelX int) int {
	bitIndex := uint8(7 - pixelX)

	pixel := 0
	if bit.IsSet(bitIndex, t.Low) {
		pixel |= 1
	}
	if bit.IsSet(bitIndex, t.High) {
		pixel |= 2
	}

	return pixel
}

// Tile is a complete 8x8 tile pattern: 8 rows, 16 bytes in VRAM.
type Tile struct {
	Rows [8]TileRow
}

// GetPixel returns the color index (0-3) for a pixel at (x, y) within the tile.
func (t *Tile) GetPixel(x, y int) int {
	if y < 0 || y >= 8 || x < 0 || x >= 8 {
		return 0
	}
	return t.Rows[y].GetPixel(x)
}

// memoryReader is the minimal interface the tile fetcher needs from VRAM.
type memoryReader interface {
	Read(addr uint16) byte
}

// fetchTile reads a complete 8x8 tile starting at baseAddr.
func fetchTile(mem memoryReader, baseAddr uint16) Tile {
	var tile Tile
	for row := 0; row < 8; row++ {
		addr := baseAddr + uint16(row*2)
		tile.Rows[row] = TileRow{
			Low:  mem.Read(addr),
			High: mem.Read(addr + 1),
		}
	}
	return tile
}

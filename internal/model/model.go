package model

import "fmt"

// MaxZoom is the first zoom level out of range
const MaxZoom = 31

// Tile are the coordinates of one tile in the XYZ (slippy map) scheme.
type Tile struct {
	Z int
	X int
	Y int
}

func (t Tile) String() string {
	return fmt.Sprintf("Z:%d, X:%d, Y:%d", t.Z, t.X, t.Y)
}

// Valid checks if the coordinates are inside the pyramid of the zoom level.
func (t Tile) Valid() bool {
	if t.Z < 0 || t.Z >= MaxZoom {
		return false
	}
	max := 1 << t.Z // 2^zoom
	return t.X >= 0 && t.X < max && t.Y >= 0 && t.Y < max
}

// ReverseY converts the row to the TMS convention (rows counted bottom-up).
// Zoom levels out of range give -1.
func (t Tile) ReverseY() int {
	if t.Z < 0 || t.Z >= MaxZoom {
		return -1
	}
	ymax := 1 << t.Z
	return ymax - t.Y - 1
}

// PixelBuffer holds RGBA8 pixels, row-major, origin top-left.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// At returns the RGBA value of the pixel at x, y.
func (p *PixelBuffer) At(x, y int) [4]byte {
	i := (y*p.Width + x) * 4
	return [4]byte{p.Pix[i], p.Pix[i+1], p.Pix[i+2], p.Pix[i+3]}
}

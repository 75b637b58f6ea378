package terrain

import (
	"fmt"
	"strings"

	"github.com/willie68/go_heightmap/internal/model"
)

/*
	Heightmap tiles encode the elevation in the rgb channels.

	mapbox terrain-rgb:  height = -10000 + ((R * 256 * 256 + G * 256 + B) * 0.1)
	terrarium:           height = (R * 256 + G + B / 256) - 32768
*/

type Encoding string

const (
	Mapbox    Encoding = "mapbox"
	Terrarium Encoding = "terrarium"
)

// ParseEncoding returns the encoding for a config value, mapbox if empty
func ParseEncoding(name string) (Encoding, error) {
	switch Encoding(strings.ToLower(strings.TrimSpace(name))) {
	case "", Mapbox:
		return Mapbox, nil
	case Terrarium:
		return Terrarium, nil
	}
	return "", fmt.Errorf("unknown height encoding: %s", name)
}

// Height decodes a single pixel
func (e Encoding) Height(r, g, b uint8) float64 {
	if e == Terrarium {
		return float64(r)*256 + float64(g) + float64(b)/256 - 32768
	}
	x := int64(r)*256*256 + int64(g)*256 + int64(b)
	return -10000.0 + float64(x)*0.1
}

// Elevations decodes all pixels of the buffer, row-major
func (e Encoding) Elevations(pb *model.PixelBuffer) []float32 {
	if pb == nil {
		return nil
	}
	els := make([]float32, pb.Width*pb.Height)
	for i := range els {
		p := pb.Pix[i*4 : i*4+3]
		els[i] = float32(e.Height(p[0], p[1], p[2]))
	}
	return els
}

// Stats are the min, max and mean elevation of a tile
type Stats struct {
	Min  float32 `json:"min"`
	Max  float32 `json:"max"`
	Mean float32 `json:"mean"`
}

func ElevationStats(els []float32) Stats {
	if len(els) == 0 {
		return Stats{}
	}
	st := Stats{Min: els[0], Max: els[0]}
	var sum float64
	for _, e := range els {
		st.Min = min(st.Min, e)
		st.Max = max(st.Max, e)
		sum += float64(e)
	}
	st.Mean = float32(sum / float64(len(els)))
	return st
}

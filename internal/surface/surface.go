package surface

import (
	"fmt"
	"image"
	"strings"

	"github.com/willie68/go_heightmap/internal/model"
	"golang.org/x/image/draw"
)

// Surface is an off-screen drawing target of size x size pixels.
type Surface struct {
	img    *image.NRGBA
	interp draw.Interpolator
}

// New allocates a blank surface
func New(size int, interp draw.Interpolator) *Surface {
	if interp == nil {
		interp = draw.ApproxBiLinear
	}
	return &Surface{
		img:    image.NewNRGBA(image.Rect(0, 0, size, size)),
		interp: interp,
	}
}

// Size returns the edge length in pixels
func (s *Surface) Size() int {
	return s.img.Rect.Dx()
}

// Draw paints img at (0,0), stretched or shrunk to cover the whole surface.
func (s *Surface) Draw(img image.Image) {
	if img == nil {
		return
	}
	sr := img.Bounds()
	if sr.Dx() == s.img.Rect.Dx() && sr.Dy() == s.img.Rect.Dy() {
		// same size, no resampling, the pixel values must stay exact
		draw.Draw(s.img, s.img.Rect, img, sr.Min, draw.Src)
		return
	}
	s.interp.Scale(s.img, s.img.Rect, img, sr, draw.Src, nil)
}

// ReadPixels copies the full content of the surface.
func (s *Surface) ReadPixels() *model.PixelBuffer {
	pix := make([]byte, len(s.img.Pix))
	copy(pix, s.img.Pix)
	return &model.PixelBuffer{
		Width:  s.img.Rect.Dx(),
		Height: s.img.Rect.Dy(),
		Pix:    pix,
	}
}

// Clear resets every pixel to transparent black
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// ParseResampling maps a config name to an interpolator. An empty name
// selects approximate bilinear filtering, which is close to what browsers
// do when stretching an image.
func ParseResampling(name string) (draw.Interpolator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "approxbilinear":
		return draw.ApproxBiLinear, nil
	case "nearest", "nearestneighbor":
		return draw.NearestNeighbor, nil
	case "bilinear":
		return draw.BiLinear, nil
	case "catmullrom":
		return draw.CatmullRom, nil
	}
	return nil, fmt.Errorf("unknown resampling: %s", name)
}

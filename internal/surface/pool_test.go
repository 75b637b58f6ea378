package surface

import (
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"
)

const testSize = 16

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 11), B: uint8(x + y), A: 255})
		}
	}
	return img
}

type panicImage struct{}

func (panicImage) ColorModel() color.Model { return color.NRGBAModel }
func (panicImage) Bounds() image.Rectangle { return image.Rect(0, 0, testSize, testSize) }
func (panicImage) At(x, y int) color.Color { panic("broken image") }

func TestAcquireDistinct(t *testing.T) {
	ast := assert.New(t)
	p := NewPool(testSize)

	seen := make(map[*Surface]bool)
	for range 5 {
		s, ok := p.Acquire()
		ast.True(ok)
		ast.False(seen[s])
		seen[s] = true
		ast.Equal(testSize, s.Size())
	}
	ast.Equal(5, p.Allocated())
	ast.Equal(0, p.Idle())
}

func TestLIFOReuse(t *testing.T) {
	ast := assert.New(t)
	p := NewPool(testSize)

	s1, _ := p.Acquire()
	s2, _ := p.Acquire()
	p.Release(s1)
	p.Release(s2)
	ast.Equal(2, p.Idle())

	s, ok := p.Acquire()
	ast.True(ok)
	ast.Same(s2, s)

	p.Release(s)
	s, _ = p.Acquire()
	ast.Same(s2, s)
	ast.Equal(2, p.Allocated())
}

func TestAllocatorUnavailable(t *testing.T) {
	ast := assert.New(t)
	p := NewPool(testSize, WithAllocator(func(int) *Surface { return nil }))

	s, ok := p.Acquire()
	ast.False(ok)
	ast.Nil(s)

	pb, ok := p.Extract(gradient(testSize, testSize))
	ast.False(ok)
	ast.Nil(pb)
	ast.Equal(0, p.Allocated())
}

func TestZeroSize(t *testing.T) {
	p := NewPool(0)
	_, ok := p.Acquire()
	assert.False(t, ok)
}

func TestExtractExact(t *testing.T) {
	ast := assert.New(t)
	p := NewPool(testSize)
	src := gradient(testSize, testSize)

	pb, ok := p.Extract(src)
	require.True(t, ok)
	ast.Equal(testSize, pb.Width)
	ast.Equal(testSize, pb.Height)
	ast.Len(pb.Pix, testSize*testSize*4)
	ast.True(cmp.Equal(src.Pix, pb.Pix))
	ast.Equal(1, p.Idle())
}

func TestExtractIdempotent(t *testing.T) {
	ast := assert.New(t)
	src := gradient(40, 24)

	p := NewPool(testSize)
	first, ok := p.Extract(src)
	require.True(t, ok)
	second, ok := p.Extract(src)
	require.True(t, ok)
	ast.True(cmp.Equal(first.Pix, second.Pix))
	ast.Equal(1, p.Allocated())

	p = NewPool(testSize)
	third, ok := p.Extract(src)
	require.True(t, ok)
	ast.True(cmp.Equal(first.Pix, third.Pix))
}

func TestExtractClearsSurface(t *testing.T) {
	ast := assert.New(t)
	p := NewPool(testSize)
	_, ok := p.Extract(gradient(testSize, testSize))
	require.True(t, ok)

	s, _ := p.Acquire()
	for _, b := range s.img.Pix {
		if b != 0 {
			ast.Fail("surface not cleared")
			break
		}
	}
}

func TestExtractScales(t *testing.T) {
	ast := assert.New(t)
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	draw.Draw(src, src.Rect, image.NewUniform(color.NRGBA{R: 10, G: 20, B: 30, A: 255}), image.Point{}, draw.Src)

	for _, name := range []string{"nearest", "approxbilinear", "bilinear", "catmullrom"} {
		interp, err := ParseResampling(name)
		require.NoError(t, err)
		p := NewPool(testSize, WithInterpolator(interp))
		pb, ok := p.Extract(src)
		require.True(t, ok)
		ast.Equal([4]byte{10, 20, 30, 255}, pb.At(0, 0), name)
		ast.Equal([4]byte{10, 20, 30, 255}, pb.At(testSize-1, testSize-1), name)
	}
}

func TestExtractPanicReleases(t *testing.T) {
	ast := assert.New(t)
	p := NewPool(testSize)
	ast.Panics(func() {
		p.Extract(panicImage{})
	})
	ast.Equal(1, p.Idle())
	ast.Equal(1, p.Allocated())
}

func TestParseResampling(t *testing.T) {
	ast := assert.New(t)
	i, err := ParseResampling("")
	ast.NoError(err)
	ast.Equal(draw.ApproxBiLinear, i)
	i, err = ParseResampling("Nearest")
	ast.NoError(err)
	ast.Equal(draw.NearestNeighbor, i)
	_, err = ParseResampling("lanczos")
	ast.Error(err)
}

func TestConcurrentOwnership(t *testing.T) {
	ast := assert.New(t)
	p := NewPool(testSize)

	var mu sync.Mutex
	inUse := make(map[*Surface]bool)
	var wg sync.WaitGroup
	for range 32 {
		wg.Go(func() {
			for range 50 {
				s, ok := p.Acquire()
				if !ok {
					ast.Fail("no surface")
					return
				}
				mu.Lock()
				if inUse[s] {
					ast.Fail("surface shared between callers")
				}
				inUse[s] = true
				mu.Unlock()

				mu.Lock()
				inUse[s] = false
				mu.Unlock()
				p.Release(s)
			}
		})
	}
	wg.Wait()
	ast.Equal(p.Allocated(), p.Idle())
	ast.LessOrEqual(p.Allocated(), 32)
}

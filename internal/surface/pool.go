package surface

import (
	"image"
	"sync"

	"github.com/willie68/go_heightmap/internal/model"
	"golang.org/x/image/draw"
)

// Allocator creates a new surface, nil if no surface can be created.
type Allocator func(size int) *Surface

type Option func(p *Pool)

// WithInterpolator sets the resampling used by surfaces of the pool
func WithInterpolator(interp draw.Interpolator) Option {
	return func(p *Pool) {
		p.interp = interp
	}
}

// WithAllocator replaces the default allocation of new surfaces
func WithAllocator(alloc Allocator) Option {
	return func(p *Pool) {
		p.alloc = alloc
	}
}

// Pool is a last-in-first-out free list of surfaces. A surface is either
// idle in the pool or owned by exactly one caller.
type Pool struct {
	size      int
	interp    draw.Interpolator
	alloc     Allocator
	plock     sync.Mutex
	idle      []*Surface
	allocated int
}

func NewPool(size int, opts ...Option) *Pool {
	p := &Pool{
		size:   size,
		interp: draw.ApproxBiLinear,
		idle:   make([]*Surface, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.alloc == nil {
		interp := p.interp
		p.alloc = func(size int) *Surface {
			if size <= 0 {
				return nil
			}
			return New(size, interp)
		}
	}
	return p
}

// Acquire pops the most recently released surface or allocates a new one.
// It returns false if no surface could be created.
func (p *Pool) Acquire() (*Surface, bool) {
	p.plock.Lock()
	defer p.plock.Unlock()
	if n := len(p.idle); n > 0 {
		s := p.idle[n-1]
		p.idle[n-1] = nil
		p.idle = p.idle[:n-1]
		return s, true
	}
	s := p.alloc(p.size)
	if s == nil {
		return nil, false
	}
	p.allocated++
	return s, true
}

// Release clears the surface and pushes it back onto the pool.
func (p *Pool) Release(s *Surface) {
	if s == nil {
		return
	}
	s.Clear()
	p.plock.Lock()
	defer p.plock.Unlock()
	p.idle = append(p.idle, s)
}

// Extract draws img into a pooled surface and reads back all pixels. The
// surface goes back to the pool on every exit path, including a panic
// while drawing. Returns false if no surface is available.
func (p *Pool) Extract(img image.Image) (*model.PixelBuffer, bool) {
	s, ok := p.Acquire()
	if !ok {
		return nil, false
	}
	defer p.Release(s)
	s.Draw(img)
	return s.ReadPixels(), true
}

// Size is the edge length of the pooled surfaces
func (p *Pool) Size() int {
	return p.size
}

// Idle returns the number of surfaces waiting in the pool
func (p *Pool) Idle() int {
	p.plock.Lock()
	defer p.plock.Unlock()
	return len(p.idle)
}

// Allocated returns the number of surfaces created over the pool lifetime
func (p *Pool) Allocated() int {
	p.plock.Lock()
	defer p.plock.Unlock()
	return p.allocated
}

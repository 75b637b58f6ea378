// Package heightmap loads raster heightmap tiles and extracts their raw
// RGBA pixels for a terrain renderer.
package heightmap

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/willie68/go_heightmap/internal/fetch"
	"github.com/willie68/go_heightmap/internal/model"
	"github.com/willie68/go_heightmap/internal/resource"
	"github.com/willie68/go_heightmap/internal/surface"
)

const (
	DefaultTileSize = 256
	DefaultMaxZoom  = 15
)

// Options configures a heightmap. A zero TileSize and a nil MaxZoom are
// replaced by the defaults, a max zoom of 0 is kept.
type Options struct {
	URL           string            `yaml:"url"`
	TileSize      int               `yaml:"tilesize"`
	MaxZoom       *int              `yaml:"maxzoom,omitempty"`
	SkipOddLevels bool              `yaml:"skipoddlevels"`
	Headers       map[string]string `yaml:"headers"`
	Query         map[string]string `yaml:"query"`
	Resampling    string            `yaml:"resampling"` // nearest, approxbilinear, bilinear, catmullrom
	Encoding      string            `yaml:"encoding"`   // mapbox, terrarium
}

// Zoom returns z as optional zoom level for Options.MaxZoom
func Zoom(z int) *int {
	return &z
}

// Loader is the heightmap tile loader. All methods are safe for concurrent use.
type Loader struct {
	res           *resource.Resource
	fetcher       fetch.Fetcher
	pool          *surface.Pool
	tileSize      int
	maxZoom       int
	skipOddLevels bool
}

// New creates a loader. A missing url is not an error, such a loader simply
// has no tile data. An url that can't be parsed is.
func New(opts Options, fetcher fetch.Fetcher, popts ...surface.Option) (*Loader, error) {
	if fetcher == nil {
		return nil, errors.New("no fetcher given")
	}
	res, err := resource.New(opts.URL, opts.Query)
	if err != nil && !errors.Is(err, resource.ErrNoTemplate) {
		return nil, err
	}
	interp, err := surface.ParseResampling(opts.Resampling)
	if err != nil {
		return nil, err
	}
	if opts.TileSize == 0 {
		opts.TileSize = DefaultTileSize
	}
	if opts.TileSize < 0 {
		return nil, fmt.Errorf("invalid tile size: %d", opts.TileSize)
	}
	maxZoom := DefaultMaxZoom
	if opts.MaxZoom != nil {
		maxZoom = *opts.MaxZoom
	}
	if maxZoom < 0 {
		return nil, fmt.Errorf("invalid max zoom: %d", maxZoom)
	}
	popts = append([]surface.Option{surface.WithInterpolator(interp)}, popts...)
	return &Loader{
		res:           res,
		fetcher:       fetcher,
		pool:          surface.NewPool(opts.TileSize, popts...),
		tileSize:      opts.TileSize,
		maxZoom:       maxZoom,
		skipOddLevels: opts.SkipOddLevels,
	}, nil
}

func (l *Loader) TileSize() int {
	return l.tileSize
}

func (l *Loader) MaxZoom() int {
	return l.maxZoom
}

func (l *Loader) SkipOddLevels() bool {
	return l.skipOddLevels
}

// Pool gives access to the surface pool, mainly for statistics
func (l *Loader) Pool() *surface.Pool {
	return l.pool
}

// TileURL builds the url of the tile. Besides z, x and y the template may use
// reverseY, the row in the TMS convention. Invalid tiles have no url.
func (l *Loader) TileURL(tile model.Tile) (string, bool) {
	if !tile.Valid() {
		return "", false
	}
	// reverseY for TMS tiling (https://gist.github.com/tmcw/4954720)
	return l.res.Derive(map[string]string{
		"z":        strconv.Itoa(tile.Z),
		"x":        strconv.Itoa(tile.X),
		"y":        strconv.Itoa(tile.Y),
		"reverseY": strconv.Itoa(tile.ReverseY()),
	}, true)
}

// TilePixels fetches the tile and returns its pixels. A nil buffer without
// an error means the tile has no data. Fetch and decode errors are returned
// as they are.
func (l *Loader) TilePixels(ctx context.Context, tile model.Tile) (*model.PixelBuffer, error) {
	tileURL, ok := l.TileURL(tile)
	if !ok {
		return nil, nil
	}
	img, err := l.fetcher.Fetch(ctx, tileURL)
	if err != nil {
		return nil, err
	}
	pb, ok := l.pool.Extract(img)
	if !ok {
		return nil, nil
	}
	return pb, nil
}

// TileDataAvailable reports if tiles of the zoom level can have data. The
// order of the checks matters: the max zoom level is always available, even
// if it is odd and odd levels are skipped.
func (l *Loader) TileDataAvailable(tile model.Tile) bool {
	z := tile.Z
	if z == l.maxZoom {
		return true
	}
	if z%2 == 1 && l.skipOddLevels {
		return false
	}
	if z > l.maxZoom {
		return false
	}
	return true
}

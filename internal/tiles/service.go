package tiles

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"slices"

	"github.com/pkg/errors"
	"github.com/samber/do/v2"
	"github.com/willie68/go_heightmap/internal/fetch"
	"github.com/willie68/go_heightmap/internal/heightmap"
	"github.com/willie68/go_heightmap/internal/logging"
	"github.com/willie68/go_heightmap/internal/model"
	"github.com/willie68/go_heightmap/internal/terrain"
	"github.com/willie68/go_heightmap/internal/utils/measurement"
)

var (
	ErrNotFound = errors.New("heightmap not found")
)

// ConfigMap are the configured heightmaps by name
type ConfigMap map[string]heightmap.Options

// Info describes a served heightmap
type Info struct {
	Name          string `json:"name"`
	TileSize      int    `json:"tileSize"`
	MaxZoom       int    `json:"maxZoom"`
	SkipOddLevels bool   `json:"skipOddLevels"`
	Encoding      string `json:"encoding"`
}

type heightmapEntry struct {
	loader   *heightmap.Loader
	encoding terrain.Encoding
}

// Service holds one loader per configured heightmap
type Service struct {
	log     *slog.Logger
	entries map[string]heightmapEntry
	names   []string
	mbt     *fetch.MBTiles
	metrics *measurement.Service
}

// Init creates the service out of the heightmap config of the injector
func Init(inj do.Injector) error {
	s, err := NewService(
		do.MustInvoke[ConfigMap](inj),
		do.MustInvoke[*measurement.Service](inj),
		nil,
	)
	if err != nil {
		return err
	}
	do.ProvideValue(inj, s)
	return nil
}

// NewService builds a loader for every heightmap. If cl is nil, the default
// http client is used.
func NewService(cfg ConfigMap, metrics *measurement.Service, cl *http.Client) (*Service, error) {
	if metrics == nil {
		metrics = measurement.New(false)
	}
	s := &Service{
		log:     logging.New("tiles"),
		entries: make(map[string]heightmapEntry),
		names:   make([]string, 0, len(cfg)),
		mbt:     fetch.NewMBTiles(),
		metrics: metrics,
	}
	for name, opts := range cfg {
		enc, err := terrain.ParseEncoding(opts.Encoding)
		if err != nil {
			return nil, errors.Wrapf(err, "heightmap %s", name)
		}
		ht := fetch.NewHTTP(cl, opts.Headers)
		schemes := fetch.NewSchemes().
			Register("http", ht).
			Register("https", ht).
			Register("file", fetch.NewFile()).
			Register("mbtiles", s.mbt)
		ld, err := heightmap.New(opts, &timedFetcher{
			fetcher: schemes,
			metrics: metrics,
			point:   fmt.Sprintf("fetchImage:%s", name),
		})
		if err != nil {
			return nil, errors.Wrapf(err, "heightmap %s", name)
		}
		s.entries[name] = heightmapEntry{loader: ld, encoding: enc}
		s.names = append(s.names, name)
		s.log.Info(fmt.Sprintf("heightmap %s: tilesize %d, maxzoom %d, skip odd levels %t", name, ld.TileSize(), ld.MaxZoom(), ld.SkipOddLevels()))
	}
	slices.Sort(s.names)
	return s, nil
}

func (s *Service) HasHeightmap(name string) bool {
	_, ok := s.entries[name]
	return ok
}

// Names of all heightmaps, sorted
func (s *Service) Names() []string {
	return slices.Clone(s.names)
}

func (s *Service) Info(name string) (Info, error) {
	e, ok := s.entries[name]
	if !ok {
		return Info{}, ErrNotFound
	}
	return Info{
		Name:          name,
		TileSize:      e.loader.TileSize(),
		MaxZoom:       e.loader.MaxZoom(),
		SkipOddLevels: e.loader.SkipOddLevels(),
		Encoding:      string(e.encoding),
	}, nil
}

// TilePixels returns the pixels of the tile, nil if the tile has no data.
func (s *Service) TilePixels(ctx context.Context, name string, tile model.Tile) (*model.PixelBuffer, error) {
	e, ok := s.entries[name]
	if !ok {
		return nil, ErrNotFound
	}
	td := s.metrics.Start(fmt.Sprintf("getTilePixels:%s", name))
	defer td.Stop()
	pb, err := e.loader.TilePixels(ctx, tile)
	if err != nil {
		td.SetError()
		return nil, err
	}
	return pb, nil
}

// Elevations returns the decoded heights of the tile, nil if the tile has no data.
func (s *Service) Elevations(ctx context.Context, name string, tile model.Tile) ([]float32, error) {
	pb, err := s.TilePixels(ctx, name, tile)
	if err != nil || pb == nil {
		return nil, err
	}
	return s.entries[name].encoding.Elevations(pb), nil
}

func (s *Service) TileDataAvailable(name string, tile model.Tile) (bool, error) {
	e, ok := s.entries[name]
	if !ok {
		return false, ErrNotFound
	}
	return e.loader.TileDataAvailable(tile), nil
}

// Shutdown closes opened tile files
func (s *Service) Shutdown() error {
	return s.mbt.Close()
}

type timedFetcher struct {
	fetcher fetch.Fetcher
	metrics *measurement.Service
	point   string
}

func (t *timedFetcher) Fetch(ctx context.Context, tileURL string) (image.Image, error) {
	td := t.metrics.Start(t.point)
	defer td.Stop()
	img, err := t.fetcher.Fetch(ctx, tileURL)
	if err != nil {
		td.SetError()
	}
	return img, err
}

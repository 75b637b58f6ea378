package fetch

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // register jpeg decoder
	_ "image/png"  // register png decoder
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/pkg/errors"
	_ "golang.org/x/image/webp" // register webp decoder
)

var (
	ErrUnsupportedScheme = errors.New("unsupported url scheme")
	ErrNoTile            = errors.New("tile not found")
)

// Fetcher loads and decodes the image behind an url.
type Fetcher interface {
	Fetch(ctx context.Context, tileURL string) (image.Image, error)
}

// StatusError is returned if a tile server answers with anything but 200.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tile request %s failed: %s", e.URL, e.Status)
}

// Schemes dispatches to a fetcher by the scheme of the url.
type Schemes struct {
	flock    sync.RWMutex
	fetchers map[string]Fetcher
}

func NewSchemes() *Schemes {
	return &Schemes{
		fetchers: make(map[string]Fetcher),
	}
}

// Register adds the fetcher for the given scheme, replacing an existing one.
func (s *Schemes) Register(scheme string, f Fetcher) *Schemes {
	s.flock.Lock()
	defer s.flock.Unlock()
	s.fetchers[strings.ToLower(scheme)] = f
	return s
}

// Supports checks if a fetcher is registered for the scheme of the url
func (s *Schemes) Supports(tileURL string) bool {
	_, err := s.fetcher(tileURL)
	return err == nil
}

func (s *Schemes) Fetch(ctx context.Context, tileURL string) (image.Image, error) {
	f, err := s.fetcher(tileURL)
	if err != nil {
		return nil, err
	}
	return f.Fetch(ctx, tileURL)
}

func (s *Schemes) fetcher(tileURL string) (Fetcher, error) {
	scheme, _, ok := strings.Cut(tileURL, "://")
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedScheme, "no scheme in %q", tileURL)
	}
	s.flock.RLock()
	defer s.flock.RUnlock()
	f, ok := s.fetchers[strings.ToLower(scheme)]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedScheme, "scheme %q", scheme)
	}
	return f, nil
}

func decode(rd io.Reader, tileURL string) (image.Image, error) {
	img, _, err := image.Decode(rd)
	if err != nil {
		return nil, errors.Wrapf(err, "can't decode tile %s", tileURL)
	}
	return img, nil
}

func parseURL(tileURL string) (*url.URL, error) {
	u, err := url.Parse(tileURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid tile url %q", tileURL)
	}
	return u, nil
}

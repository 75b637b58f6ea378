package fetch

import (
	"context"
	"image"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

const defaultUserAgent = "go_heightmap/0.1"

// HTTP loads tiles from a http(s) tile server. The client never carries
// cookies, only the configured headers are sent.
type HTTP struct {
	cl      *http.Client
	headers map[string]string
}

// NewHTTP creates a http fetcher, if cl is nil a default client is used.
func NewHTTP(cl *http.Client, headers map[string]string) *HTTP {
	if cl == nil {
		cl = &http.Client{}
	}
	return &HTTP{
		cl:      cl,
		headers: headers,
	}
}

func (f *HTTP) Fetch(ctx context.Context, tileURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tileURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	setDefaultHeaders(req)
	for key, value := range f.headers {
		req.Header.Set(key, value)
	}
	resp, err := f.cl.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "tile request %s", tileURL)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{
			URL:        tileURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}
	return decode(resp.Body, tileURL)
}

func setDefaultHeaders(req *http.Request) {
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "image/png,image/webp,image/jpeg,*/*")
}

package fetch

import (
	"context"
	"image"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// File loads tiles from the local file system, e.g.
// file:///data/dem/{z}/{x}/{y}.png
type File struct{}

func NewFile() *File {
	return &File{}
}

func (f *File) Fetch(ctx context.Context, tileURL string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, err := parseURL(tileURL)
	if err != nil {
		return nil, err
	}
	fl, err := os.Open(filepath.FromSlash(u.Path))
	if err != nil {
		return nil, errors.Wrapf(err, "can't open tile %s", tileURL)
	}
	defer fl.Close()
	return decode(fl, tileURL)
}

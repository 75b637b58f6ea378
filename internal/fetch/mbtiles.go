package fetch

import (
	"bytes"
	"context"
	"image"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/i0tool5/mbtiles-go"
	"github.com/pkg/errors"
	"github.com/willie68/go_heightmap/pkg/fileutils"
)

// MBTiles reads tiles out of mbtiles files. The url names the file and the
// tile row in the mbtiles (TMS) convention:
// mbtiles:///data/dem.mbtiles/{z}/{x}/{reverseY}
type MBTiles struct {
	dlock sync.Mutex
	dbs   map[string]*mbtilesDB
}

type mbtilesDB struct {
	rlock sync.Mutex
	db    *mbtiles.MBtiles
}

func NewMBTiles() *MBTiles {
	return &MBTiles{
		dbs: make(map[string]*mbtilesDB),
	}
}

func (m *MBTiles) Fetch(ctx context.Context, tileURL string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, z, x, y, err := splitMBTilesURL(tileURL)
	if err != nil {
		return nil, err
	}
	db, err := m.open(path)
	if err != nil {
		return nil, err
	}
	var data []byte
	db.rlock.Lock()
	err = db.db.ReadTile(z, x, y, &data)
	db.rlock.Unlock()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read tile %d/%d/%d from %s", z, x, y, path)
	}
	if len(data) == 0 {
		return nil, errors.Wrapf(ErrNoTile, "%d/%d/%d in %s", z, x, y, path)
	}
	return decode(bytes.NewReader(data), tileURL)
}

func (m *MBTiles) open(path string) (*mbtilesDB, error) {
	m.dlock.Lock()
	defer m.dlock.Unlock()
	if db, ok := m.dbs[path]; ok {
		return db, nil
	}
	if !fileutils.FileExists(path) {
		return nil, errors.Errorf("mbtiles file %s doesn't exists", path)
	}
	db, err := mbtiles.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open mbtiles database %s", path)
	}
	mdb := &mbtilesDB{db: db}
	m.dbs[path] = mdb
	return mdb, nil
}

// Close closes all opened mbtiles files
func (m *MBTiles) Close() error {
	m.dlock.Lock()
	defer m.dlock.Unlock()
	for path, db := range m.dbs {
		db.db.Close()
		delete(m.dbs, path)
	}
	return nil
}

func splitMBTilesURL(tileURL string) (path string, z, x, y int64, err error) {
	u, err := parseURL(tileURL)
	if err != nil {
		return "", 0, 0, 0, err
	}
	p := strings.Split(strings.TrimSuffix(u.Path, "/"), "/")
	if len(p) < 4 {
		return "", 0, 0, 0, errors.Errorf("mbtiles url %q needs a file and z/x/y", tileURL)
	}
	n := len(p)
	coords := make([]int64, 3)
	for i, s := range p[n-3:] {
		s = strings.TrimSuffix(s, filepath.Ext(s))
		coords[i], err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return "", 0, 0, 0, errors.Wrapf(err, "error in tile coordinates of %q", tileURL)
		}
	}
	path = filepath.FromSlash(strings.Join(p[:n-3], "/"))
	if path == "" {
		return "", 0, 0, 0, errors.Errorf("mbtiles url %q has no file", tileURL)
	}
	return path, coords[0], coords[1], coords[2], nil
}

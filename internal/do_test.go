package internal

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willie68/go_heightmap/internal/config"
	"github.com/willie68/go_heightmap/internal/model"
	"github.com/willie68/go_heightmap/internal/shttp"
	"github.com/willie68/go_heightmap/internal/tiles"
)

func TestInitStop(t *testing.T) {
	ast := assert.New(t)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 8, 8))))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	require.NoError(t, config.Parse([]byte(`
server:
  port: 0
heightmaps:
  local:
    url: `+srv.URL+`/{z}/{x}/{reverseY}.png
    tilesize: 8
metrics:
  active: true
`)))

	inj, err := Init()
	require.NoError(t, err)
	ts := do.MustInvoke[*tiles.Service](inj)
	ast.Equal([]string{"local"}, ts.Names())
	ast.NotNil(do.MustInvoke[*shttp.SHttp](inj))

	pb, err := ts.TilePixels(context.Background(), "local", model.Tile{Z: 2, X: 1, Y: 1})
	ast.NoError(err)
	require.NotNil(t, pb)
	ast.Len(pb.Pix, 8*8*4)

	Stop(inj)
}

func TestInitError(t *testing.T) {
	require.NoError(t, config.Parse([]byte(`
heightmaps:
  bad:
    url: http://localhost/{z}
    encoding: lerc
`)))
	_, err := Init()
	assert.Error(t, err)
}

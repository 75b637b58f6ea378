package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willie68/go_heightmap/configs"
	"github.com/willie68/go_heightmap/internal/logging"
	"github.com/willie68/go_heightmap/internal/shttp"
	"github.com/willie68/go_heightmap/internal/tiles"
)

const testConfig = `
server:
  port: 9000
heightmaps:
  a:
    url: http://localhost/a/{z}/{x}/{y}.png
  b:
    url: http://localhost/b/{z}/{x}/{reverseY}.png
    maxzoom: 9
    skipoddlevels: true
  c:
    url: http://localhost/c/{z}/{x}/{y}.png
    maxzoom: 0
logging:
  level: debug
`

func TestDefaultConfig(t *testing.T) {
	ast := assert.New(t)
	require.NoError(t, Parse([]byte(configs.ConfigFile)))
	ast.Equal(8580, Port())
	ast.Equal(8581, Get().Server.HealthPort)
	ast.Contains(Heightmaps(), "terrain")
	hm := Heightmaps()["terrain"]
	ast.Equal(256, hm.TileSize)
	require.NotNil(t, hm.MaxZoom)
	ast.Equal(15, *hm.MaxZoom)
	ast.Equal("info", Logging().Level)
	ast.True(Get().Metrics.Active)
}

func TestLoad(t *testing.T) {
	ast := assert.New(t)
	fn := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(fn, []byte(testConfig), 0o644))
	require.NoError(t, Load(fn))

	ast.Equal(9000, Port())
	ast.Len(Heightmaps(), 3)
	require.NotNil(t, Heightmaps()["b"].MaxZoom)
	ast.Equal(9, *Heightmaps()["b"].MaxZoom)
	ast.Nil(Heightmaps()["a"].MaxZoom)
	require.NotNil(t, Heightmaps()["c"].MaxZoom)
	ast.Equal(0, *Heightmaps()["c"].MaxZoom)
	ast.True(Heightmaps()["b"].SkipOddLevels)
	ast.Equal("debug", Logging().Level)
	ast.Contains(YAML(), "heightmaps:")

	ast.Error(Load(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestParameter(t *testing.T) {
	ast := assert.New(t)
	require.NoError(t, Parse([]byte(testConfig)))

	SetParameter(WithPort(0))
	ast.Equal(9000, Port())
	SetParameter(WithPort(8000), WithHeightmaps(""))
	ast.Equal(8000, Port())
	ast.Len(Heightmaps(), 3)

	SetParameter(WithHeightmaps("a, c"))
	ast.Len(Heightmaps(), 2)
	ast.Contains(Heightmaps(), "a")
	ast.Contains(Heightmaps(), "c")
}

func TestParseError(t *testing.T) {
	assert.Error(t, Parse([]byte("server: [")))
}

func TestInit(t *testing.T) {
	ast := assert.New(t)
	require.NoError(t, Parse([]byte(testConfig)))
	inj := do.New()
	Init(inj)
	ast.Equal(9000, do.MustInvoke[*Config](inj).Server.Port)
	ast.Equal(9000, do.MustInvoke[*shttp.Config](inj).Port)
	ast.Equal("debug", do.MustInvoke[*logging.Config](inj).Level)
	ast.Len(do.MustInvoke[tiles.ConfigMap](inj), 3)
	ast.NotEmpty(do.MustInvoke[Version](inj).String())
}

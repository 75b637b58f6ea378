package api

import (
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/pkg/errors"
	"github.com/willie68/go_heightmap/internal/fetch"
	"github.com/willie68/go_heightmap/internal/logging"
	"github.com/willie68/go_heightmap/internal/model"
	"github.com/willie68/go_heightmap/internal/tiles"
)

const HeaderTileSize = "X-Tile-Size"

type tilesService interface {
	Names() []string
	Info(name string) (tiles.Info, error)
	TilePixels(ctx context.Context, name string, tile model.Tile) (*model.PixelBuffer, error)
	Elevations(ctx context.Context, name string, tile model.Tile) ([]float32, error)
	TileDataAvailable(name string, tile model.Tile) (bool, error)
}

type HeightmapHandler struct {
	log   *slog.Logger
	tiles tilesService
}

func NewHeightmapHandler(ts tilesService) *HeightmapHandler {
	return &HeightmapHandler{
		log:   logging.New("api"),
		tiles: ts,
	}
}

func (h *HeightmapHandler) Routes() *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", h.GetHeightmaps)
	router.Get("/{name}", h.GetHeightmap)
	router.Get("/{name}/available/{z}", h.GetAvailable)
	router.Get("/{name}/{z}/{x}/{y}", h.GetTile)
	return router
}

func (h *HeightmapHandler) GetHeightmaps(w http.ResponseWriter, r *http.Request) {
	infos := make([]tiles.Info, 0)
	for _, name := range h.tiles.Names() {
		info, err := h.tiles.Info(name)
		if err != nil {
			continue
		}
		infos = append(infos, info)
	}
	render.JSON(w, r, infos)
}

func (h *HeightmapHandler) GetHeightmap(w http.ResponseWriter, r *http.Request) {
	info, err := h.tiles.Info(chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	render.JSON(w, r, info)
}

func (h *HeightmapHandler) GetAvailable(w http.ResponseWriter, r *http.Request) {
	z, err := strconv.Atoi(chi.URLParam(r, "z"))
	if err != nil || z < 0 {
		http.Error(w, "Path error: error in zoom level", http.StatusBadRequest)
		return
	}
	ok, err := h.tiles.TileDataAvailable(chi.URLParam(r, "name"), model.Tile{Z: z})
	if err != nil {
		h.writeError(w, err)
		return
	}
	render.JSON(w, r, map[string]bool{"available": ok})
}

// GetTile delivers the tile pixels, the extension of y selects the format:
// none or .rgba raw pixels, .png a png image, .elev float32 elevations
// (little endian).
func (h *HeightmapHandler) GetTile(w http.ResponseWriter, r *http.Request) {
	// URL: /api/v1/heightmaps/{name}/{z}/{x}/{y}[.ext]
	h.log.Debug(fmt.Sprintf("path: %s", r.URL.Path))
	name := chi.URLParam(r, "name")
	tile, ext, err := h.getRequestParameter(r)
	if err != nil {
		http.Error(w, fmt.Sprintf("Path error: %s", err.Error()), http.StatusBadRequest)
		return
	}

	switch ext {
	case "", ".rgba", ".png":
		pb, err := h.tiles.TilePixels(r.Context(), name, tile)
		if err != nil {
			h.writeError(w, err)
			return
		}
		if pb == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set(HeaderTileSize, strconv.Itoa(pb.Width))
		if ext == ".png" {
			img := &image.NRGBA{Pix: pb.Pix, Stride: pb.Width * 4, Rect: image.Rect(0, 0, pb.Width, pb.Height)}
			w.Header().Set("Content-Type", "image/png")
			if err := png.Encode(w, img); err != nil {
				h.log.Error(fmt.Sprintf("error encoding png: %v", err))
			}
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(pb.Pix)
	case ".elev":
		els, err := h.tiles.Elevations(r.Context(), name, tile)
		if err != nil {
			h.writeError(w, err)
			return
		}
		if els == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		info, _ := h.tiles.Info(name)
		w.Header().Set(HeaderTileSize, strconv.Itoa(info.TileSize))
		w.Header().Set("Content-Type", "application/octet-stream")
		if err := binary.Write(w, binary.LittleEndian, els); err != nil {
			h.log.Error(fmt.Sprintf("error writing elevations: %v", err))
		}
	default:
		http.Error(w, fmt.Sprintf("Path error: unknown format %s", ext), http.StatusBadRequest)
	}
}

func (h *HeightmapHandler) writeError(w http.ResponseWriter, err error) {
	var se *fetch.StatusError
	switch {
	case errors.Is(err, tiles.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, context.Canceled):
		// client is gone
		h.log.Debug(fmt.Sprintf("request canceled: %v", err))
	case errors.As(err, &se):
		h.log.Error(fmt.Sprintf("tile server error: %v", err))
		http.Error(w, fmt.Sprintf("Tile error: %s", se.Status), http.StatusBadGateway)
	default:
		h.log.Error(fmt.Sprintf("System error: %v", err))
		http.Error(w, fmt.Sprintf("Tile error: %s", err.Error()), http.StatusBadGateway)
	}
}

func (h *HeightmapHandler) getRequestParameter(r *http.Request) (tile model.Tile, ext string, err error) {
	zs := chi.URLParam(r, "z")
	xs := chi.URLParam(r, "x")
	ys := chi.URLParam(r, "y")

	tile.Z, err = strconv.Atoi(zs)
	if err != nil {
		return tile, "", errors.New("error in zoom level")
	}
	tile.X, err = strconv.Atoi(xs)
	if err != nil {
		return tile, "", errors.New("error in x axis")
	}
	ext = strings.ToLower(filepath.Ext(ys))
	ys = strings.TrimSuffix(ys, filepath.Ext(ys))
	tile.Y, err = strconv.Atoi(ys)
	if err != nil {
		return tile, "", errors.New("error in y axis")
	}
	if !tile.Valid() {
		return tile, "", errors.New("invalid tile coordinates")
	}
	return tile, ext, nil
}

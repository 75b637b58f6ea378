package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/samber/do/v2"
	"github.com/willie68/go_heightmap/internal/config"
	"github.com/willie68/go_heightmap/internal/shttp"
	"github.com/willie68/go_heightmap/internal/tiles"
	"github.com/willie68/go_heightmap/internal/utils/measurement"
)

// defining all sub pathes for api v1
const (
	// APIVersion the actual implemented api version
	APIVersion = "1"
	BaseURL    = "/api/v" + APIVersion
)

// APIRoutes builds the router of the tile api with the services of the injector
func APIRoutes(inj do.Injector) (*chi.Mux, error) {
	cfg, err := do.Invoke[*shttp.Config](inj)
	if err != nil {
		return nil, err
	}
	ts, err := do.Invoke[*tiles.Service](inj)
	if err != nil {
		return nil, err
	}
	ms, err := do.Invoke[*measurement.Service](inj)
	if err != nil {
		return nil, err
	}
	return NewRouter(ts, ms, cfg.AllowedOrigins), nil
}

// NewRouter builds the api router. Tiles are readable cross origin for the
// given origins, none if empty.
func NewRouter(ts tilesService, ms *measurement.Service, origins []string) *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
	)
	if len(origins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			ExposedHeaders: []string{HeaderTileSize},
			MaxAge:         300,
		}))
	}
	router.Route(BaseURL, func(r chi.Router) {
		r.Mount("/heightmaps", NewHeightmapHandler(ts).Routes())
		r.Mount("/metrics", measurement.Routes(ms))
	})
	return router
}

// HealthRoutes are the liveness and readiness endpoints
func HealthRoutes(inj do.Injector) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/livez", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, "alive")
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ts, err := do.Invoke[*tiles.Service](inj)
		if err != nil {
			render.Status(r, http.StatusServiceUnavailable)
			render.PlainText(w, r, "not ready")
			return
		}
		ver, _ := do.Invoke[config.Version](inj)
		render.JSON(w, r, map[string]any{
			"version":    ver,
			"heightmaps": ts.Names(),
		})
	})
	return router
}

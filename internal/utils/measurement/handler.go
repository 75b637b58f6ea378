package measurement

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func Routes(s *Service) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", GetMetricsHandler(s))
	router.Post("/reset", ResetMetricsHandler(s))
	router.Post("/reset/{name}", ResetPointHandler(s))
	return router
}

func GetMetricsHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusOK)
		render.JSON(w, r, s.Datas())
	}
}

func ResetMetricsHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Reset()
		w.WriteHeader(http.StatusNoContent)
	}
}

func ResetPointHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Point(chi.URLParam(r, "name")).Reset()
		w.WriteHeader(http.StatusNoContent)
	}
}

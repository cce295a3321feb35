package api

import (
	_ "countryfx/docs"
	"countryfx/internal/country/handler"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swagger "github.com/swaggo/http-swagger"
)

func NewRouter(countryHandler *handler.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	router.Route("/countries", func(r chi.Router) {
		r.Get("/", countryHandler.List)
		r.Post("/refresh", countryHandler.Refresh)
		r.Get("/image", countryHandler.Image)
		r.Get("/{name}", countryHandler.GetByName)
		r.Delete("/{name}", countryHandler.Delete)
	})
	router.Get("/status", countryHandler.Status)
	return router
}

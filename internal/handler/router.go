package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mvidal/urlshort/internal/middleware"
)

func (h *Handler) SetupRouter(registry *prometheus.Registry) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.Gzip)

	r.Route("/api/short-urls", func(r chi.Router) {
		r.Post("/", h.CreateHandler)
		r.Get("/{shortCode}", h.ShowHandler)
	})

	r.Get("/s/{shortCode}", h.RedirectHandler)
	r.Get("/ping", h.PingHandler)

	r.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})

	return r
}

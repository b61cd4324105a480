package handler

import (
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mvidal/urlshort/internal/generator"
	"github.com/mvidal/urlshort/internal/metrics"
	"github.com/mvidal/urlshort/internal/repository"
	"github.com/mvidal/urlshort/internal/service"
)

const testBaseURL = "http://localhost:8080"

func newTestRouter(t *testing.T) (*chi.Mux, *repository.MemoryRepository) {
	t.Helper()

	logger := zap.NewNop()
	registry := prometheus.NewRegistry()
	repo := repository.NewMemoryRepository()

	svc := service.NewShortenerService(repo, generator.New(), logger, metrics.New(registry))
	h := NewHandler(svc, logger, testBaseURL)

	return h.SetupRouter(registry), repo
}

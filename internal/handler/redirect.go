package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mvidal/urlshort/internal/service"
)

func (h *Handler) RedirectHandler(rw http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	originalURL, err := h.service.Resolve(r.Context(), shortCode)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.writeNotFound(rw)
			return
		}
		h.logger.Error("Failed to resolve short URL", zap.Error(err))
		h.writeServerError(rw)
		return
	}

	rw.Header().Set("Location", originalURL)
	rw.WriteHeader(http.StatusFound)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mvidal/urlshort/internal/service"
)

func (h *Handler) ShowHandler(rw http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	mapping, err := h.service.Lookup(r.Context(), shortCode)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.writeNotFound(rw)
			return
		}
		h.logger.Error("Failed to look up short URL", zap.Error(err))
		h.writeServerError(rw)
		return
	}

	h.writeJSON(rw, http.StatusOK, h.mappingResponse(mapping))
}

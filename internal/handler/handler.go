package handler

import (
	"encoding/json"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/mvidal/urlshort/internal/models"
	"github.com/mvidal/urlshort/internal/service"
)

type Handler struct {
	service *service.ShortenerService
	logger  *zap.Logger
	baseURL string
}

func NewHandler(service *service.ShortenerService, logger *zap.Logger, baseURL string) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		baseURL: baseURL,
	}
}

// shortURLFor composes the public short URL for a code. The service only
// emits codes; the boundary owns the base URL.
func (h *Handler) shortURLFor(shortCode string) string {
	full, err := url.JoinPath(h.baseURL, "s", shortCode)
	if err != nil {
		return h.baseURL + "/s/" + shortCode
	}
	return full
}

func (h *Handler) mappingResponse(mapping models.URLMapping) models.ShortURLResponse {
	return models.ShortURLResponse{
		OriginalURL: mapping.OriginalURL,
		ShortURL:    h.shortURLFor(mapping.ShortCode),
		ShortCode:   mapping.ShortCode,
		CreatedAt:   mapping.CreatedAt,
	}
}

func (h *Handler) writeJSON(rw http.ResponseWriter, status int, body any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)

	if err := json.NewEncoder(rw).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeServerError(rw http.ResponseWriter) {
	h.writeJSON(rw, http.StatusInternalServerError,
		models.ServerErrorResponse{Message: "Server Error"})
}

func (h *Handler) writeNotFound(rw http.ResponseWriter) {
	h.writeJSON(rw, http.StatusNotFound,
		models.ErrorResponse{Error: "URL not found"})
}

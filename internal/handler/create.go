package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/mvidal/urlshort/internal/models"
)

func (h *Handler) CreateHandler(rw http.ResponseWriter, r *http.Request) {
	var req models.ShortenRequest

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		h.writeValidationError(rw, []string{"The url field is required."})
		return
	}

	if messages := validateURL(req.URL); messages != nil {
		h.writeValidationError(rw, messages)
		return
	}

	mapping, err := h.service.Shorten(r.Context(), req.URL)
	if err != nil {
		h.logger.Error("Failed to create short URL", zap.Error(err))
		h.writeServerError(rw)
		return
	}

	h.writeJSON(rw, http.StatusCreated, h.mappingResponse(mapping))
}

func (h *Handler) writeValidationError(rw http.ResponseWriter, messages []string) {
	h.writeJSON(rw, http.StatusUnprocessableEntity, models.ValidationErrorResponse{
		Message: "The given data was invalid.",
		Errors:  map[string][]string{"url": messages},
	})
}

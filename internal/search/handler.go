// internal/search/handler.go
package search

import (
	"encoding/json"
	"net/http"
	"time"

	apperrors "manara-backend/internal/common/errors"
	"manara-backend/internal/common/logger"
	"manara-backend/internal/common/metrics"
)

// Handler serves GET /api/search.
type Handler struct {
	service      *Service
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{
		service:      service,
		errorHandler: apperrors.NewErrorHandler(log),
	}
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	query := r.URL.Query().Get("q")

	results, err := h.service.Search(r.Context(), query)
	if err != nil {
		metrics.SearchRequests.WithLabelValues("error").Inc()
		metrics.SearchDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		h.errorHandler.WriteError(w, r, err)
		return
	}

	metrics.SearchRequests.WithLabelValues("success").Inc()
	metrics.SearchDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(results)
}

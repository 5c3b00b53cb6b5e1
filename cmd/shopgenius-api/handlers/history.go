package handlers

import (
	"context"
	"net/http"

	"github.com/GitSubham-00/shopgenius-ai-backend/internal/observability"
	"github.com/GitSubham-00/shopgenius-ai-backend/internal/storage"
)

// PriceHistorySource reads recorded price observations.
type PriceHistorySource interface {
	PriceHistory(ctx context.Context, title string) ([]storage.PriceHistoryEntry, error)
}

// HistoryHandler serves price-history lookups.
type HistoryHandler struct {
	logger *observability.Logger
	source PriceHistorySource
}

// NewHistoryHandler creates a history handler.
func NewHistoryHandler(logger *observability.Logger, source PriceHistorySource) *HistoryHandler {
	return &HistoryHandler{logger: logger, source: source}
}

// PriceHistoryResponse wraps the observation list, newest first.
type PriceHistoryResponse struct {
	History []storage.PriceHistoryEntry `json:"history"`
}

// PriceHistory handles GET /price-history?title=<text>. A store failure
// degrades to an empty history rather than an error response.
func (h *HistoryHandler) PriceHistory(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	h.logger.Info().Str("title", title).Msg("Price history lookup")

	entries, err := h.source.PriceHistory(r.Context(), title)
	if err != nil {
		h.logger.Warn().Err(err).Str("title", title).Msg("Price history read failed")
		entries = []storage.PriceHistoryEntry{}
	}

	writeJSON(w, http.StatusOK, PriceHistoryResponse{History: entries})
}

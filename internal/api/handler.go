package api

import (
	"context"
	"net/http"

	"github.com/competitionkit/ozcomps/internal/config"
	"github.com/competitionkit/ozcomps/internal/entry"
	"github.com/competitionkit/ozcomps/internal/logger"
)

// Fetcher retrieves up to limit entries from the listing page
type Fetcher interface {
	FetchEntries(ctx context.Context, limit int) ([]*entry.Entry, error)
}

// Handler serves the competitions endpoint
type Handler struct {
	fetcher Fetcher
	limits  config.LimitPolicy
}

// NewHandler creates a competitions handler.
func NewHandler(f Fetcher, limits config.LimitPolicy) *Handler {
	return &Handler{
		fetcher: f,
		limits:  limits,
	}
}

// ServeHTTP fetches, extracts and writes the JSON envelope
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit := h.limits.Parse(r.URL.Query().Get("limit"))

	entries, err := h.fetcher.FetchEntries(r.Context(), limit)
	if err != nil {
		status := writeError(w, err)
		logger.Error("Competition fetch failed", logger.Fields{
			"request_id": RequestIDFromContext(r.Context()),
			"limit":      limit,
			"status":     status,
		}, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, NewItemsResponse(entries))
}

// Health reports liveness
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

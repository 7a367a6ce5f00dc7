package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/competitionkit/ozcomps/internal/entry"
	"github.com/competitionkit/ozcomps/internal/logger"
	"github.com/competitionkit/ozcomps/internal/scraper"
)

const contentTypeJSON = "application/json; charset=utf-8"

// unknownError is returned when a failure carries no message
const unknownError = "Unknown error"

// ItemsResponse is the success envelope
type ItemsResponse struct {
	OK    bool           `json:"ok"`
	Items []*entry.Entry `json:"items"`
}

// ErrorResponse is the failure envelope
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// NewItemsResponse wraps entries in a success envelope. Items is never null.
func NewItemsResponse(entries []*entry.Entry) ItemsResponse {
	if entries == nil {
		entries = []*entry.Entry{}
	}
	return ItemsResponse{OK: true, Items: entries}
}

// Classify maps an error to its HTTP status and client-facing message.
func Classify(err error) (int, ErrorResponse) {
	var upErr *scraper.UpstreamError
	if errors.As(err, &upErr) {
		return http.StatusBadGateway, ErrorResponse{Error: upErr.Error()}
	}

	msg := unknownError
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return http.StatusInternalServerError, ErrorResponse{Error: msg}
}

// writeJSON writes v with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode JSON response", logger.Fields{"status": status}, err)
	}
}

// writeError writes the failure envelope for err
func writeError(w http.ResponseWriter, err error) int {
	status, body := Classify(err)
	writeJSON(w, status, body)
	return status
}

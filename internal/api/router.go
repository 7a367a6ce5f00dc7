package api

import (
	"net/http"

	"github.com/competitionkit/ozcomps/internal/metrics"
)

// Routes served by NewRouter
const (
	CompetitionsPath = "/api/competitions"
	FunctionPath     = "/.netlify/functions/competitions"
	HealthPath       = "/healthz"
	MetricsPath      = "/metrics"
)

// NewRouter wires the handlers and middleware.
func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET "+CompetitionsPath, h)
	mux.Handle("GET "+FunctionPath, h)
	mux.HandleFunc("GET "+HealthPath, Health)
	mux.Handle("GET "+MetricsPath, metrics.Handler())

	return RequestID(Observe(Recover(mux)))
}

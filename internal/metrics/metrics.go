// Package metrics defines the Prometheus collectors exported by the ozcomps service.
//
// Collectors are registered on the default registry at init through promauto and served by
// Handler on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ozcomps_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ozcomps_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	upstreamFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ozcomps_upstream_fetches_total",
			Help: "Upstream listing page fetches by outcome",
		},
		[]string{"outcome"},
	)

	upstreamFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ozcomps_upstream_fetch_duration_seconds",
			Help:    "Time taken to fetch the upstream listing page",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	entriesExtracted = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ozcomps_entries_extracted",
			Help:    "Number of entries returned per extraction",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 75, 100},
		},
	)
)

// Fetch outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeUpstream = "upstream_error"
	OutcomeError    = "error"
)

// RecordRequest records a served HTTP request.
func RecordRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordFetch records one upstream fetch and its outcome.
func RecordFetch(outcome string, duration time.Duration) {
	upstreamFetchesTotal.WithLabelValues(outcome).Inc()
	upstreamFetchDuration.Observe(duration.Seconds())
}

// RecordEntries records how many entries one extraction produced.
func RecordEntries(count int) {
	entriesExtracted.Observe(float64(count))
}

// Handler returns an HTTP handler for the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

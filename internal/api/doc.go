// Package api serves the competition listing over HTTP.
//
// The competitions handler fetches the upstream listing page, extracts up to "limit" entries
// and writes them in a JSON envelope: {"ok":true,"items":[...]} on success and
// {"ok":false,"error":"..."} on failure. Upstream status failures map to 502 and every other
// failure to 500. The router adds request IDs, access logging, Prometheus metrics and panic
// recovery around the handlers.
package api

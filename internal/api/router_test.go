package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/competitionkit/ozcomps/internal/config"
	"github.com/competitionkit/ozcomps/internal/entry"
	"github.com/competitionkit/ozcomps/internal/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panicFetcher struct{}

func (panicFetcher) FetchEntries(context.Context, int) ([]*entry.Entry, error) {
	panic("extractor blew up")
}

func TestRouter_Routes(t *testing.T) {
	f := &stubFetcher{entries: []*entry.Entry{mustEntry(t, "5", "Win")}}
	router := NewRouter(NewHandler(f, config.DefaultLimitPolicy()))

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
	}{
		{"competitions", http.MethodGet, CompetitionsPath, http.StatusOK},
		{"function alias", http.MethodGet, FunctionPath + "?limit=3", http.StatusOK},
		{"health", http.MethodGet, HealthPath, http.StatusOK},
		{"metrics", http.MethodGet, MetricsPath, http.StatusOK},
		{"unknown path", http.MethodGet, "/nope", http.StatusNotFound},
		{"wrong method", http.MethodPost, CompetitionsPath, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRouter_Health(t *testing.T) {
	router := NewRouter(NewHandler(&stubFetcher{}, config.DefaultLimitPolicy()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, HealthPath, nil))

	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestRequestID(t *testing.T) {
	router := NewRouter(NewHandler(&stubFetcher{}, config.DefaultLimitPolicy()))

	t.Run("propagates incoming header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, CompetitionsPath, nil)
		req.Header.Set(RequestIDHeader, "test-id-123")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, "test-id-123", rec.Header().Get(RequestIDHeader))
	})

	t.Run("generates uuid when absent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, CompetitionsPath, nil))

		id := rec.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		assert.NoError(t, err, "request id %q should be a UUID", id)
	})

	t.Run("stored in context", func(t *testing.T) {
		var got string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = RequestIDFromContext(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "ctx-id")

		h.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "ctx-id", got)
	})

	assert.Equal(t, "", RequestIDFromContext(context.Background()))
}

func TestRecover(t *testing.T) {
	router := NewRouter(NewHandler(panicFetcher{}, config.DefaultLimitPolicy()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, CompetitionsPath, nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"ok":false,"error":"extractor blew up"}`, rec.Body.String())
}

func TestRecover_AfterResponseStarted(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantCode int
		wantBody string
	}{
		{
			name: "body written",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, NewItemsResponse(nil))
				panic("late failure")
			},
			wantCode: http.StatusOK,
			wantBody: `{"ok":true,"items":[]}`,
		},
		{
			name: "header only",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusAccepted)
				panic("late failure")
			},
			wantCode: http.StatusAccepted,
			wantBody: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			original := logger.Default()
			logger.SetDefault(logger.New(logger.LevelInfo, &buf))
			defer logger.SetDefault(original)

			rec := httptest.NewRecorder()
			Recover(tt.handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody == "" {
				assert.Empty(t, rec.Body.String())
			} else {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
			assert.Contains(t, buf.String(), "Recovered from panic")
			assert.Contains(t, buf.String(), "late failure")
		})
	}
}

func TestObserve_LogsRequest(t *testing.T) {
	var buf bytes.Buffer
	original := logger.Default()
	logger.SetDefault(logger.New(logger.LevelInfo, &buf))
	defer logger.SetDefault(original)

	router := NewRouter(NewHandler(&stubFetcher{}, config.DefaultLimitPolicy()))
	req := httptest.NewRequest(http.MethodGet, CompetitionsPath, nil)
	req.Header.Set(RequestIDHeader, "log-id")
	router.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "HTTP request", line["message"])
	assert.Equal(t, "log-id", line["request_id"])
	assert.Equal(t, float64(http.StatusOK), line["status"])
	assert.Equal(t, CompetitionsPath, line["path"])
}

func TestRouteLabel(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	assert.Equal(t, "unmatched", routeLabel(req))

	req.Pattern = "GET /api/competitions"
	assert.Equal(t, "GET /api/competitions", routeLabel(req))
}

package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/competitionkit/ozcomps/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		statusCode int
		wantStatus int // expected UpstreamError status, 0 for success
	}{
		{
			name:       "successful fetch",
			body:       `<html><body><h2><a href="/node/1">Win</a></h2></body></html>`,
			statusCode: http.StatusOK,
		},
		{
			name:       "non-200 success status",
			body:       "",
			statusCode: http.StatusNoContent,
		},
		{
			name:       "not found",
			statusCode: http.StatusNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "service unavailable",
			statusCode: http.StatusServiceUnavailable,
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "text/html", r.Header.Get("Accept"))
				assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))

				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			s := New(WithURL(server.URL))
			body, err := s.Fetch(context.Background())

			if tt.wantStatus != 0 {
				var upErr *UpstreamError
				require.True(t, errors.As(err, &upErr), "err = %v", err)
				assert.Equal(t, tt.wantStatus, upErr.StatusCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestUpstreamError_Message(t *testing.T) {
	err := &UpstreamError{StatusCode: 503}
	assert.Equal(t, "Upstream returned 503", err.Error())
}

func TestFetch_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := New(WithURL(url)).Fetch(context.Background())
	require.Error(t, err)

	var upErr *UpstreamError
	assert.False(t, errors.As(err, &upErr), "transport errors are not upstream status errors")
}

func TestFetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	_, err := New(WithURL(server.URL), WithTimeout(20*time.Millisecond)).Fetch(context.Background())
	require.Error(t, err)
}

func TestFetch_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(WithURL(server.URL)).Fetch(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "err = %v", err)
}

func TestFetchEntries(t *testing.T) {
	data, err := os.ReadFile("../extract/testdata/competitions.html")
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(data)
	}))
	defer server.Close()

	s := New(WithURL(server.URL))

	entries, err := s.FetchEntries(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "901234", entries[0].NodeID)
	assert.Equal(t, "901235", entries[1].NodeID)
}

func TestFetchEntries_CustomExtractor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<h2><a href="/node/77">Win</a></h2>`))
	}))
	defer server.Close()

	x, err := extract.New("https://mirror.example.com")
	require.NoError(t, err)

	entries, err := New(WithURL(server.URL), WithExtractor(x)).FetchEntries(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "https://mirror.example.com/node/77", entries[0].NodeURL)
}

func TestFetchEntries_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	entries, err := New(WithURL(server.URL)).FetchEntries(context.Background(), 10)
	assert.Nil(t, entries)

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusBadGateway, upErr.StatusCode)
}

func TestNew(t *testing.T) {
	s := New()

	require.NotNil(t, s)
	assert.NotNil(t, s.client)
	assert.Equal(t, CompetitionsURL, s.URL())
	assert.Equal(t, UserAgent, s.userAgent)
	assert.Equal(t, Timeout, s.client.Timeout)
}

func TestNew_WithHTTPClient(t *testing.T) {
	c := &http.Client{Timeout: time.Second}
	s := New(WithHTTPClient(c), WithTimeout(time.Minute), WithUserAgent("test-agent/2.0"))

	assert.Same(t, c, s.client)
	assert.Equal(t, "test-agent/2.0", s.userAgent)
}

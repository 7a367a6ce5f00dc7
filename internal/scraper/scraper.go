package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/competitionkit/ozcomps/internal/entry"
	"github.com/competitionkit/ozcomps/internal/extract"
	"github.com/competitionkit/ozcomps/internal/logger"
	"github.com/competitionkit/ozcomps/internal/metrics"
)

const (
	CompetitionsURL = "https://www.ozbargain.com.au/competition/all"
	UserAgent       = "CompetitionKit/1.0"
	Timeout         = 30 * time.Second
)

// UpstreamError reports a non-success HTTP status from the listing page
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Upstream returned %d", e.StatusCode)
}

// Scraper handles fetching and parsing the competition listing
type Scraper struct {
	client    *http.Client
	url       string
	userAgent string
	timeout   time.Duration
	extractor *extract.Extractor
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithURL overrides the listing page URL.
func WithURL(url string) Option {
	return func(s *Scraper) {
		s.url = url
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		s.userAgent = ua
	}
}

// WithTimeout sets the HTTP client timeout. Ignored when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		s.timeout = d
	}
}

// WithHTTPClient uses the given client instead of building one.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Scraper) {
		s.client = c
	}
}

// WithExtractor sets the extractor used by FetchEntries.
func WithExtractor(x *extract.Extractor) Option {
	return func(s *Scraper) {
		s.extractor = x
	}
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		url:       CompetitionsURL,
		userAgent: UserAgent,
		timeout:   Timeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		s.client = &http.Client{
			Timeout: s.timeout,
		}
	}

	return s
}

// URL returns the listing page URL
func (s *Scraper) URL() string {
	return s.url
}

// Fetch downloads the listing page and returns its body
func (s *Scraper) Fetch(ctx context.Context) (string, error) {
	start := time.Now()
	body, err := s.fetch(ctx)

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
		var upErr *UpstreamError
		if errors.As(err, &upErr) {
			outcome = metrics.OutcomeUpstream
		}
	}
	metrics.RecordFetch(outcome, time.Since(start))

	return body, err
}

func (s *Scraper) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/html")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}

	logger.Debug("Fetched listing page", logger.Fields{
		"url":    s.url,
		"status": resp.StatusCode,
		"bytes":  len(data),
	})

	return string(data), nil
}

// FetchEntries fetches the listing page and extracts at most limit entries
func (s *Scraper) FetchEntries(ctx context.Context, limit int) ([]*entry.Entry, error) {
	html, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	var entries []*entry.Entry
	if s.extractor != nil {
		entries = s.extractor.Extract(html, limit)
	} else {
		entries = extract.Extract(html, limit)
	}
	metrics.RecordEntries(len(entries))

	return entries, nil
}

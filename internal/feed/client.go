// Package feed fetches the earthquake GeoJSON feed.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/joeblew999/plat-quake/internal/observability"
	"github.com/joeblew999/plat-quake/internal/quake"
)

// DefaultURL is the USGS summary feed of all earthquakes in the past week.
const DefaultURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson"

// maxBodySize caps the feed body. The weekly feed is a few MB.
const maxBodySize = 64 << 20

// Batch is the result of one successful fetch.
type Batch struct {
	Features  []quake.Feature
	Source    string
	FetchedAt time.Time
	Duration  time.Duration
}

// StatusError is returned when the feed answers with a non-2xx status.
type StatusError struct {
	URL  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("feed %s: status %d: %s", e.URL, e.Code, e.Body)
}

// ErrRateLimited is returned when Fetch is called faster than the configured
// rate. The feed is not contacted.
var ErrRateLimited = errors.New("feed: rate limit exceeded")

// Client issues a single GET per Fetch. It never retries or caches.
type Client struct {
	url        string
	httpClient *http.Client
	clock      clockwork.Clock
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithClock replaces the real clock, for tests.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// WithRateLimit caps upstream requests at perSecond with the given burst.
// A non-positive perSecond leaves the client unlimited.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// NewClient creates a feed client for url. A zero timeout means none.
func NewClient(url string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger, opts ...Option) *Client {
	if url == "" {
		url = DefaultURL
	}
	c := &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		clock:      clockwork.NewRealClock(),
		metrics:    metrics,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the feed URL.
func (c *Client) URL() string {
	return c.url
}

// Fetch downloads and decodes the feed.
func (c *Client) Fetch(ctx context.Context) (*Batch, error) {
	if c.limiter != nil && !c.limiter.AllowN(c.clock.Now(), 1) {
		c.metrics.FeedRequests.WithLabelValues("throttled").Inc()
		return nil, ErrRateLimited
	}

	start := c.clock.Now()

	features, err := c.fetch(ctx)
	elapsed := c.clock.Since(start)

	c.metrics.FeedDuration.Observe(elapsed.Seconds())
	if err != nil {
		c.metrics.FeedRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	c.metrics.FeedRequests.WithLabelValues("success").Inc()
	c.metrics.FeaturesDecoded.Add(float64(len(features)))

	c.logger.Debug("feed fetched", "url", c.url, "features", len(features), "duration", elapsed)

	return &Batch{
		Features:  features,
		Source:    c.url,
		FetchedAt: start,
		Duration:  elapsed,
	}, nil
}

func (c *Client) fetch(ctx context.Context) ([]quake.Feature, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{URL: c.url, Code: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}

	features, err := quake.DecodeCollection(body)
	if err != nil {
		return nil, fmt.Errorf("feed %s: %w", c.url, err)
	}
	return features, nil
}

// Package client provides the OpenSea API client with shared rate limiting,
// server-throttle recovery, and record normalization.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/salustiana/o-sea/pkg/cache"
	"github.com/salustiana/o-sea/pkg/ratelimit"
)

// Prometheus metrics for API client operations.
var (
	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "osea_requests_total",
		Help: "Total OpenSea requests by endpoint and status",
	}, []string{"endpoint", "status"})

	apiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "osea_request_duration_seconds",
		Help:    "OpenSea request duration in seconds by endpoint, including throttle retries",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"endpoint"})

	apiBackoffSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "osea_backoff_seconds",
		Help:    "Backoff duration slept after 429 responses",
		Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
	})
)

// Defaults for the public API.
const (
	DefaultBaseURL   = "https://api.opensea.io/api/v1"
	DefaultRateLimit = 4

	assetsPageSize = 50
	eventsPageSize = 300
)

// Config holds the client configuration.
type Config struct {
	// APIKey is sent on every request via the X-API-KEY header (required).
	APIKey string

	// BaseURL overrides the public API URL.
	BaseURL string

	// RateLimit is the shared calls-per-second budget. The orchestrator
	// also reuses it as the wallet fan-out concurrency cap.
	RateLimit int

	// Redis enables the fixed-TTL response cache when non-nil.
	Redis *redis.Client

	// CacheTTL bounds response cache staleness (default cache.DefaultTTL).
	CacheTTL time.Duration

	// ThrottleBackoff and ThrottleStep tune the 429 recovery delay
	// (defaults: 4s baseline, 2s growth per consecutive 429).
	ThrottleBackoff time.Duration
	ThrottleStep    time.Duration

	// HTTPClient overrides the default 30s-timeout client.
	HTTPClient *http.Client
}

// Client is the single point of contact with the OpenSea API. One instance
// is safe for concurrent use; all callers share its rate budget and its
// throttle backoff state.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *ratelimit.Limiter
	backoff    *ratelimit.Backoff
	cache      *cache.Manager
	logger     zerolog.Logger
}

// New creates a new OpenSea client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("rate limit must be positive (got %d)", cfg.RateLimit)
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	var manager *cache.Manager
	if cfg.Redis != nil {
		manager = cache.NewManager(cfg.Redis, cfg.CacheTTL)
	}

	return &Client{
		httpClient: cfg.HTTPClient,
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		limiter:    ratelimit.NewLimiter(cfg.RateLimit),
		backoff:    ratelimit.NewBackoff(cfg.ThrottleBackoff, cfg.ThrottleStep),
		cache:      manager,
		logger:     log.With().Str("component", "opensea-client").Logger(),
	}, nil
}

// RateLimit returns the configured calls-per-second budget.
func (c *Client) RateLimit() int {
	return c.limiter.PerSecond()
}

// get performs one GET against the API. Each attempt consumes a limiter
// slot; the client sleeps per the shared backoff and retries the same URL
// for as long as the server answers 429. Any other non-200 fails the call
// with an APIError.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	start := time.Now()
	defer func() {
		apiRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	}()

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	key := cache.Key{Endpoint: path, Query: query}
	if c.cache != nil {
		body, err := c.cache.Get(ctx, key)
		if err == nil {
			c.logger.Debug().Str("endpoint", path).Msg("serving response from cache")
			return body, nil
		}
		if err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Str("endpoint", path).Msg("cache get failed")
		}
	}

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("X-API-KEY", c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			apiRequestsTotal.WithLabelValues(path, "network_error").Inc()
			return nil, fmt.Errorf("get %s: %w", reqURL, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			apiRequestsTotal.WithLabelValues(path, "429").Inc()

			delay := c.backoff.Throttled()
			apiBackoffSeconds.Observe(delay.Seconds())
			c.logger.Warn().
				Str("url", reqURL).
				Dur("backoff", delay).
				Msg("server throttled, backing off")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		apiRequestsTotal.WithLabelValues(path, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode != http.StatusOK {
			return nil, &APIError{StatusCode: resp.StatusCode, URL: reqURL}
		}
		if readErr != nil {
			return nil, fmt.Errorf("read response body: %w", readErr)
		}

		c.backoff.Succeeded()

		if c.cache != nil {
			if err := c.cache.Set(ctx, key, body); err != nil {
				c.logger.Warn().Err(err).Str("endpoint", path).Msg("cache set failed")
			}
		}

		return body, nil
	}
}

// Package cache provides an optional redis-backed cache for GET responses.
//
// OpenSea sends no Expires or ETag headers, so entries expire on a fixed
// TTL instead of server-driven cache control. The cache is a convenience
// for repeated runs: a page the API already served within the TTL is not
// fetched again and consumes no rate budget.
package cache

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when no entry exists for the key.
var ErrCacheMiss = errors.New("cache miss")

// DefaultTTL bounds staleness when no TTL is configured.
const DefaultTTL = 5 * time.Minute

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "osea_cache_hits_total",
		Help: "Total number of response cache hits",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "osea_cache_misses_total",
		Help: "Total number of response cache misses",
	})

	cacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "osea_cache_errors_total",
		Help: "Total number of cache operation errors",
	}, []string{"operation"})
)

// Key identifies one cached GET response.
type Key struct {
	// Endpoint is the API path (e.g. "/assets").
	Endpoint string

	// Query are the request's query parameters.
	Query url.Values
}

// String generates a deterministic redis key.
// Format: osea:endpoint:param1=val1:param2=val2 (params sorted).
func (k Key) String() string {
	parts := []string{"osea"}

	if endpoint := strings.Trim(k.Endpoint, "/"); endpoint != "" {
		parts = append(parts, endpoint)
	}

	if len(k.Query) > 0 {
		keys := make([]string, 0, len(k.Query))
		for key := range k.Query {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.Query.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}

// Manager stores response bodies in redis under deterministic keys.
type Manager struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewManager creates a cache manager. A non-positive TTL falls back to
// DefaultTTL.
func NewManager(redisClient *redis.Client, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{redis: redisClient, ttl: ttl}
}

// Get retrieves a cached response body. Returns ErrCacheMiss when no entry
// exists.
func (m *Manager) Get(ctx context.Context, key Key) ([]byte, error) {
	data, err := m.redis.Get(ctx, key.String()).Bytes()
	if err == redis.Nil {
		cacheMisses.Inc()
		return nil, ErrCacheMiss
	}
	if err != nil {
		cacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("cache get: %w", err)
	}

	cacheHits.Inc()
	return data, nil
}

// Set stores a response body under the manager's TTL.
func (m *Manager) Set(ctx context.Context, key Key, body []byte) error {
	if err := m.redis.Set(ctx, key.String(), body, m.ttl).Err(); err != nil {
		cacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

package ratelimit

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default backoff tuning for 429 responses.
const (
	DefaultBackoffBase = 4 * time.Second
	DefaultBackoffStep = 2 * time.Second
)

var throttledTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "osea_server_throttled_total",
	Help: "Total number of 429 responses received from the API",
})

// Backoff tracks the retry delay applied after the server answers 429.
// The delay starts at a baseline, grows by a fixed step on each consecutive
// throttle response, and decays one step toward the baseline on the first
// subsequent success, never dropping below the baseline.
//
// One Backoff instance is shared by all concurrent callers of a client, so
// workers do not independently hammer a server that is already throttling.
type Backoff struct {
	mu      sync.Mutex
	base    time.Duration
	step    time.Duration
	current time.Duration
}

// NewBackoff creates a backoff with the given baseline delay and growth
// step. Non-positive values fall back to the defaults.
func NewBackoff(base, step time.Duration) *Backoff {
	if base <= 0 {
		base = DefaultBackoffBase
	}
	if step <= 0 {
		step = DefaultBackoffStep
	}
	return &Backoff{base: base, step: step, current: base}
}

// Throttled reports a 429 response. It returns the delay to sleep before
// retrying and escalates the delay for the next consecutive throttle.
func (b *Backoff) Throttled() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	throttledTotal.Inc()
	d := b.current
	b.current += b.step
	return d
}

// Succeeded reports a successful call, decaying the delay one step toward
// the baseline.
func (b *Backoff) Succeeded() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current > b.base {
		b.current -= b.step
		if b.current < b.base {
			b.current = b.base
		}
	}
}

// Current returns the delay the next throttle response would sleep for.
func (b *Backoff) Current() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Package ratelimit implements the client-side call budget and the
// server-throttle backoff state shared by every request issued through
// one OpenSea client.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for self-throttling.
var (
	limiterWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "osea_limiter_waits_total",
		Help: "Total number of calls that had to wait for the rate budget",
	})

	limiterWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "osea_limiter_wait_seconds",
		Help:    "Time spent waiting for the rate budget",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2},
	})
)

// Limiter enforces a calls-per-second budget across every goroutine that
// shares one API client. The state is a single mutex-guarded counter, so
// concurrent wallet workers draw from the same budget.
//
// Wait never fails on an exhausted budget; it suspends until a slot frees
// in the next one-second window.
type Limiter struct {
	mu          sync.Mutex
	perSecond   int
	windowStart time.Time
	used        int
}

// NewLimiter creates a limiter allowing perSecond calls per rolling
// one-second window.
func NewLimiter(perSecond int) *Limiter {
	return &Limiter{perSecond: perSecond}
}

// PerSecond returns the configured budget.
func (l *Limiter) PerSecond() int {
	return l.perSecond
}

// Wait consumes one unit of the budget, blocking until a unit is available
// or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	waited := false
	start := time.Now()

	for {
		l.mu.Lock()
		now := time.Now()
		if now.Sub(l.windowStart) >= time.Second {
			l.windowStart = now
			l.used = 0
		}
		if l.used < l.perSecond {
			l.used++
			l.mu.Unlock()
			if waited {
				limiterWaitSeconds.Observe(time.Since(start).Seconds())
			}
			return nil
		}
		wait := time.Second - now.Sub(l.windowStart)
		l.mu.Unlock()

		if !waited {
			waited = true
			limiterWaitsTotal.Inc()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// Package ratelimit gates outgoing PokeAPI requests with a token bucket so a
// full catalog load stays inside the API's fair-use policy.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/pokedex-browser/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Prometheus metrics for outgoing request gating.
var (
	rateLimitWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokedex_rate_limit_waits_total",
		Help: "Total number of requests that had to wait for a token",
	})

	rateLimitWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pokedex_rate_limit_wait_seconds",
		Help:    "Time spent waiting for a request token",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	rateLimitRejectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokedex_rate_limit_rejects_total",
		Help: "Total number of requests abandoned while waiting for a token",
	})
)

// slowWait is the wait above which a throttled request is logged.
const slowWait = 100 * time.Millisecond

// Limiter gates requests at a fixed rate with a burst allowance.
// A nil or disabled Limiter lets every request through.
type Limiter struct {
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// New creates a limiter allowing perSecond requests per second with the given
// burst. perSecond <= 0 disables limiting.
func New(perSecond float64, burst int) *Limiter {
	logger := logging.NewLogger("ratelimit")
	if perSecond <= 0 {
		return &Limiter{logger: logger}
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		logger:  logger,
	}
}

// Disabled reports whether the limiter lets every request through.
func (l *Limiter) Disabled() bool {
	return l == nil || l.limiter == nil
}

// Limit returns the configured requests per second, 0 when disabled.
func (l *Limiter) Limit() float64 {
	if l.Disabled() {
		return 0
	}
	return float64(l.limiter.Limit())
}

// Burst returns the configured burst, 0 when disabled.
func (l *Limiter) Burst() int {
	if l.Disabled() {
		return 0
	}
	return l.limiter.Burst()
}

// Wait blocks until a request may proceed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.Disabled() {
		return nil
	}

	start := time.Now()
	if err := l.limiter.Wait(ctx); err != nil {
		rateLimitRejectsTotal.Inc()
		return fmt.Errorf("rate limit wait: %w", err)
	}

	waited := time.Since(start)
	rateLimitWaitSeconds.Observe(waited.Seconds())
	if waited >= slowWait {
		rateLimitWaitsTotal.Inc()
		l.logger.Debug().
			Dur("wait_duration", waited).
			Msg("Request throttled")
	}
	return nil
}

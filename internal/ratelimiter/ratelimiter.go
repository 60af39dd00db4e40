package ratelimiter

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"gitlab.com/gitlab-org/artifact-gateway/internal/lru"
	"gitlab.com/gitlab-org/artifact-gateway/metrics"
)

const (
	// DefaultSourceIPLimitPerSecond is the rate at which a source IP earns
	// request tokens
	DefaultSourceIPLimitPerSecond = 20.0
	// DefaultSourceIPBurstSize is the number of requests a source IP may send
	// at once before being limited
	DefaultSourceIPBurstSize = 100

	defaultSourceIPItems              = 5000
	defaultSourceIPExpirationInterval = time.Minute
)

// Option function to configure a RateLimiter
type Option func(*RateLimiter)

// RateLimiter keeps one token bucket per source IP in an LRU cache
type RateLimiter struct {
	now                    func() time.Time
	sourceIPLimitPerSecond float64
	sourceIPBurstSize      int
	sourceIPBlockedCount   prometheus.Counter
	sourceIPCache          *lru.Cache[*rate.Limiter]
}

// New creates a new RateLimiter with default values that can be configured via Option functions
func New(opts ...Option) *RateLimiter {
	rl := &RateLimiter{
		now:                    time.Now,
		sourceIPLimitPerSecond: DefaultSourceIPLimitPerSecond,
		sourceIPBurstSize:      DefaultSourceIPBurstSize,
		sourceIPBlockedCount:   metrics.RateLimitSourceIPBlockedCount,
		sourceIPCache: lru.New[*rate.Limiter](
			"source_ip",
			defaultSourceIPItems,
			defaultSourceIPExpirationInterval,
			metrics.RateLimitSourceIPCachedEntries,
			metrics.RateLimitSourceIPCacheRequests,
		),
	}

	for _, opt := range opts {
		opt(rl)
	}

	return rl
}

// WithNow replaces the RateLimiter now function
func WithNow(now func() time.Time) Option {
	return func(rl *RateLimiter) {
		rl.now = now
	}
}

// WithSourceIPLimitPerSecond configures the per source IP limit per second
func WithSourceIPLimitPerSecond(limit float64) Option {
	return func(rl *RateLimiter) {
		rl.sourceIPLimitPerSecond = limit
	}
}

// WithSourceIPBurstSize configures burst per source IP for the RateLimiter
func WithSourceIPBurstSize(burst int) Option {
	return func(rl *RateLimiter) {
		rl.sourceIPBurstSize = burst
	}
}

func (rl *RateLimiter) getSourceIPLimiter(sourceIP string) *rate.Limiter {
	limiter, _ := rl.sourceIPCache.FindOrFetch(sourceIP, func() (*rate.Limiter, error) {
		return rate.NewLimiter(rate.Limit(rl.sourceIPLimitPerSecond), rl.sourceIPBurstSize), nil
	})

	return limiter
}

// SourceIPAllowed reports whether sourceIP may send one more request now
func (rl *RateLimiter) SourceIPAllowed(sourceIP string) bool {
	return rl.getSourceIPLimiter(sourceIP).AllowN(rl.now(), 1)
}

// Stop releases the cache worker
func (rl *RateLimiter) Stop() {
	rl.sourceIPCache.Stop()
}

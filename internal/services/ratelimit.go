package services

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/bluesherpa/analytics-engine/internal/config"
	"github.com/bluesherpa/analytics-engine/internal/logger"
)

// RateLimiter hands out one token bucket per caller key. Buckets idle longer
// than MaxIdle are evicted opportunistically on lookup so the map stays
// bounded without a background goroutine.
type RateLimiter interface {
	Allow(key string) bool
}

type rateLimiter struct {
	log *logger.Logger
	cfg config.RateLimitConfig

	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(log *logger.Logger, cfg config.RateLimitConfig) RateLimiter {
	return &rateLimiter{
		log:     log.With("service", "RateLimiter"),
		cfg:     cfg,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (rl *rateLimiter) Allow(key string) bool {
	if !rl.cfg.Enabled {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.evictStale(now)

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(rl.cfg.Rate), rl.cfg.Burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now

	allowed := b.limiter.Allow()
	if !allowed {
		rl.log.Warn("Request rate limited", "key", key)
	}
	return allowed
}

func (rl *rateLimiter) evictStale(now time.Time) {
	if rl.cfg.MaxIdle <= 0 {
		return
	}
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > rl.cfg.MaxIdle {
			delete(rl.buckets, key)
		}
	}
}

package services

import (
	"testing"
	"time"

	"github.com/bluesherpa/analytics-engine/internal/config"
	"github.com/bluesherpa/analytics-engine/internal/logger"
)

func TestRateLimiter_BurstThenThrottle(t *testing.T) {
	rl := NewRateLimiter(logger.NewNop(), config.RateLimitConfig{
		Enabled: true,
		Rate:    1,
		Burst:   3,
	})

	for i := 0; i < 3; i++ {
		if !rl.Allow("caller") {
			t.Fatalf("request %d within burst should pass", i)
		}
	}
	if rl.Allow("caller") {
		t.Fatalf("request beyond burst should be throttled")
	}
	if !rl.Allow("other") {
		t.Fatalf("another caller has its own bucket")
	}
}

func TestRateLimiter_DisabledPassesEverything(t *testing.T) {
	rl := NewRateLimiter(logger.NewNop(), config.RateLimitConfig{Enabled: false, Rate: 1, Burst: 1})
	for i := 0; i < 100; i++ {
		if !rl.Allow("caller") {
			t.Fatalf("disabled limiter must never throttle")
		}
	}
}

func TestRateLimiter_EvictsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(logger.NewNop(), config.RateLimitConfig{
		Enabled: true,
		Rate:    1,
		Burst:   1,
		MaxIdle: time.Minute,
	}).(*rateLimiter)

	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.Allow("caller")
	if _, ok := rl.buckets["caller"]; !ok {
		t.Fatalf("bucket should exist after first request")
	}

	rl.now = func() time.Time { return now.Add(2 * time.Minute) }
	rl.Allow("someone-else")
	if _, ok := rl.buckets["caller"]; ok {
		t.Fatalf("idle bucket should have been evicted")
	}
}

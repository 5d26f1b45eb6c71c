package ratelimit

import (
	"math"
	"sync"
	"time"
)

// Config stores TokenBucketLimiter settings.
type Config struct {
	Rate       float64       // tokens per second
	Burst      int           // bucket capacity
	TTL        time.Duration // idle buckets are dropped after this; 0 keeps them
	MaxBuckets int           // new clients are refused once reached; 0 is unbounded
}

// TokenBucketLimiter keeps one token bucket per console client.
// The console sees a handful of clients, so one lock covers the whole table.
type TokenBucketLimiter struct {
	cfg   Config
	clock Clock

	mu        sync.Mutex
	buckets   map[string]*bucket
	nextSweep time.Time
}

type bucket struct {
	tokens float64
	seen   time.Time
}

// NewTokenBucketLimiter normalizes cfg and returns a limiter reading time from clock.
func NewTokenBucketLimiter(clock Clock, cfg Config) *TokenBucketLimiter {
	if clock == nil {
		clock = RealClock{}
	}
	if !(cfg.Rate > 0) {
		cfg.Rate = 1
	}
	cfg.Burst = max(cfg.Burst, 1)
	cfg.MaxBuckets = max(cfg.MaxBuckets, 0)
	return &TokenBucketLimiter{
		cfg:     cfg,
		clock:   clock,
		buckets: make(map[string]*bucket),
	}
}

// Allow takes one token from the bucket of key.
func (l *TokenBucketLimiter) Allow(key string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		if l.cfg.MaxBuckets > 0 && len(l.buckets) >= l.cfg.MaxBuckets {
			return false
		}
		b = &bucket{tokens: float64(l.cfg.Burst), seen: now}
		l.buckets[key] = b
	}

	if now.After(b.seen) {
		b.tokens = math.Min(float64(l.cfg.Burst), b.tokens+now.Sub(b.seen).Seconds()*l.cfg.Rate)
		b.seen = now
	}
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep drops idle buckets at most once per max(TTL/2, 1m). Caller holds mu.
func (l *TokenBucketLimiter) sweep(now time.Time) {
	if l.cfg.TTL <= 0 || now.Before(l.nextSweep) {
		return
	}
	l.nextSweep = now.Add(max(l.cfg.TTL/2, time.Minute))

	for key, b := range l.buckets {
		if now.Sub(b.seen) > l.cfg.TTL {
			delete(l.buckets, key)
		}
	}
}

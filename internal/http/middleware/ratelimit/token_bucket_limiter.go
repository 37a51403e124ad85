package ratelimit

import (
	"sync"
	"time"
)

// Config stores TokenBucketLimiter settings.
type Config struct {
	Rate       float64       // tokens per second
	Burst      int           // bucket capacity
	TTL        time.Duration // idle buckets older than this are dropped, 0 keeps them
	MaxBuckets int           // 0 means unbounded
}

// TokenBucketLimiter keeps one bucket per client key (an actor or an IP).
// When the table is full, idle buckets are swept at once; if none can go,
// unseen keys are refused.
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

// NewTokenBucketLimiter normalises cfg and returns a limiter reading time from clock.
func NewTokenBucketLimiter(clock Clock, cfg Config) *TokenBucketLimiter {
	if clock == nil {
		clock = RealClock{}
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.MaxBuckets < 0 {
		cfg.MaxBuckets = 0
	}
	return &TokenBucketLimiter{
		cfg:     cfg,
		clock:   clock,
		buckets: make(map[string]*bucket),
	}
}

// Allow takes one token from the bucket of key and reports whether one was available.
func (l *TokenBucketLimiter) Allow(key string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cfg.TTL > 0 && !now.Before(l.nextSweep) {
		l.sweep(now)
	}

	b, ok := l.buckets[key]
	if !ok {
		if l.full() && l.cfg.TTL > 0 {
			l.sweep(now)
		}
		if l.full() {
			return false
		}
		b = &bucket{tokens: float64(l.cfg.Burst), seen: now}
		l.buckets[key] = b
	}
	return l.take(b, now)
}

// Len reports how many client buckets are tracked.
func (l *TokenBucketLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *TokenBucketLimiter) full() bool {
	return l.cfg.MaxBuckets > 0 && len(l.buckets) >= l.cfg.MaxBuckets
}

func (l *TokenBucketLimiter) take(b *bucket, now time.Time) bool {
	if elapsed := now.Sub(b.seen); elapsed > 0 {
		b.tokens = min(b.tokens+elapsed.Seconds()*l.cfg.Rate, float64(l.cfg.Burst))
	}
	b.seen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep drops buckets idle for longer than TTL. Caller holds l.mu.
func (l *TokenBucketLimiter) sweep(now time.Time) {
	for k, b := range l.buckets {
		if now.Sub(b.seen) > l.cfg.TTL {
			delete(l.buckets, k)
		}
	}
	l.nextSweep = now.Add(max(time.Minute, l.cfg.TTL/2))
}

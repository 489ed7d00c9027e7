package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	tokens float64
	last   time.Time
}

// Limiter is a keyed token bucket. Every key gets the same capacity and
// refill rate; idle buckets are dropped once they would be full again.
type Limiter struct {
	mu         sync.Mutex
	m          map[string]*bucket
	capacity   float64
	refillRate float64 // tokens per second
	now        func() time.Time
	lastPrune  time.Time
}

// New builds a limiter. Non-positive values fall back to 20 tokens and 5/s.
func New(capacity, refillPerSec float64) *Limiter {
	if capacity <= 0 {
		capacity = 20
	}
	if refillPerSec <= 0 {
		refillPerSec = 5
	}
	return &Limiter{
		m:          make(map[string]*bucket),
		capacity:   capacity,
		refillRate: refillPerSec,
		now:        time.Now,
	}
}

// WithClock overrides time.Now, for tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: l.capacity, last: now}
		l.m[key] = b
	}
	// refill
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * l.refillRate
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}
	l.prune(now)

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

// prune drops buckets idle long enough to have refilled. Caller holds the lock.
func (l *Limiter) prune(now time.Time) {
	full := time.Duration(l.capacity / l.refillRate * float64(time.Second))
	if now.Sub(l.lastPrune) < full {
		return
	}
	l.lastPrune = now
	for key, b := range l.m {
		if now.Sub(b.last) >= full {
			delete(l.m, key)
		}
	}
}

// Package ratelimit keeps one token bucket per key (usually a client IP).
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter hands out per-key buckets and forgets keys idle longer than ttl.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*entry
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	now     func() time.Time
}

func New(rps float64, burst int, ttl time.Duration) *Limiter {
	return &Limiter{
		buckets: make(map[string]*entry),
		limit:   rate.Limit(rps),
		burst:   burst,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Result describes one Allow decision.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

func (l *Limiter) Burst() int {
	return l.burst
}

func (l *Limiter) Allow(key string) Result {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.evict(now)
	e, ok := l.buckets[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = e
	}
	e.lastSeen = now

	r := e.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return Result{Allowed: false, RetryAfter: delay}
	}
	return Result{Allowed: true, Remaining: int(e.limiter.TokensAt(now))}
}

// Len is the number of live keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *Limiter) evict(now time.Time) {
	for k, e := range l.buckets {
		if now.Sub(e.lastSeen) > l.ttl {
			delete(l.buckets, k)
		}
	}
}

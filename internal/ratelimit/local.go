package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LocalBuckets is an in-process keyed limiter. Keys not seen for idleTTL are
// evicted on the next sweep.
type LocalBuckets struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	buckets   map[string]*localBucket
}

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewLocalBuckets(perSecond float64, burst int, idleTTL time.Duration) *LocalBuckets {
	return &LocalBuckets{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		idleTTL: idleTTL,
		buckets: make(map[string]*localBucket),
	}
}

func (l *LocalBuckets) Allow(key string, now time.Time) *Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &localBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	allowed := b.limiter.AllowN(now, 1)
	remaining := b.limiter.TokensAt(now)

	res := &Result{Allowed: allowed, Limit: l.burst, Remaining: int(remaining)}
	if !allowed {
		res.RetryAfter = refillDelay(remaining, float64(l.limit))
	}
	return res
}

// Len reports the number of tracked keys.
func (l *LocalBuckets) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *LocalBuckets) sweep(now time.Time) {
	if l.idleTTL <= 0 || now.Sub(l.lastSweep) < l.idleTTL {
		return
	}
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.idleTTL {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

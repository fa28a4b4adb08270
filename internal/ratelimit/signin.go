package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/inkwell/internal/clock"
	"github.com/smallbiznis/inkwell/internal/config"
	"github.com/smallbiznis/inkwell/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	keySignIn = "signin:%s"

	backendRedis  = "redis"
	backendMemory = "memory"

	localIdleTTL = 10 * time.Minute
)

type SignInParams struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	Clock   clock.Clock
	Redis   redis.UniversalClient `optional:"true"`
	Metrics *metrics.Metrics      `optional:"true"`
}

// SignInLimiter throttles sign-in attempts per key (client IP).
// The Redis bucket is shared across replicas; without Redis, or when a Redis
// call fails, the in-process buckets decide.
type SignInLimiter struct {
	log     *zap.Logger
	clock   clock.Clock
	metrics *metrics.Metrics

	rate  float64
	burst int

	bucket *TokenBucket
	local  *LocalBuckets
}

func NewSignInLimiter(p SignInParams) *SignInLimiter {
	rate := p.Config.SignInRatePerSecond
	burst := p.Config.SignInBurst
	if rate <= 0 {
		rate = 0.2
	}
	if burst <= 0 {
		burst = 5
	}

	return &SignInLimiter{
		log:     p.Log.Named("ratelimit.signin"),
		clock:   p.Clock,
		metrics: p.Metrics,
		rate:    rate,
		burst:   burst,
		bucket:  NewTokenBucket(p.Redis),
		local:   NewLocalBuckets(rate, burst, localIdleTTL),
	}
}

func (l *SignInLimiter) Allow(ctx context.Context, key string) *Result {
	key = strings.TrimSpace(key)
	if key == "" {
		key = "unknown"
	}

	backend := backendMemory
	var res *Result
	if l.bucket != nil {
		var err error
		res, err = l.bucket.Allow(ctx, fmt.Sprintf(keySignIn, key), l.rate, l.burst)
		if err != nil {
			l.log.Warn("redis rate limit failed, using local buckets", zap.Error(err))
			res = nil
		} else {
			backend = backendRedis
		}
	}
	if res == nil {
		res = l.local.Allow(key, l.clock.Now())
	}

	if !res.Allowed && l.metrics != nil {
		l.metrics.RecordRateLimitDenied(ctx, "signin", backend)
	}
	return res
}

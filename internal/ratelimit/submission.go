package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/homestead/internal/config"
	"github.com/smallbiznis/homestead/internal/observability/metrics"
	"github.com/smallbiznis/homestead/pkg/iphash"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	keySubmitBucket = "homestead:submit:%s:%s"
	keySubmitLock   = "homestead:submit:lock:%s:%s"
)

var (
	ErrRateLimited         = errors.New("rate_limited")
	ErrDuplicateSubmission = errors.New("duplicate_submission")
)

// Decision is the outcome of a guarded public submission.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
	release    func()
}

// Release frees the duplicate-submission lock taken by Acquire.
func (d Decision) Release() {
	if d.release != nil {
		d.release()
	}
}

// SubmissionGuard throttles anonymous form submissions per client.
type SubmissionGuard interface {
	Acquire(ctx context.Context, endpoint, clientIP string) (Decision, error)
}

type Params struct {
	fx.In

	Cfg     config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

// SubmissionLimiter combines a per-client token bucket with a short lock that
// rejects a second submission while the first is still in flight.
type SubmissionLimiter struct {
	enabled bool

	bucket  *TokenBucket
	locker  *Locker
	log     *zap.Logger
	metrics *metrics.Metrics

	rate       float64
	burst      int
	lockTTL    time.Duration
	ipHashSalt string
}

func NewSubmissionLimiter(p Params) (*SubmissionLimiter, error) {
	limitCfg := p.Cfg.RateLimit
	limiter := &SubmissionLimiter{
		log:        p.Log.Named("ratelimit.submission"),
		metrics:    p.Metrics,
		ipHashSalt: limitCfg.IPHashSalt,
	}
	if !limitCfg.Enabled {
		return limiter, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.SubmitRate <= 0 || limitCfg.SubmitBurst <= 0 {
		return nil, errors.New("submission rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	lockTTL := time.Duration(limitCfg.DuplicateWindowSeconds) * time.Second
	if lockTTL <= 0 {
		lockTTL = 5 * time.Second
	}

	limiter.enabled = true
	limiter.bucket = NewTokenBucket(client)
	limiter.locker = NewLocker(client)
	limiter.rate = limitCfg.SubmitRate
	limiter.burst = limitCfg.SubmitBurst
	limiter.lockTTL = lockTTL
	return limiter, nil
}

func (l *SubmissionLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// Acquire checks the client's bucket for endpoint. Redis failures let the
// request through so an outage never blocks lead capture.
func (l *SubmissionLimiter) Acquire(ctx context.Context, endpoint, clientIP string) (Decision, error) {
	if !l.Enabled() {
		return Decision{Allowed: true}, nil
	}

	endpoint = strings.TrimSpace(endpoint)
	client := clientKey(clientIP, l.ipHashSalt)

	result, err := l.bucket.Allow(ctx, fmt.Sprintf(keySubmitBucket, endpoint, client), l.rate, l.burst)
	if err != nil {
		l.log.Warn("rate limit check failed, allowing request", zap.String("endpoint", endpoint), zap.Error(err))
		return Decision{Allowed: true}, nil
	}
	if !result.Allowed {
		l.metrics.RecordRateLimitDenied(ctx, endpoint, "bucket")
		return Decision{Allowed: false, RetryAfter: result.RetryAfter}, ErrRateLimited
	}

	lease, err := l.locker.Acquire(ctx, fmt.Sprintf(keySubmitLock, endpoint, client), l.lockTTL)
	switch {
	case errors.Is(err, errLockHeld):
		l.metrics.RecordRateLimitDenied(ctx, endpoint, "duplicate")
		return Decision{Allowed: false, RetryAfter: l.lockTTL}, ErrDuplicateSubmission
	case err != nil:
		l.log.Warn("submission lock failed, allowing request", zap.String("endpoint", endpoint), zap.Error(err))
	}

	l.metrics.RecordRateLimitAllowed(ctx, endpoint)
	return Decision{
		Allowed: true,
		release: func() {
			// The request context may already be cancelled.
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
			defer cancel()
			if err := lease.Release(releaseCtx); err != nil {
				l.log.Debug("submission lock release failed", zap.Error(err))
			}
		},
	}, nil
}

func clientKey(clientIP, salt string) string {
	if hashed := iphash.Sum(clientIP, salt); hashed != "" {
		return hashed
	}
	return "unknown"
}

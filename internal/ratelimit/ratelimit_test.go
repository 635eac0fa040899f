package ratelimit

import (
	"context"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/homestead/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSubmissionLimiter_DisabledAllowsEverything(t *testing.T) {
	limiter, err := NewSubmissionLimiter(Params{Cfg: config.Config{}, Log: zap.NewNop()})
	require.NoError(t, err)
	assert.False(t, limiter.Enabled())

	for i := 0; i < 10; i++ {
		decision, err := limiter.Acquire(context.Background(), "contact", "203.0.113.9")
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		decision.Release()
	}
}

func TestSubmissionLimiter_RejectsInvalidConfig(t *testing.T) {
	_, err := NewSubmissionLimiter(Params{
		Cfg: config.Config{RateLimit: config.RateLimitConfig{Enabled: true, RedisAddr: "localhost:6379"}},
		Log: zap.NewNop(),
	})
	assert.Error(t, err)

	_, err = NewSubmissionLimiter(Params{
		Cfg: config.Config{RateLimit: config.RateLimitConfig{Enabled: true, SubmitRate: 1, SubmitBurst: 1}},
		Log: zap.NewNop(),
	})
	assert.Error(t, err)
}

func TestRetryAfterFor(t *testing.T) {
	assert.Zero(t, retryAfterFor(true, 0, 1))
	assert.Zero(t, retryAfterFor(false, 0, 0))
	assert.Equal(t, 2*time.Second, retryAfterFor(false, 0, 0.5))
	assert.Equal(t, 500*time.Millisecond, retryAfterFor(false, 0.5, 1))
}

func TestDefaultBucketTTL(t *testing.T) {
	assert.Equal(t, time.Second, defaultBucketTTL(0, 1))
	assert.Equal(t, 20*time.Second, defaultBucketTTL(0.5, 5))
}

func TestClientKey(t *testing.T) {
	assert.Equal(t, "unknown", clientKey("", "salt"))
	assert.Len(t, clientKey("198.51.100.4", "salt"), 64)
}

func TestNilBucketAndLocker(t *testing.T) {
	var bucket *TokenBucket
	res, err := bucket.Allow(context.Background(), "k", 1, 1)
	assert.Error(t, err)
	assert.False(t, res.Allowed)

	var locker *Locker
	lease, err := locker.Acquire(context.Background(), "k", time.Second)
	assert.ErrorIs(t, err, errLockUnavailable)
	assert.Nil(t, lease)
	assert.NoError(t, lease.Release(context.Background()))

	locker = NewLocker(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}))
	_, err = locker.Acquire(context.Background(), "", time.Second)
	assert.ErrorIs(t, err, errLockArgs)
}

func TestTokenBucket_RejectsBadArguments(t *testing.T) {
	bucket := &TokenBucket{client: redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})}

	_, err := bucket.Allow(context.Background(), "", 1, 1)
	assert.ErrorIs(t, err, errBucketKey)

	_, err = bucket.Allow(context.Background(), "k", 0, 1)
	assert.ErrorIs(t, err, errBucketLimits)

	_, err = bucket.Allow(context.Background(), "k", 1, 0)
	assert.ErrorIs(t, err, errBucketLimits)
}

func TestParseTokens(t *testing.T) {
	v, err := parseTokens("0.25")
	require.NoError(t, err)
	assert.InDelta(t, 0.25, v, 1e-9)

	v, err = parseTokens(int64(3))
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	_, err = parseTokens(nil)
	assert.Error(t, err)
}

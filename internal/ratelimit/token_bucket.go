package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// The remaining token count is returned as a string so fractional refills
// survive the Lua-to-Redis integer conversion.
const tokenBucketScript = `
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])

local t = redis.call("TIME")
local now = (t[1] * 1000) + math.floor(t[2] / 1000)

local state = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(state[1]) or burst
local ts = tonumber(state[2]) or now

local elapsed = math.max(0, now - ts)
tokens = math.min(burst, tokens + (elapsed / 1000) * rate)

local allowed = 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
end

redis.call("HSET", KEYS[1], "tokens", tokens, "ts", now)
redis.call("PEXPIRE", KEYS[1], ttl)

return {allowed, tostring(tokens)}
`

var (
	errBucketUnavailable = errors.New("token bucket not configured")
	errBucketKey         = errors.New("token bucket key is empty")
	errBucketLimits      = errors.New("token bucket rate and burst must be positive")
)

// TokenBucket keeps one bucket per key in Redis. Refill uses the Redis server
// clock so every app instance agrees on elapsed time.
type TokenBucket struct {
	client *redis.Client
	script *redis.Script
}

type BucketResult struct {
	Allowed    bool
	Remaining  float64
	RetryAfter time.Duration
}

func NewTokenBucket(client *redis.Client) *TokenBucket {
	if client == nil {
		return nil
	}
	return &TokenBucket{client: client, script: redis.NewScript(tokenBucketScript)}
}

// Allow takes one token from key's bucket when available.
func (t *TokenBucket) Allow(ctx context.Context, key string, rate float64, burst int) (BucketResult, error) {
	switch {
	case t == nil || t.client == nil:
		return BucketResult{}, errBucketUnavailable
	case key == "":
		return BucketResult{}, errBucketKey
	case rate <= 0 || burst <= 0:
		return BucketResult{}, errBucketLimits
	}

	ttl := defaultBucketTTL(rate, burst)
	reply, err := t.script.Run(ctx, t.client, []string{key}, rate, burst, ttl.Milliseconds()).Slice()
	if err != nil {
		return BucketResult{}, err
	}
	if len(reply) != 2 {
		return BucketResult{}, fmt.Errorf("token bucket: unexpected reply length %d", len(reply))
	}

	allowed, _ := reply[0].(int64)
	remaining, err := parseTokens(reply[1])
	if err != nil {
		return BucketResult{}, err
	}

	return BucketResult{
		Allowed:    allowed == 1,
		Remaining:  remaining,
		RetryAfter: retryAfterFor(allowed == 1, remaining, rate),
	}, nil
}

// retryAfterFor is the time until one whole token has refilled.
func retryAfterFor(allowed bool, remaining float64, rate float64) time.Duration {
	if allowed || rate <= 0 {
		return 0
	}
	missing := 1.0 - remaining
	if missing <= 0 {
		return 0
	}
	return time.Duration(missing / rate * float64(time.Second))
}

// defaultBucketTTL keeps an idle bucket for twice its full refill time.
func defaultBucketTTL(rate float64, burst int) time.Duration {
	if rate <= 0 || burst <= 0 {
		return time.Second
	}
	seconds := math.Max(1, math.Ceil(float64(burst)/rate*2))
	return time.Duration(seconds) * time.Second
}

func parseTokens(v any) (float64, error) {
	switch val := v.(type) {
	case string:
		return strconv.ParseFloat(val, 64)
	case int64:
		return float64(val), nil
	default:
		return 0, fmt.Errorf("token bucket: unexpected token value %T", v)
	}
}

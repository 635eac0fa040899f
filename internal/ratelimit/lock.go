package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

var (
	errLockUnavailable = errors.New("submission lock not configured")
	errLockArgs        = errors.New("submission lock requires a key and positive ttl")
	errLockHeld        = errors.New("submission lock held")
)

// Deletes the key only while it still carries our token, so a lease that
// outlived its ttl cannot release someone else's.
var releaseLease = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker hands out short Redis leases keyed by endpoint and client. A held
// lease marks a submission as in flight.
type Locker struct {
	client *redis.Client
}

// Lease is an acquired lock. Release is safe on a nil lease.
type Lease struct {
	client *redis.Client
	key    string
	token  string
}

func NewLocker(client *redis.Client) *Locker {
	if client == nil {
		return nil
	}
	return &Locker{client: client}
}

// Acquire returns errLockHeld when another request owns key.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (*Lease, error) {
	if l == nil || l.client == nil {
		return nil, errLockUnavailable
	}
	if key == "" || ttl <= 0 {
		return nil, errLockArgs
	}

	lease := &Lease{client: l.client, key: key, token: uuid.NewString()}
	ok, err := l.client.SetNX(ctx, key, lease.token, ttl).Result()
	switch {
	case err != nil:
		return nil, err
	case !ok:
		return nil, errLockHeld
	}
	return lease, nil
}

func (le *Lease) Release(ctx context.Context) error {
	if le == nil {
		return nil
	}
	return releaseLease.Run(ctx, le.client, []string{le.key}, le.token).Err()
}

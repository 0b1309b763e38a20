package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/roofsight/RoofSight-Engine/pkg/errors"
)

var (
	ErrLockNotAcquired = errors.New(errors.ErrCodeConflict, "failed to acquire lock")
	ErrLockNotHeld     = errors.New(errors.ErrCodeConflict, "lock not held by this owner")
)

// Mutex is a Redis-backed mutual exclusion lock.  The worker holds one per
// portfolio sweep so that only a single instance runs a sweep at a time.
type Mutex struct {
	client *Client
	key    string
	value  string
	ttl    time.Duration

	retryDelay time.Duration
	retryCount int
}

// unlockScript releases the lock only if this owner still holds it.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// extendScript refreshes the TTL only if this owner still holds the lock.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)

// MutexOption configures a Mutex.
type MutexOption func(*Mutex)

// WithLockTTL overrides how long the lock is held before expiring.
func WithLockTTL(ttl time.Duration) MutexOption {
	return func(m *Mutex) { m.ttl = ttl }
}

// WithRetry overrides the Lock acquisition retry policy.
func WithRetry(delay time.Duration, count int) MutexOption {
	return func(m *Mutex) {
		m.retryDelay = delay
		m.retryCount = count
	}
}

// NewMutex builds a named lock.  The TTL must comfortably exceed the longest
// expected critical section; the worker extends it while a sweep runs.
func NewMutex(client *Client, name string, opts ...MutexOption) *Mutex {
	m := &Mutex{
		client:     client,
		key:        "roofsight:lock:" + name,
		value:      uuid.NewString(),
		ttl:        30 * time.Second,
		retryDelay: 100 * time.Millisecond,
		retryCount: 30,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TryLock attempts a single non-blocking acquisition.
func (m *Mutex) TryLock(ctx context.Context) (bool, error) {
	ok, err := m.client.rdb.SetNX(ctx, m.key, m.value, m.ttl).Result()
	if err != nil {
		return false, ErrCacheUnavailable.WithCause(err)
	}
	return ok, nil
}

// Lock blocks until the lock is acquired, the retry budget is exhausted, or
// the context is cancelled.
func (m *Mutex) Lock(ctx context.Context) error {
	for attempt := 0; attempt <= m.retryCount; attempt++ {
		ok, err := m.TryLock(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.retryDelay):
		}
	}
	return ErrLockNotAcquired
}

// Unlock releases the lock if this owner still holds it.
func (m *Mutex) Unlock(ctx context.Context) error {
	n, err := unlockScript.Run(ctx, m.client.rdb, []string{m.key}, m.value).Int64()
	if err != nil {
		return ErrCacheUnavailable.WithCause(err)
	}
	if n == 0 {
		return ErrLockNotHeld
	}
	return nil
}

// Extend refreshes the lock TTL if this owner still holds it.
func (m *Mutex) Extend(ctx context.Context, ttl time.Duration) (bool, error) {
	n, err := extendScript.Run(ctx, m.client.rdb, []string{m.key}, m.value, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, ErrCacheUnavailable.WithCause(err)
	}
	return n == 1, nil
}

// TTL reports the remaining lock lifetime.
func (m *Mutex) TTL(ctx context.Context) (time.Duration, error) {
	ttl, err := m.client.rdb.TTL(ctx, m.key).Result()
	if err != nil {
		return 0, ErrCacheUnavailable.WithCause(err)
	}
	return ttl, nil
}

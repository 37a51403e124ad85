package identity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList remembers token ids that must no longer be accepted.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const revokedKeyPrefix = "revoked:jti:"

// RedisRevocations keeps revoked token ids in Redis until the token would have expired.
type RedisRevocations struct {
	client redis.Cmdable
}

// NewRedisRevocations creates a Redis-backed revocation list.
func NewRedisRevocations(client redis.Cmdable) *RedisRevocations {
	return &RedisRevocations{client: client}
}

// Revoke marks jti as revoked for ttl. A non-positive ttl is a no-op: the token is already expired.
func (r *RedisRevocations) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether jti was revoked and has not expired yet.
func (r *RedisRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	err := r.client.Get(ctx, revokedKeyPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MemoryRevocations is a process-local revocation list used when Redis is not configured.
type MemoryRevocations struct {
	mu    sync.Mutex
	items map[string]time.Time
	now   func() time.Time
}

// NewMemoryRevocations creates an empty in-memory revocation list.
func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{items: make(map[string]time.Time), now: time.Now}
}

// Revoke marks jti as revoked for ttl.
func (m *MemoryRevocations) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, exp := range m.items {
		if !exp.After(now) {
			delete(m.items, k)
		}
	}
	m.items[jti] = now.Add(ttl)
	return nil
}

// IsRevoked reports whether jti was revoked and has not expired yet.
func (m *MemoryRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.items[jti]
	return ok && exp.After(m.now()), nil
}

var (
	_ RevocationList = (*RedisRevocations)(nil)
	_ RevocationList = (*MemoryRevocations)(nil)
)

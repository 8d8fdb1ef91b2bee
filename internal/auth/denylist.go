package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist tracks revoked token IDs until their natural expiry. Logout adds
// the token's jti; the auth middleware rejects any denylisted token.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const denylistKeyPrefix = "lostfound:denylist:"

// RedisDenylist stores revoked token IDs in Redis so revocation survives
// restarts and is shared between replicas.
type RedisDenylist struct {
	client *redis.Client
}

// NewRedisDenylist wraps an established Redis client.
func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client}
}

func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired, nothing to revoke
	}
	return d.client.Set(ctx, denylistKeyPrefix+tokenID, "1", ttl).Err()
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, denylistKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryDenylist is the in-process fallback used when Redis is not configured.
type MemoryDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryDenylist constructs an empty in-memory denylist.
func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (d *MemoryDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.entries[tokenID] = d.now().Add(ttl)
	d.pruneLocked()
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	expiry, ok := d.entries[tokenID]
	if !ok {
		return false, nil
	}
	if d.now().After(expiry) {
		delete(d.entries, tokenID)
		return false, nil
	}
	return true, nil
}

func (d *MemoryDenylist) pruneLocked() {
	now := d.now()
	for id, expiry := range d.entries {
		if now.After(expiry) {
			delete(d.entries, id)
		}
	}
}

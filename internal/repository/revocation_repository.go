package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedRefreshPrefix = "revoked:refresh:"

// RevocationRepository records refresh tokens that must no longer mint new
// pairs (logout, rotation). Entries expire with the token itself, so the
// store never outgrows the set of live refresh tokens.
type RevocationRepository interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type redisRevocationRepository struct {
	client *redis.Client
}

// NewRedisRevocationRepository returns a Redis-backed implementation keyed
// by token id with the remaining token lifetime as TTL.
func NewRedisRevocationRepository(client *redis.Client) RevocationRepository {
	return &redisRevocationRepository{client: client}
}

func (r *redisRevocationRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already expired; nothing to deny.
		return nil
	}
	return r.client.Set(ctx, revokedRefreshPrefix+tokenID, "1", ttl).Err()
}

func (r *redisRevocationRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	exists, err := r.client.Exists(ctx, revokedRefreshPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

type memoryRevocationRepository struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewMemoryRevocationRepository returns an in-process implementation used in
// tests and single-node deployments without Redis.
func NewMemoryRevocationRepository() RevocationRepository {
	return &memoryRevocationRepository{entries: make(map[string]time.Time)}
}

func (r *memoryRevocationRepository) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[tokenID] = time.Now().Add(ttl)
	return nil
}

func (r *memoryRevocationRepository) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.RLock()
	deadline, ok := r.entries[tokenID]
	r.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(deadline) {
		r.mu.Lock()
		delete(r.entries, tokenID)
		r.mu.Unlock()
		return false, nil
	}
	return true, nil
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryRevocationRepository(t *testing.T) {
	repo := NewMemoryRevocationRepository()
	ctx := context.Background()

	revoked, err := repo.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, repo.Revoke(ctx, "token-a", time.Hour))

	revoked, err = repo.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestMemoryRevocationRepositoryExpiry(t *testing.T) {
	repo := NewMemoryRevocationRepository()
	ctx := context.Background()

	require.NoError(t, repo.Revoke(ctx, "token-b", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	revoked, err := repo.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestMemoryRevocationRepositoryIgnoresExpiredTTL(t *testing.T) {
	repo := NewMemoryRevocationRepository()
	ctx := context.Background()

	// A token past its own expiry needs no denylist entry.
	require.NoError(t, repo.Revoke(ctx, "token-c", -time.Minute))

	revoked, err := repo.IsRevoked(ctx, "token-c")
	require.NoError(t, err)
	require.False(t, revoked)
}

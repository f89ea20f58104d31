package auth

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medstore/internal/cache"
)

func TestTokenStore_NoRedisNeverRevoked(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "abc", time.Minute))
	assert.False(t, store.IsRevoked(ctx, "abc"))
}

func TestTokenStore_Redis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	c := cache.New(addr, "", 0)
	defer c.Close()

	ctx := context.Background()
	if err := c.Ping(ctx); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	store := NewTokenStore(c)
	id := uuid.New().String()

	assert.False(t, store.IsRevoked(ctx, id))
	require.NoError(t, store.Revoke(ctx, id, time.Minute))
	assert.True(t, store.IsRevoked(ctx, id))

	expired := uuid.New().String()
	require.NoError(t, store.Revoke(ctx, expired, -time.Second))
	assert.False(t, store.IsRevoked(ctx, expired))
}

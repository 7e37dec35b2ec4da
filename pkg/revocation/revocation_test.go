package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewInMemoryStore()
	store.now = func() time.Time { return now }

	revoked, err := store.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "a", now.Add(time.Hour)))
	require.NoError(t, store.Revoke(ctx, "stale", now.Add(-time.Minute)))

	revoked, err = store.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Equal(t, 1, store.Len())

	now = now.Add(2 * time.Hour)
	revoked, err = store.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "b", now.Add(time.Hour)))
	assert.Equal(t, 1, store.Len(), "expired entries are pruned on write")
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	now := time.Now()
	store := NewRedisStore(client)
	store.now = func() time.Time { return now }

	revoked, err := store.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "a", now.Add(time.Minute)))
	require.NoError(t, store.Revoke(ctx, "stale", now.Add(-time.Minute)))

	revoked, err = store.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.False(t, mr.Exists("revoked:stale"))
	assert.Equal(t, time.Minute, mr.TTL("revoked:a"))

	mr.FastForward(2 * time.Minute)
	revoked, err = store.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	store := NewRedisStore(client)
	_, err := store.IsRevoked(context.Background(), "a")
	assert.Error(t, err)
	assert.Error(t, store.Revoke(context.Background(), "a", time.Now().Add(time.Minute)))
}

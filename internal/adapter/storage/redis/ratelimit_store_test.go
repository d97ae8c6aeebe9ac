package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitStore_UnderLimit(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewRateLimitStore(client)
	ctx := context.Background()

	result, err := store.Allow(ctx, "ip:10.0.0.1", 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, int64(5), result.Limit)
	assert.Equal(t, int64(4), result.Remaining)
	assert.Greater(t, result.ResetAt, int64(0))
}

func TestRateLimitStore_AtLimit(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewRateLimitStore(client)
	ctx := context.Background()

	const limit = 3
	for i := 0; i < limit; i++ {
		result, err := store.Allow(ctx, "ip:10.0.0.2", limit, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d should be allowed", i+1)
	}

	// The (limit+1)th request in the same window is denied
	result, err := store.Allow(ctx, "ip:10.0.0.2", limit, time.Minute)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, int64(0), result.Remaining)
}

func TestRateLimitStore_KeysAreIndependent(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewRateLimitStore(client)
	ctx := context.Background()

	// Exhaust one key
	for i := 0; i < 2; i++ {
		_, err := store.Allow(ctx, "ip:10.0.0.3", 1, time.Minute)
		require.NoError(t, err)
	}

	// A different key still has its own budget
	result, err := store.Allow(ctx, "ip:10.0.0.4", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestRateLimitStore_CounterExpires(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewRateLimitStore(client)
	ctx := context.Background()

	result, err := store.Allow(ctx, "ip:10.0.0.5", 10, 2*time.Second)
	require.NoError(t, err)
	assert.True(t, result.Allowed)

	// The backing counter carries an expiry so windows clean themselves up.
	s.FastForward(5 * time.Second)
	assert.Equal(t, 0, len(s.Keys()))
}

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) (*miniredis.Miniredis, CacheRepositoryInterface) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedisCacheRepository(client)
}

func TestCacheGetMiss(t *testing.T) {
	_, cache := setupTestCache(t)

	_, err := cache.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCacheSetGetExpire(t *testing.T) {
	mr, cache := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "appeals:page", `{"items":[]}`, time.Minute))
	val, err := cache.Get(ctx, "appeals:page")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, val)

	mr.FastForward(2 * time.Minute)
	_, err = cache.Get(ctx, "appeals:page")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCacheCounter(t *testing.T) {
	mr, cache := setupTestCache(t)
	ctx := context.Background()

	n, err := cache.Incr(ctx, "login_attempts:a@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, cache.Expire(ctx, "login_attempts:a@example.com", 15*time.Minute))
	assert.Equal(t, 15*time.Minute, mr.TTL("login_attempts:a@example.com"))

	n, err = cache.Incr(ctx, "login_attempts:a@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, cache.Del(ctx, "login_attempts:a@example.com"))
	assert.False(t, mr.Exists("login_attempts:a@example.com"))
}

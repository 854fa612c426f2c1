package cache

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"friendsapp/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedUser struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = Close() })
	return mr
}

func TestAside_FetchesOnceThenHits(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	load := func(dest *cachedUser) func() error {
		return func() error {
			calls++
			*dest = cachedUser{ID: 7, Name: "ada"}
			return nil
		}
	}

	var first cachedUser
	require.NoError(t, Aside(ctx, UserKey(7), &first, UserTTL, load(&first)))
	var second cachedUser
	require.NoError(t, Aside(ctx, UserKey(7), &second, UserTTL, load(&second)))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("user:7"))
	assert.Equal(t, UserTTL, mr.TTL("user:7"))
}

func TestAside_FetchErrorIsNotCached(t *testing.T) {
	mr := setupMiniredis(t)

	var u cachedUser
	err := Aside(context.Background(), UserKey(1), &u, time.Minute, func() error {
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.False(t, mr.Exists("user:1"))
}

func TestAside_WithoutRedisCallsFetch(t *testing.T) {
	SetClient(nil)

	calls := 0
	var u cachedUser
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(context.Background(), UserKey(1), &u, time.Minute, func() error {
			calls++
			return nil
		}))
	}
	assert.Equal(t, 2, calls)
}

func TestInvalidateUser(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(3), cachedUser{ID: 3}, time.Minute))
	InvalidateUser(ctx, 3)
	assert.False(t, mr.Exists("user:3"))

	var u cachedUser
	hit, err := GetJSON(ctx, UserKey(3), &u)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInitRedis_UnreachableLeavesClientNil(t *testing.T) {
	InitRedis("redis://127.0.0.1:1/0")
	assert.Nil(t, GetClient())

	InitRedis("://bad")
	assert.Nil(t, GetClient())
}

func TestInitRedis_LogsThroughStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := middleware.Logger
	middleware.Logger = middleware.NewLogger(&buf, "production", "info")
	t.Cleanup(func() {
		middleware.Logger = prev
		_ = Close()
	})

	InitRedis("redis://localhost:6379/not-a-db")
	assert.Nil(t, GetClient())
	assert.Contains(t, buf.String(), `"msg":"invalid REDIS_URL, continuing without Redis"`)

	buf.Reset()
	InitRedis("127.0.0.1:1")
	assert.Nil(t, GetClient())
	assert.Contains(t, buf.String(), `"msg":"Redis unreachable, continuing without Redis"`)
	assert.Contains(t, buf.String(), `"addr":"127.0.0.1:1"`)

	buf.Reset()
	mr := miniredis.RunT(t)
	InitRedis(mr.Addr())
	assert.NotNil(t, GetClient())
	assert.Contains(t, buf.String(), `"msg":"Redis connected"`)
}

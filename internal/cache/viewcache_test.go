package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryViewCacheSetGet(t *testing.T) {
	c := NewMemoryViewCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "user:1:overview", testPayload{Name: "a", Count: 2}, time.Minute))

	var got testPayload
	hit, err := c.Get(ctx, "user:1:overview", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, testPayload{Name: "a", Count: 2}, got)
}

func TestMemoryViewCacheMissOnUnknownKey(t *testing.T) {
	c := NewMemoryViewCache()

	var got testPayload
	hit, err := c.Get(context.Background(), "user:1:overview", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

// 失效是单向的：标记之后绝不会再把旧值当命中返回
func TestMemoryViewCacheInvalidateIsOneWay(t *testing.T) {
	c := NewMemoryViewCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "user:1:overview", testPayload{Name: "stale"}, time.Minute))
	require.NoError(t, c.Invalidate(ctx, "user:1:overview"))

	var got testPayload
	hit, err := c.Get(ctx, "user:1:overview", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	// 重复失效同一个键是无害的空操作
	require.NoError(t, c.Invalidate(ctx, "user:1:overview"))
	require.NoError(t, c.Invalidate(ctx, "user:1:overview"))

	hit, err = c.Get(ctx, "user:1:overview", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryViewCacheSetAfterInvalidateHitsAgain(t *testing.T) {
	c := NewMemoryViewCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "user:1:overview", testPayload{Count: 1}, time.Minute))
	require.NoError(t, c.Invalidate(ctx, "user:1:overview"))
	require.NoError(t, c.Set(ctx, "user:1:overview", testPayload{Count: 2}, time.Minute))

	var got testPayload
	hit, err := c.Get(ctx, "user:1:overview", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 2, got.Count)
}

func TestMemoryViewCacheTTLExpiry(t *testing.T) {
	c := NewMemoryViewCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "user:1:overview", testPayload{Count: 1}, -time.Second))

	var got testPayload
	hit, err := c.Get(ctx, "user:1:overview", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryViewCacheInvalidateUnknownKey(t *testing.T) {
	c := NewMemoryViewCache()
	// 失效不存在的键不报错
	require.NoError(t, c.Invalidate(context.Background(), "user:99:overview"))
}

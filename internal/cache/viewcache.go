// Package cache 维护派生视图的缓存与失效。
//
// 失效是单向的：键一旦被标记过期，下一次读取必然未命中并触发重算，
// 绝不会把过期值当命中返回。重复失效同一个键是无害的空操作。
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "viewcache:"

// ViewCache 派生视图缓存。值以 JSON 序列化存取。
type ViewCache interface {
	// Get 命中时反序列化到 dest 并返回 true；未命中或已失效返回 false
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Invalidate 把若干键标记为"下次访问必须重算"
	Invalidate(ctx context.Context, keys ...string) error
}

// RedisViewCache go-redis 实现，多实例部署时共享失效
type RedisViewCache struct {
	rdb *redis.Client
}

func NewRedisViewCache(rdb *redis.Client) *RedisViewCache {
	return &RedisViewCache{rdb: rdb}
}

func (c *RedisViewCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := c.rdb.Get(ctx, redisKeyPrefix+key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		// 序列化格式变更后留下的旧值，按未命中处理并清掉
		c.rdb.Del(ctx, redisKeyPrefix+key)
		return false, nil
	}
	return true, nil
}

func (c *RedisViewCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, redisKeyPrefix+key, data, ttl).Err()
}

func (c *RedisViewCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = redisKeyPrefix + k
	}
	return c.rdb.Del(ctx, prefixed...).Err()
}

package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
	stale     bool
}

// MemoryViewCache 进程内实现，用于单机部署和单元测试。
// 失效通过每条目的单向 stale 标记实现，重新 Set 之前不会再被命中。
type MemoryViewCache struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
}

func NewMemoryViewCache() *MemoryViewCache {
	return &MemoryViewCache{entries: make(map[string]*memoryEntry)}
}

func (c *MemoryViewCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || entry.stale || time.Now().After(entry.expiresAt) {
		return false, nil
	}

	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, nil
	}
	return true, nil
}

func (c *MemoryViewCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.entries[key] = &memoryEntry{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
	return nil
}

func (c *MemoryViewCache) Invalidate(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	for _, key := range keys {
		if entry, ok := c.entries[key]; ok {
			entry.stale = true
		}
	}
	c.mu.Unlock()
	return nil
}

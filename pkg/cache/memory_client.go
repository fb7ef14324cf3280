package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryClient is a process-local Client used in tests and when no redis is
// configured. Counter semantics match redis: Incr on a missing key starts
// from zero, Expire is a no-op on missing keys.
type MemoryClient struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		entries: make(map[string]memoryEntry),
	}
}

func (c *MemoryClient) get(key string) ([]byte, bool) {
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if e.expired(time.Now()) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *MemoryClient) GetJSON(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	raw, ok := c.get(key)
	c.mu.Unlock()
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *MemoryClient) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e := memoryEntry{value: raw}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	c.entries[key] = e
	return nil
}

func (c *MemoryClient) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func (c *MemoryClient) addInt(key string, delta int64) (int64, error) {
	raw, ok := c.get(key)
	var n int64
	if ok {
		parsed, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return 0, err
		}
		n = parsed
	}
	n += delta
	e := c.entries[key]
	e.value = []byte(strconv.FormatInt(n, 10))
	c.entries[key] = e
	return n, nil
}

func (c *MemoryClient) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addInt(key, 1)
}

func (c *MemoryClient) IncrBy(ctx context.Context, key string, n int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addInt(key, n)
}

func (c *MemoryClient) Decr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addInt(key, -1)
}

func (c *MemoryClient) Expire(ctx context.Context, key string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	e.expiresAt = time.Now().Add(ttl)
	c.entries[key] = e
	return nil
}

func (c *MemoryClient) Available(ctx context.Context) bool {
	return true
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMemoryClientJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	err := c.SetJSON(ctx, "k", payload{Name: "widget", Count: 3}, time.Minute)
	assert.NoError(t, err)

	var got payload
	err = c.GetJSON(ctx, "k", &got)
	assert.NoError(t, err)
	assert.Equal(t, "widget", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestMemoryClientMissReturnsErrCacheMiss(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient()

	var got string
	err := c.GetJSON(ctx, "absent", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryClientExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient()

	err := c.SetJSON(ctx, "short", "v", 10*time.Millisecond)
	assert.NoError(t, err)

	time.Sleep(30 * time.Millisecond)

	var got string
	err = c.GetJSON(ctx, "short", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryClientCounters(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient()

	n, err := c.Incr(ctx, "cnt")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.IncrBy(ctx, "cnt", 5)
	assert.NoError(t, err)
	assert.Equal(t, int64(6), n)

	n, err = c.Decr(ctx, "cnt")
	assert.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestMemoryClientDel(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient()

	_ = c.SetJSON(ctx, "a", 1, 0)
	_ = c.SetJSON(ctx, "b", 2, 0)

	err := c.Del(ctx, "a", "b")
	assert.NoError(t, err)

	var got int
	assert.ErrorIs(t, c.GetJSON(ctx, "a", &got), ErrCacheMiss)
	assert.ErrorIs(t, c.GetJSON(ctx, "b", &got), ErrCacheMiss)
}

func TestQuotaKeyUsesUTCDay(t *testing.T) {
	userId := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	// 23:30 in UTC-5 is already the next day in UTC.
	loc := time.FixedZone("UTC-5", -5*3600)
	at := time.Date(2025, 3, 1, 23, 30, 0, 0, loc)

	key := QuotaKey(userId, at)
	assert.Equal(t, "quota:6ba7b810-9dad-11d1-80b4-00c04fd430c8:2025-03-02", key)
}

func TestMessagePageKeyIncludesGeneration(t *testing.T) {
	convId := uuid.New()
	k1 := MessagePageKey(convId, 1, "", 50)
	k2 := MessagePageKey(convId, 2, "", 50)
	assert.NotEqual(t, k1, k2)
}

package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache[int](time.Minute, 0)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestCache_NilIsNoop(t *testing.T) {
	var c *Cache[string]
	c.Set("k", "v")
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
	c.Close()
}

func TestCache_ClearAndClose(t *testing.T) {
	c := NewCache[string](time.Hour, 10*time.Millisecond)
	c.Set("k", "v")
	c.Clear()
	assert.Equal(t, 0, c.Len())
	c.Close()
	c.Close()
}

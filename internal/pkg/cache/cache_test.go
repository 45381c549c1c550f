package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetGet(t *testing.T) {
	c := New[string](time.Minute, "test", nil)

	c.Set("k", "v")
	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestGetMissing(t *testing.T) {
	c := New[int](time.Minute, "test", nil)

	_, ok := c.Get("absent")
	assert.False(t, ok)

	m := c.GetMetrics()
	assert.Equal(t, int64(1), m.Misses)
}

func TestExpiration(t *testing.T) {
	c := New[string](10*time.Millisecond, "test", nil)

	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	c := New[string](time.Minute, "test", nil)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Clear()

	_, ok := c.Get("a")
	assert.False(t, ok)
}

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetFromCache(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)
	c.Set("analytics:sentiment", []string{"positive"}, time.Minute)

	val, ok := GetFromCache[[]string](c, "analytics:sentiment")
	assert.True(t, ok)
	assert.Equal(t, []string{"positive"}, val)

	_, ok = GetFromCache[int](c, "analytics:sentiment")
	assert.False(t, ok, "wrong type must miss")

	_, ok = GetFromCache[[]string](c, "missing")
	assert.False(t, ok)

	_, ok = GetFromCache[[]string](nil, "analytics:sentiment")
	assert.False(t, ok)
}

func TestDeletePrefix(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)
	c.Set("analytics:a", 1, time.Minute)
	c.Set("analytics:b", 2, time.Minute)
	c.Set("brands:learned", 3, time.Minute)

	assert.Equal(t, 2, c.DeletePrefix("analytics:"))

	_, ok := c.Get("analytics:a")
	assert.False(t, ok)
	_, ok = c.Get("brands:learned")
	assert.True(t, ok)
}

// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestCacheExpiry_GetAfterExpiry verifies entries expire correctly.
func TestCacheExpiry_GetAfterExpiry(t *testing.T) {
	t.Parallel()
	synctest.Test(t, func(t *testing.T) {
		expiry := 100 * time.Millisecond

		c := New[string, string](WithExpiry[string, string](expiry))
		defer c.Stop()

		c.Set("key1", "value1")

		val, ok := c.Get("key1")
		assert.True(t, ok)
		assert.Equal(t, "value1", val)

		// Get refreshes the access time.
		time.Sleep(50 * time.Millisecond)
		_, ok = c.Get("key1")
		assert.True(t, ok)

		time.Sleep(expiry + 10*time.Millisecond)
		_, ok = c.Get("key1")
		assert.False(t, ok, "entry should be expired")
	})
}

// TestCacheExpiry_CleanupTimer verifies background cleanup removes entries.
func TestCacheExpiry_CleanupTimer(t *testing.T) {
	t.Parallel()
	synctest.Test(t, func(t *testing.T) {
		expiry := 50 * time.Millisecond

		c := New[string, int](WithExpiry[string, int](expiry))
		defer c.Stop()

		c.Set("a", 1)
		c.Set("b", 2)
		assert.Equal(t, 2, c.Size())

		time.Sleep(2*expiry + 10*time.Millisecond)
		synctest.Wait()

		assert.Equal(t, 0, c.Size())
	})
}

func TestCacheMaxSize_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()
	synctest.Test(t, func(t *testing.T) {
		c := New[string, int](WithMaxSize[string, int](2))
		defer c.Stop()

		c.Set("a", 1)
		time.Sleep(time.Millisecond)
		c.Set("b", 2)
		time.Sleep(time.Millisecond)
		_, _ = c.Get("a")
		time.Sleep(time.Millisecond)
		c.Set("c", 3)

		_, okA := c.Get("a")
		_, okB := c.Get("b")
		_, okC := c.Get("c")
		assert.True(t, okA)
		assert.False(t, okB, "b was least recently used")
		assert.True(t, okC)
	})
}

func TestCacheDelete(t *testing.T) {
	t.Parallel()
	c := New[string, int]()
	defer c.Stop()

	c.Set("a", 1)
	c.Delete("a")

	_, ok := c.Get("a")
	assert.False(t, ok)
}

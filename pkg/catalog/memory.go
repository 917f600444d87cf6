// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"time"

	"github.com/LeeDigitalWorks/zapmedia/pkg/cache"
	"github.com/LeeDigitalWorks/zapmedia/pkg/media"
)

// MemoryIndex is a process-local Index backed by an LRU/TTL cache.
type MemoryIndex struct {
	entries *cache.Cache[string, media.Category]
}

// NewMemoryIndex creates a MemoryIndex. Zero values disable the bound.
func NewMemoryIndex(maxEntries int, ttl time.Duration) *MemoryIndex {
	return &MemoryIndex{
		entries: cache.New(
			cache.WithMaxSize[string, media.Category](maxEntries),
			cache.WithExpiry[string, media.Category](ttl),
		),
	}
}

func (m *MemoryIndex) Lookup(_ context.Context, id string) (media.Category, bool, error) {
	c, ok := m.entries.Get(id)
	return c, ok, nil
}

func (m *MemoryIndex) LookupMany(_ context.Context, ids []string) (map[string]media.Category, error) {
	out := make(map[string]media.Category, len(ids))
	for _, id := range ids {
		if c, ok := m.entries.Get(id); ok {
			out[id] = c
		}
	}
	return out, nil
}

func (m *MemoryIndex) Record(_ context.Context, id string, c media.Category) error {
	if id == "" || !c.Resolved() {
		return nil
	}
	m.entries.Set(id, c)
	return nil
}

func (m *MemoryIndex) Forget(_ context.Context, ids ...string) error {
	for _, id := range ids {
		m.entries.Delete(id)
	}
	return nil
}

// Close stops the background expiry timer.
func (m *MemoryIndex) Close() error {
	m.entries.Stop()
	return nil
}

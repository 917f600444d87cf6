// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalog remembers the category each asset was uploaded under.
//
// The store requires delete and info calls to name an asset's true category
// but offers no cheap way to ask for it. The uploader records the category
// here so later operations can start from a known answer instead of the
// identifier heuristic. Entries are advisory: a stale or missing entry only
// costs an extra probe.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/LeeDigitalWorks/zapmedia/pkg/media"
)

// Index maps asset identifiers to their upload-time category.
type Index interface {
	// Lookup returns the recorded category of id, if any.
	Lookup(ctx context.Context, id string) (media.Category, bool, error)

	// LookupMany returns the recorded categories of ids. Unknown ids are
	// absent from the result.
	LookupMany(ctx context.Context, ids []string) (map[string]media.Category, error)

	// Record stores the category of id. Unresolved categories are ignored.
	Record(ctx context.Context, id string, c media.Category) error

	// Forget removes ids from the index.
	Forget(ctx context.Context, ids ...string) error
}

// Config selects and configures an Index implementation.
type Config struct {
	// Type is one of "none", "memory" or "redis".
	Type string `mapstructure:"type"`

	// TTL bounds how long an entry is kept. Zero keeps entries forever.
	TTL time.Duration `mapstructure:"ttl"`

	// MaxEntries bounds the memory index. Zero means unlimited.
	MaxEntries int `mapstructure:"max_entries"`

	Redis RedisConfig `mapstructure:"redis"`
}

// DefaultConfig returns an index that records nothing.
func DefaultConfig() Config {
	return Config{
		Type:       "none",
		TTL:        30 * 24 * time.Hour,
		MaxEntries: 100000,
		Redis:      DefaultRedisConfig(),
	}
}

// New creates the index described by cfg.
func New(ctx context.Context, cfg Config) (Index, error) {
	switch cfg.Type {
	case "", "none":
		return Nop{}, nil
	case "memory":
		return NewMemoryIndex(cfg.MaxEntries, cfg.TTL), nil
	case "redis":
		redisCfg := cfg.Redis
		if redisCfg.TTL == 0 {
			redisCfg.TTL = cfg.TTL
		}
		return NewRedisIndex(ctx, redisCfg)
	default:
		return nil, fmt.Errorf("unsupported category index type: %s", cfg.Type)
	}
}

// Nop is an Index that never knows anything.
type Nop struct{}

func (Nop) Lookup(context.Context, string) (media.Category, bool, error) {
	return "", false, nil
}

func (Nop) LookupMany(context.Context, []string) (map[string]media.Category, error) {
	return map[string]media.Category{}, nil
}

func (Nop) Record(context.Context, string, media.Category) error { return nil }

func (Nop) Forget(context.Context, ...string) error { return nil }

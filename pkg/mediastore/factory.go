// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package mediastore builds the media.Store selected by configuration.
package mediastore

import (
	"context"
	"fmt"

	"github.com/LeeDigitalWorks/zapmedia/pkg/media"
	"github.com/LeeDigitalWorks/zapmedia/pkg/mediastore/cloud"
	"github.com/LeeDigitalWorks/zapmedia/pkg/mediastore/memory"
	"github.com/LeeDigitalWorks/zapmedia/pkg/mediastore/s3store"
	"github.com/LeeDigitalWorks/zapmedia/pkg/s3client"
)

const (
	TypeCloud  = "cloud"
	TypeS3     = "s3"
	TypeMemory = "memory"
)

// Config holds store configuration.
type Config struct {
	Type  string         `mapstructure:"type"`
	Cloud cloud.Config   `mapstructure:"cloud"`
	S3    s3store.Config `mapstructure:"s3"`
	// MemoryBaseURL prefixes secure URLs handed out by the memory store.
	MemoryBaseURL string `mapstructure:"memory_base_url"`
}

// DefaultConfig returns the default configuration (the remote cloud store).
func DefaultConfig() Config {
	return Config{
		Type: TypeCloud,
		Cloud: cloud.Config{
			APIBase:  cloud.DefaultAPIBase,
			Timeout:  cloud.DefaultTimeout,
			AdminRPS: cloud.DefaultAdminRPS,
		},
		S3: s3store.Config{
			Client: s3client.Config{Region: "us-east-1"},
		},
	}
}

// New creates a store based on configuration. pool is only used by the s3
// store and may be nil otherwise.
func New(ctx context.Context, cfg Config, pool *s3client.Pool) (media.Store, error) {
	switch cfg.Type {
	case "", TypeCloud:
		return cloud.New(cfg.Cloud)

	case TypeS3:
		if pool == nil {
			pool = s3client.NewPool(0, 0)
		}
		return s3store.New(ctx, pool, cfg.S3)

	case TypeMemory:
		return memory.New(cfg.MemoryBaseURL), nil

	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
	}
}

// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package asset implements the media asset operations used by the route
// and settings layers: uploads with composed optimization pipelines,
// deletes and lookups that recover from category mismatches by probing,
// and expression search.
package asset

import (
	"context"
	"path"
	"strings"

	"github.com/LeeDigitalWorks/zapmedia/pkg/catalog"
	zctx "github.com/LeeDigitalWorks/zapmedia/pkg/context"
	"github.com/LeeDigitalWorks/zapmedia/pkg/logger"
	"github.com/LeeDigitalWorks/zapmedia/pkg/media"
)

const (
	DefaultRootFolder       = "minhloc"
	DefaultGroupConcurrency = 3
	DefaultImageMaxWidth    = 1920
)

// Config holds the collaborators and limits shared by every component.
type Config struct {
	// Store is the remote media store. Required.
	Store media.Store

	// Index remembers upload-time categories. Optional; defaults to an
	// index that knows nothing, leaving only the identifier heuristic.
	Index catalog.Index

	// RootFolder namespaces every upload.
	RootFolder string

	// DeliveryBase and CloudName build delivery URLs.
	DeliveryBase string
	CloudName    string

	// BatchSize is the store's per-call identifier limit.
	BatchSize int

	// GroupConcurrency bounds parallel category-group calls in batch
	// operations.
	GroupConcurrency int

	// ImageMaxWidth is the resize limit pinned by the image preset.
	ImageMaxWidth int

	Policy Policy
}

func (c *Config) validate() error {
	if c.Store == nil {
		return media.ValidationError("config", "Store is required")
	}
	if c.Index == nil {
		c.Index = catalog.Nop{}
	}
	if c.RootFolder == "" {
		c.RootFolder = DefaultRootFolder
	}
	c.RootFolder = strings.Trim(c.RootFolder, "/")
	if c.BatchSize <= 0 || c.BatchSize > media.DefaultMaxBatchSize {
		c.BatchSize = media.DefaultMaxBatchSize
	}
	if c.GroupConcurrency <= 0 {
		c.GroupConcurrency = DefaultGroupConcurrency
	}
	if c.ImageMaxWidth <= 0 {
		c.ImageMaxWidth = DefaultImageMaxWidth
	}
	return nil
}

// qualify places folder under the root namespace. Folders already under
// the root are left alone.
func qualify(root, folder string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return root
	}
	if folder == root || strings.HasPrefix(folder, root+"/") {
		return folder
	}
	return path.Join(root, folder)
}

// begin starts a named operation and tags ctx with its request id for log
// correlation.
func begin(ctx context.Context, name string) (context.Context, *zctx.Operation) {
	ctx, op := zctx.WithOperation(ctx, name)
	return logger.WithFields(ctx, "request_id", op.RequestID, "op", name), op
}

// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package asset

import (
	"context"
	"io"

	"github.com/LeeDigitalWorks/zapmedia/pkg/media"
)

// Manager is the facade exposed to route and settings handlers.
type Manager struct {
	uploader *Uploader
	eraser   *Eraser
	lookup   *Lookup
	searcher *Searcher
	delivery *media.Delivery
}

// New wires every component from one configuration.
func New(cfg Config) (*Manager, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	uploader, err := NewUploader(cfg)
	if err != nil {
		return nil, err
	}
	eraser, err := NewEraser(cfg)
	if err != nil {
		return nil, err
	}
	lookup, err := NewLookup(cfg)
	if err != nil {
		return nil, err
	}
	searcher, err := NewSearcher(cfg)
	if err != nil {
		return nil, err
	}
	return &Manager{
		uploader: uploader,
		eraser:   eraser,
		lookup:   lookup,
		searcher: searcher,
		delivery: media.NewDelivery(cfg.DeliveryBase, cfg.CloudName),
	}, nil
}

func (m *Manager) Upload(ctx context.Context, body io.Reader, opts media.UploadOptions) (*media.AssetDescriptor, error) {
	return m.uploader.Upload(ctx, body, opts)
}

func (m *Manager) UploadImage(ctx context.Context, body io.Reader, opts media.UploadOptions) (*media.AssetDescriptor, error) {
	return m.uploader.UploadImage(ctx, body, opts)
}

func (m *Manager) UploadDocument(ctx context.Context, body io.Reader, opts media.UploadOptions) (*media.AssetDescriptor, error) {
	return m.uploader.UploadDocument(ctx, body, opts)
}

// DeleteFile deletes one asset. An empty category means "unknown".
func (m *Manager) DeleteFile(ctx context.Context, id string, c media.Category) (*media.DeleteOutcome, error) {
	return m.eraser.DeleteOne(ctx, id, c)
}

func (m *Manager) DeleteFiles(ctx context.Context, ids []string, c media.Category) (*media.BatchDeleteOutcome, error) {
	return m.eraser.DeleteMany(ctx, ids, c)
}

func (m *Manager) DeleteFolder(ctx context.Context, prefix string, c media.Category) (*media.BatchDeleteOutcome, error) {
	return m.eraser.DeleteByPrefix(ctx, prefix, c)
}

func (m *Manager) GetFileInfo(ctx context.Context, id string, c media.Category) (*media.ResourceInfo, error) {
	return m.lookup.GetOne(ctx, id, c)
}

func (m *Manager) GetFilesInfo(ctx context.Context, ids []string, c media.Category) (*media.LookupResult, error) {
	return m.lookup.GetMany(ctx, ids, c)
}

func (m *Manager) SearchResources(ctx context.Context, expr string, opts media.SearchOptions) (*media.SearchResult, error) {
	return m.searcher.Search(ctx, expr, opts)
}

// OptimizedURL builds a delivery URL without any I/O.
func (m *Manager) OptimizedURL(id string, overrides ...media.Directive) string {
	return m.delivery.OptimizedURL(id, overrides...)
}

// ThumbnailURL builds a square thumbnail URL without any I/O.
func (m *Manager) ThumbnailURL(id string, size int) string {
	return m.delivery.ThumbnailURL(id, size)
}

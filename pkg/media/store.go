// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package media

import (
	"context"
	"io"
	"time"
)

// Store is the remote media-store API this layer is built on.
//
// Implementations must return an error satisfying IsNotFound when a
// destroy or info call names a category the asset does not live under, and
// must pass context errors through unwrapped so callers can tell a
// cancelled call from a definitive answer.
type Store interface {
	// Upload streams Body to the store.
	Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error)

	// Destroy deletes a single asset.
	Destroy(ctx context.Context, id string, c Category) error

	// DeleteResources deletes up to MaxBatchSize assets of one category.
	DeleteResources(ctx context.Context, ids []string, c Category) (*DeleteResourcesResult, error)

	// DeleteByPrefix deletes every asset of one category under prefix.
	DeleteByPrefix(ctx context.Context, prefix string, c Category) (*DeleteResourcesResult, error)

	// Resource fetches metadata for one asset.
	Resource(ctx context.Context, id string, c Category, fields InfoFields) (*ResourceInfo, error)

	// ResourcesByIDs fetches metadata for up to MaxBatchSize assets of one
	// category. Unknown ids are silently omitted.
	ResourcesByIDs(ctx context.Context, ids []string, c Category) ([]ResourceInfo, error)

	// Search runs a store-native query expression.
	Search(ctx context.Context, req *SearchRequest) (*SearchResult, error)
}

// UploadRequest is a fully-resolved upload handed to the store.
type UploadRequest struct {
	Body            io.Reader
	Category        Category
	Folder          string
	PublicID        string
	Filename        string
	Tags            []string
	Transformations []Directive
	Extra           map[string]string
}

// UploadResult mirrors the store's upload response.
type UploadResult struct {
	PublicID     string   `json:"public_id"`
	SecureURL    string   `json:"secure_url"`
	ResourceType string   `json:"resource_type"`
	Bytes        int64    `json:"bytes"`
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	Format       string   `json:"format"`
	CreatedAt    string   `json:"created_at"`
	Version      int64    `json:"version"`
	ETag         string   `json:"etag"`
	Tags         []string `json:"tags"`
}

// Descriptor converts the raw response into an AssetDescriptor. Zero
// dimensions, as reported for raw files, become nil.
func (r *UploadResult) Descriptor() AssetDescriptor {
	d := AssetDescriptor{
		PublicID:  r.PublicID,
		SecureURL: r.SecureURL,
		Category:  Category(r.ResourceType),
		Bytes:     r.Bytes,
		Format:    r.Format,
		Version:   r.Version,
		ETag:      r.ETag,
		Tags:      r.Tags,
	}
	if r.Width > 0 {
		w := r.Width
		d.Width = &w
	}
	if r.Height > 0 {
		h := r.Height
		d.Height = &h
	}
	if t, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
		d.CreatedAt = t
	}
	return d
}

// DeleteResourcesResult mirrors the store's batch delete response.
type DeleteResourcesResult struct {
	// Deleted maps each identifier to StatusDeleted or StatusNotFound.
	Deleted map[string]string
	// Count is the number of assets actually removed.
	Count   int
	Partial bool
}

// InfoFields selects the optional analysis blocks of an info call.
type InfoFields struct {
	Colors                bool
	Faces                 bool
	QualityAnalysis       bool
	AccessibilityAnalysis bool
}

// ExtendedInfo requests every analysis block.
var ExtendedInfo = InfoFields{
	Colors:                true,
	Faces:                 true,
	QualityAnalysis:       true,
	AccessibilityAnalysis: true,
}

// SearchRequest is a search handed to the store.
type SearchRequest struct {
	Expression string
	SortBy     string
	Direction  SortDirection
	MaxResults int
	NextCursor string
	WithFields []string
}

// DefaultMaxBatchSize is the number of identifiers the store accepts per
// batch call.
const DefaultMaxBatchSize = 100

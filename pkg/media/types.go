// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package media

import "time"

// UploadOptions are the caller-facing knobs of a single upload.
type UploadOptions struct {
	// Folder is relative to the configured root namespace.
	Folder string
	// Category is an explicit category hint. Empty means "resolve it".
	Category Category
	// Format is the declared format (usually the file extension) used to
	// resolve the category when no hint is given.
	Format string
	// Transformations override the default optimization pipeline.
	Transformations []Directive
	Tags            []string
	// PublicID pins the identifier inside Folder. Empty lets the store
	// assign one.
	PublicID string
	// Filename is passed to the store as the original filename.
	Filename string
	// Extra fields are forwarded to the store untouched.
	Extra map[string]string
}

// AssetDescriptor is the canonical result of an upload. It is created once
// and never modified; the remote object is only replaced by delete and
// re-upload.
type AssetDescriptor struct {
	PublicID  string    `json:"public_id"`
	SecureURL string    `json:"secure_url"`
	Category  Category  `json:"resource_type"`
	Bytes     int64     `json:"bytes"`
	Width     *int      `json:"width,omitempty"`
	Height    *int      `json:"height,omitempty"`
	Format    string    `json:"format,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Version   int64     `json:"version,omitempty"`
	ETag      string    `json:"etag,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
}

// ColorShare is one entry of an image's predominant color palette.
type ColorShare struct {
	Hex     string  `json:"hex"`
	Percent float64 `json:"percent"`
}

// FaceRegion is a detected face bounding box in pixels.
type FaceRegion struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ResourceInfo is the metadata the store holds for an asset, including the
// extended analysis fields served to the admin media browser.
type ResourceInfo struct {
	AssetDescriptor
	Context               map[string]string `json:"context,omitempty"`
	Metadata              map[string]any    `json:"metadata,omitempty"`
	Colors                []ColorShare      `json:"colors,omitempty"`
	Faces                 []FaceRegion      `json:"faces,omitempty"`
	QualityAnalysis       map[string]any    `json:"quality_analysis,omitempty"`
	AccessibilityAnalysis map[string]any    `json:"accessibility_analysis,omitempty"`
}

// DeleteResult is the per-asset result of a delete.
type DeleteResult string

const (
	DeleteResultOK       DeleteResult = "ok"
	DeleteResultNotFound DeleteResult = "not_found"
)

// DeleteOutcome is the result of deleting one asset.
type DeleteOutcome struct {
	Result  DeleteResult `json:"result"`
	Partial bool         `json:"partial"`
}

// Status values the store reports per identifier in a batch delete.
const (
	StatusDeleted  = "deleted"
	StatusNotFound = "not_found"
)

// GroupFailure records a category group whose batch call failed. Its
// identifiers are absent from the merged result.
type GroupFailure struct {
	Category Category `json:"category"`
	IDs      []string `json:"ids"`
	Err      error    `json:"-"`
	Message  string   `json:"error"`
}

// BatchDeleteOutcome merges the results of one or more batch deletes.
type BatchDeleteOutcome struct {
	Deleted map[string]string `json:"deleted"`
	Counts  map[Category]int  `json:"deleted_counts"`
	Partial bool              `json:"partial"`
	Failed  []GroupFailure    `json:"failed,omitempty"`
}

// NewBatchDeleteOutcome returns an empty outcome ready for merging.
func NewBatchDeleteOutcome() *BatchDeleteOutcome {
	return &BatchDeleteOutcome{
		Deleted: make(map[string]string),
		Counts:  make(map[Category]int),
	}
}

// Merge folds a store batch result for category c into o.
func (o *BatchDeleteOutcome) Merge(c Category, r *DeleteResourcesResult) {
	if r == nil {
		return
	}
	for id, status := range r.Deleted {
		o.Deleted[id] = status
	}
	o.Counts[c] += r.Count
	if r.Partial {
		o.Partial = true
	}
}

// Fail records a failed group and marks the outcome partial.
func (o *BatchDeleteOutcome) Fail(c Category, ids []string, err error) {
	o.Partial = true
	o.Failed = append(o.Failed, GroupFailure{Category: c, IDs: ids, Err: err, Message: err.Error()})
}

// Total returns the number of assets reported deleted across categories.
func (o *BatchDeleteOutcome) Total() int {
	n := 0
	for _, c := range o.Counts {
		n += c
	}
	return n
}

// LookupResult is the merged result of a multi-asset info lookup.
type LookupResult struct {
	Resources []ResourceInfo `json:"resources"`
	Partial   bool           `json:"partial"`
	Failed    []GroupFailure `json:"failed,omitempty"`
}

// Fail records a failed group and marks the result partial.
func (r *LookupResult) Fail(c Category, ids []string, err error) {
	r.Partial = true
	r.Failed = append(r.Failed, GroupFailure{Category: c, IDs: ids, Err: err, Message: err.Error()})
}

// SortDirection orders search results.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SearchOptions control paging and ordering of a search.
type SearchOptions struct {
	SortBy     string
	Direction  SortDirection
	MaxResults int
	NextCursor string
}

// SearchResult is one page of search results.
type SearchResult struct {
	Resources  []ResourceInfo `json:"resources"`
	TotalCount int            `json:"total_count"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package memory implements media.Store in process memory. Like the real
// store it is strict about categories: an asset is only visible under the
// category it was uploaded with.
package memory

import (
	"context"
	"encoding/hex"
	"io"
	"maps"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/LeeDigitalWorks/zapmedia/pkg/media"

	"github.com/google/uuid"
	sha256 "github.com/minio/sha256-simd"
)

// Store is an in-memory media.Store.
type Store struct {
	mu      sync.RWMutex
	objects map[media.Category]map[string]*media.ResourceInfo

	baseURL string
	now     func() time.Time
}

var _ media.Store = (*Store)(nil)

// New creates an empty store. baseURL prefixes the secure URLs it hands out.
func New(baseURL string) *Store {
	if baseURL == "" {
		baseURL = "https://media.invalid"
	}
	return &Store{
		objects: map[media.Category]map[string]*media.ResourceInfo{
			media.CategoryImage: {},
			media.CategoryVideo: {},
			media.CategoryRaw:   {},
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

func (s *Store) Upload(ctx context.Context, req *media.UploadRequest) (*media.UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h := sha256.New()
	n, err := io.Copy(h, req.Body)
	if err != nil {
		return nil, err
	}

	c := req.Category
	if !c.Resolved() {
		c = media.ResolveForUpload("", path.Ext(req.Filename))
		if !c.Resolved() {
			c = media.CategoryRaw
		}
	}

	name := req.PublicID
	if name == "" {
		name = strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
	}
	id := name
	if req.Folder != "" {
		id = strings.Trim(req.Folder, "/") + "/" + name
	}

	_, format := media.EncodeTransformation(req.Transformations)
	if format == "" {
		format = strings.TrimPrefix(path.Ext(req.Filename), ".")
	}

	created := s.now().UTC()
	info := &media.ResourceInfo{
		AssetDescriptor: media.AssetDescriptor{
			PublicID:  id,
			SecureURL: s.baseURL + "/" + string(c) + "/upload/" + id,
			Category:  c,
			Bytes:     n,
			Format:    format,
			CreatedAt: created,
			Version:   created.Unix(),
			ETag:      hex.EncodeToString(h.Sum(nil)),
			Tags:      slices.Clone(req.Tags),
		},
	}
	if len(req.Extra) > 0 {
		info.Context = maps.Clone(req.Extra)
	}

	s.mu.Lock()
	s.objects[c][id] = info
	s.mu.Unlock()

	return &media.UploadResult{
		PublicID:     info.PublicID,
		SecureURL:    info.SecureURL,
		ResourceType: string(c),
		Bytes:        info.Bytes,
		Format:       info.Format,
		CreatedAt:    created.Format(time.RFC3339),
		Version:      info.Version,
		ETag:         info.ETag,
		Tags:         info.Tags,
	}, nil
}

func (s *Store) Destroy(ctx context.Context, id string, c media.Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.objects[c]
	if !ok {
		return media.NotFound("destroy", id, c)
	}
	if _, ok := bucket[id]; !ok {
		return media.NotFound("destroy", id, c)
	}
	delete(bucket, id)
	return nil
}

func (s *Store) DeleteResources(ctx context.Context, ids []string, c media.Category) (*media.DeleteResourcesResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res := &media.DeleteResourcesResult{Deleted: make(map[string]string, len(ids))}
	bucket := s.objects[c]
	for _, id := range ids {
		if _, ok := bucket[id]; ok {
			delete(bucket, id)
			res.Deleted[id] = media.StatusDeleted
			res.Count++
			continue
		}
		res.Deleted[id] = media.StatusNotFound
	}
	return res, nil
}

func (s *Store) DeleteByPrefix(ctx context.Context, prefix string, c media.Category) (*media.DeleteResourcesResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res := &media.DeleteResourcesResult{Deleted: make(map[string]string)}
	bucket := s.objects[c]
	for id := range bucket {
		if strings.HasPrefix(id, prefix) {
			delete(bucket, id)
			res.Deleted[id] = media.StatusDeleted
			res.Count++
		}
	}
	return res, nil
}

func (s *Store) Resource(ctx context.Context, id string, c media.Category, _ media.InfoFields) (*media.ResourceInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.objects[c][id]
	if !ok {
		return nil, media.NotFound("resource", id, c)
	}
	out := *info
	return &out, nil
}

func (s *Store) ResourcesByIDs(ctx context.Context, ids []string, c media.Category) ([]media.ResourceInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]media.ResourceInfo, 0, len(ids))
	for _, id := range ids {
		if info, ok := s.objects[c][id]; ok {
			out = append(out, *info)
		}
	}
	return out, nil
}

// Search evaluates the expression with media.Filter. The cursor is the
// offset of the next page.
func (s *Store) Search(ctx context.Context, req *media.SearchRequest) (*media.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filter, err := media.ParseFilter(req.Expression)
	if err != nil {
		return nil, media.ValidationError("search", err.Error())
	}

	s.mu.RLock()
	var matched []media.ResourceInfo
	for _, bucket := range s.objects {
		for _, info := range bucket {
			if filter.Match(info) {
				matched = append(matched, *info)
			}
		}
	}
	s.mu.RUnlock()

	return media.PageResults(matched, req)
}

// Len returns the number of stored assets, for tests.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, bucket := range s.objects {
		n += len(bucket)
	}
	return n
}

// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package asset

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/LeeDigitalWorks/zapmedia/pkg/media"
	"github.com/LeeDigitalWorks/zapmedia/pkg/mediastore/memory"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeStore wraps the memory store, counting calls and injecting failures.
type fakeStore struct {
	*memory.Store

	mu          sync.Mutex
	calls       map[string]int
	destroyed   []media.Category
	probed      []media.Category
	infoFields  []media.InfoFields
	batchCats   []media.Category
	uploads     []media.UploadRequest
	lastSearch  *media.SearchRequest
	failBatch   map[media.Category]error
	failUpload  error
	emptyUpload bool
	failSearch  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		Store:     memory.New("https://media.test"),
		calls:     map[string]int{},
		failBatch: map[media.Category]error{},
	}
}

func (f *fakeStore) count(method string) {
	f.mu.Lock()
	f.calls[method]++
	f.mu.Unlock()
}

func (f *fakeStore) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeStore) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeStore) Upload(ctx context.Context, req *media.UploadRequest) (*media.UploadResult, error) {
	f.count("upload")
	f.mu.Lock()
	f.uploads = append(f.uploads, *req)
	f.mu.Unlock()
	if f.failUpload != nil {
		return nil, f.failUpload
	}
	if f.emptyUpload {
		return &media.UploadResult{}, nil
	}
	return f.Store.Upload(ctx, req)
}

func (f *fakeStore) Destroy(ctx context.Context, id string, c media.Category) error {
	f.count("destroy")
	f.mu.Lock()
	f.destroyed = append(f.destroyed, c)
	f.mu.Unlock()
	return f.Store.Destroy(ctx, id, c)
}

func (f *fakeStore) DeleteResources(ctx context.Context, ids []string, c media.Category) (*media.DeleteResourcesResult, error) {
	f.count("delete_resources")
	f.mu.Lock()
	f.batchCats = append(f.batchCats, c)
	err := f.failBatch[c]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.Store.DeleteResources(ctx, ids, c)
}

func (f *fakeStore) DeleteByPrefix(ctx context.Context, prefix string, c media.Category) (*media.DeleteResourcesResult, error) {
	f.count("delete_by_prefix")
	return f.Store.DeleteByPrefix(ctx, prefix, c)
}

func (f *fakeStore) Resource(ctx context.Context, id string, c media.Category, fields media.InfoFields) (*media.ResourceInfo, error) {
	f.count("resource")
	f.mu.Lock()
	f.probed = append(f.probed, c)
	f.infoFields = append(f.infoFields, fields)
	f.mu.Unlock()
	return f.Store.Resource(ctx, id, c, fields)
}

func (f *fakeStore) ResourcesByIDs(ctx context.Context, ids []string, c media.Category) ([]media.ResourceInfo, error) {
	f.count("resources_by_ids")
	f.mu.Lock()
	f.batchCats = append(f.batchCats, c)
	err := f.failBatch[c]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.Store.ResourcesByIDs(ctx, ids, c)
}

func (f *fakeStore) Search(ctx context.Context, req *media.SearchRequest) (*media.SearchResult, error) {
	f.count("search")
	f.mu.Lock()
	cp := *req
	f.lastSearch = &cp
	f.mu.Unlock()
	if f.failSearch != nil {
		return nil, f.failSearch
	}
	return f.Store.Search(ctx, req)
}

// seed stores id under category c directly, bypassing call counting.
func (f *fakeStore) seed(t *testing.T, c media.Category, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := f.Store.Upload(context.Background(), &media.UploadRequest{
			Body:     strings.NewReader("payload-" + id),
			Category: c,
			PublicID: id,
		})
		require.NoError(t, err)
	}
}

var errBoom = errors.New("boom")

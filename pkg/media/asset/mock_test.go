// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package asset

import (
	"context"

	"github.com/LeeDigitalWorks/zapmedia/pkg/media"

	"github.com/stretchr/testify/mock"
)

// mockStore implements media.Store with testify expectations, for tests
// that pin exact remote calls or return shapes the memory store never does.
type mockStore struct {
	mock.Mock
}

var _ media.Store = (*mockStore)(nil)

func (m *mockStore) Upload(ctx context.Context, req *media.UploadRequest) (*media.UploadResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*media.UploadResult), args.Error(1)
}

func (m *mockStore) Destroy(ctx context.Context, id string, c media.Category) error {
	args := m.Called(ctx, id, c)
	return args.Error(0)
}

func (m *mockStore) DeleteResources(ctx context.Context, ids []string, c media.Category) (*media.DeleteResourcesResult, error) {
	args := m.Called(ctx, ids, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*media.DeleteResourcesResult), args.Error(1)
}

func (m *mockStore) DeleteByPrefix(ctx context.Context, prefix string, c media.Category) (*media.DeleteResourcesResult, error) {
	args := m.Called(ctx, prefix, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*media.DeleteResourcesResult), args.Error(1)
}

func (m *mockStore) Resource(ctx context.Context, id string, c media.Category, fields media.InfoFields) (*media.ResourceInfo, error) {
	args := m.Called(ctx, id, c, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*media.ResourceInfo), args.Error(1)
}

func (m *mockStore) ResourcesByIDs(ctx context.Context, ids []string, c media.Category) ([]media.ResourceInfo, error) {
	args := m.Called(ctx, ids, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]media.ResourceInfo), args.Error(1)
}

func (m *mockStore) Search(ctx context.Context, req *media.SearchRequest) (*media.SearchResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*media.SearchResult), args.Error(1)
}

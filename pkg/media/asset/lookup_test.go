// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package asset

import (
	"context"
	"testing"

	"github.com/LeeDigitalWorks/zapmedia/pkg/catalog"
	"github.com/LeeDigitalWorks/zapmedia/pkg/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLookup(t *testing.T, store *fakeStore, mutate ...func(*Config)) *Lookup {
	t.Helper()
	cfg := Config{Store: store}
	for _, fn := range mutate {
		fn(&cfg)
	}
	l, err := NewLookup(cfg)
	require.NoError(t, err)
	return l
}

func TestGetOne_AlwaysRequestsExtendedFields(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	store.seed(t, media.CategoryImage, "minhloc/images/a")
	l := newTestLookup(t, store)

	info, err := l.GetOne(context.Background(), "minhloc/images/a", "")
	require.NoError(t, err)
	assert.Equal(t, "minhloc/images/a", info.PublicID)
	assert.Equal(t, []media.InfoFields{media.ExtendedInfo}, store.infoFields)
}

func TestGetOne_FallbackCorrectsIndex(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	store.seed(t, media.CategoryVideo, "minhloc/documents/walkthrough")
	index := catalog.NewMemoryIndex(0, 0)
	defer index.Close()
	l := newTestLookup(t, store, func(c *Config) { c.Index = index })
	ctx := context.Background()

	info, err := l.GetOne(ctx, "minhloc/documents/walkthrough", "")
	require.NoError(t, err)
	assert.Equal(t, media.CategoryVideo, info.Category)
	assert.Equal(t, []media.Category{media.CategoryRaw, media.CategoryImage, media.CategoryVideo}, store.probed)

	c, ok, err := index.Lookup(ctx, "minhloc/documents/walkthrough")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, media.CategoryVideo, c)

	// The corrected index makes the next lookup land first time.
	store.probed = nil
	_, err = l.GetOne(ctx, "minhloc/documents/walkthrough", "")
	require.NoError(t, err)
	assert.Equal(t, []media.Category{media.CategoryVideo}, store.probed)
}

func TestGetOne_NotFound(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	l := newTestLookup(t, store)

	_, err := l.GetOne(context.Background(), "minhloc/images/nope", media.CategoryImage)
	require.Error(t, err)
	assert.True(t, media.IsNotFound(err))
	assert.Equal(t, 1, store.Calls("resource"))

	_, err = l.GetOne(context.Background(), "minhloc/images/nope", "")
	assert.True(t, media.IsNotFound(err))
	assert.Equal(t, 4, store.Calls("resource"))
}

func TestGetOne_CancelledNeverProbes(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	l := newTestLookup(t, store)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.GetOne(ctx, "minhloc/images/a", "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, media.IsCode(err, media.ErrCodeLookupFailure))
	assert.Equal(t, 1, store.Calls("resource"))
}

func TestGetMany_GroupsAndPartialFailure(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	store.seed(t, media.CategoryImage, imageIDs...)
	store.seed(t, media.CategoryRaw, rawIDs...)
	l := newTestLookup(t, store)
	ids := append(append([]string{}, imageIDs...), rawIDs...)

	res, err := l.GetMany(context.Background(), ids, "")
	require.NoError(t, err)
	assert.Equal(t, 2, store.Calls("resources_by_ids"))
	assert.Len(t, res.Resources, 5)
	assert.False(t, res.Partial)

	store.failBatch[media.CategoryImage] = errBoom
	res, err = l.GetMany(context.Background(), ids, "")
	require.NoError(t, err)
	assert.True(t, res.Partial)
	require.Len(t, res.Resources, 2)
	for _, r := range res.Resources {
		assert.Equal(t, media.CategoryRaw, r.Category)
	}
	require.Len(t, res.Failed, 1)
	assert.Equal(t, media.CategoryImage, res.Failed[0].Category)
}

func TestGetMany_Empty(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	l := newTestLookup(t, store)

	res, err := l.GetMany(context.Background(), []string{"", ""}, "")
	require.NoError(t, err)
	assert.Empty(t, res.Resources)
	assert.Zero(t, store.TotalCalls())
}

func TestGetMany_Cancelled(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	store.seed(t, media.CategoryImage, imageIDs...)
	l := newTestLookup(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := l.GetMany(ctx, imageIDs, "")
	assert.Nil(t, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, media.IsNotFound(err))
	assert.True(t, media.IsCode(err, media.ErrCodeLookupFailure))
}

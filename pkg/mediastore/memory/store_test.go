// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/LeeDigitalWorks/zapmedia/pkg/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upload(t *testing.T, s *Store, folder, id string, c media.Category) string {
	t.Helper()
	res, err := s.Upload(context.Background(), &media.UploadRequest{
		Body:     strings.NewReader("payload-" + id),
		Category: c,
		Folder:   folder,
		PublicID: id,
	})
	require.NoError(t, err)
	return res.PublicID
}

func TestStore_UploadAssignsFolderQualifiedID(t *testing.T) {
	t.Parallel()
	s := New("")

	res, err := s.Upload(context.Background(), &media.UploadRequest{
		Body:     strings.NewReader("hello"),
		Category: media.CategoryImage,
		Folder:   "minhloc/images",
		Filename: "cat.png",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.PublicID, "minhloc/images/"))
	assert.Equal(t, int64(5), res.Bytes)
	assert.Equal(t, "png", res.Format)
	assert.Equal(t, "image", res.ResourceType)
	assert.Len(t, res.ETag, 64)
}

func TestStore_UploadAutoUsesFilename(t *testing.T) {
	t.Parallel()
	s := New("")

	res, err := s.Upload(context.Background(), &media.UploadRequest{
		Body:     strings.NewReader("x"),
		Category: media.CategoryAuto,
		Filename: "clip.mp4",
	})
	require.NoError(t, err)
	assert.Equal(t, "video", res.ResourceType)
}

func TestStore_CategoryStrictness(t *testing.T) {
	t.Parallel()
	s := New("")
	ctx := context.Background()
	id := upload(t, s, "minhloc/images", "doc", media.CategoryRaw)

	err := s.Destroy(ctx, id, media.CategoryImage)
	assert.True(t, media.IsNotFound(err))

	_, err = s.Resource(ctx, id, media.CategoryImage, media.ExtendedInfo)
	assert.True(t, media.IsNotFound(err))

	require.NoError(t, s.Destroy(ctx, id, media.CategoryRaw))
	assert.Equal(t, 0, s.Len())
}

func TestStore_DeleteResources(t *testing.T) {
	t.Parallel()
	s := New("")
	a := upload(t, s, "f", "a", media.CategoryImage)
	b := upload(t, s, "f", "b", media.CategoryVideo)

	res, err := s.DeleteResources(context.Background(), []string{a, b}, media.CategoryImage)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{a: media.StatusDeleted, b: media.StatusNotFound}, res.Deleted)
	assert.Equal(t, 1, res.Count)
}

func TestStore_DeleteByPrefix(t *testing.T) {
	t.Parallel()
	s := New("")
	upload(t, s, "minhloc/tmp", "a", media.CategoryImage)
	upload(t, s, "minhloc/tmp", "b", media.CategoryImage)
	upload(t, s, "minhloc/tmp", "c", media.CategoryRaw)
	upload(t, s, "minhloc/keep", "d", media.CategoryImage)

	res, err := s.DeleteByPrefix(context.Background(), "minhloc/tmp/", media.CategoryImage)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, 2, s.Len())
}

func TestStore_SearchPaginates(t *testing.T) {
	t.Parallel()
	s := New("")
	for _, id := range []string{"a", "b", "c"} {
		upload(t, s, "minhloc/images", id, media.CategoryImage)
	}
	upload(t, s, "minhloc/videos", "v", media.CategoryVideo)
	ctx := context.Background()

	page, err := s.Search(ctx, &media.SearchRequest{
		Expression: "folder:minhloc/images",
		SortBy:     "public_id",
		Direction:  media.SortAsc,
		MaxResults: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalCount)
	require.Len(t, page.Resources, 2)
	assert.Equal(t, "minhloc/images/a", page.Resources[0].PublicID)
	require.NotEmpty(t, page.NextCursor)

	page, err = s.Search(ctx, &media.SearchRequest{
		Expression: "folder:minhloc/images",
		MaxResults: 2,
		NextCursor: page.NextCursor,
	})
	require.NoError(t, err)
	require.Len(t, page.Resources, 1)
	assert.Equal(t, "minhloc/images/c", page.Resources[0].PublicID)
	assert.Empty(t, page.NextCursor)
}

func TestStore_HonoursCancellation(t *testing.T) {
	t.Parallel()
	s := New("")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Destroy(ctx, "x", media.CategoryImage)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, media.IsNotFound(err))
}

// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package asset

import (
	"context"
	"strings"
	"testing"

	"github.com/LeeDigitalWorks/zapmedia/pkg/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_URLHelpersDoNoIO(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	m, err := New(Config{Store: store, CloudName: "demo"})
	require.NoError(t, err)

	first := m.ThumbnailURL("minhloc/images/photo", 150)
	second := m.ThumbnailURL("minhloc/images/photo", 150)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "c_fill,g_auto,h_150,w_150")

	opt := m.OptimizedURL("minhloc/videos/clip", media.NewDirective(map[string]any{"width": 320}))
	assert.Equal(t, "https://res.cloudinary.com/demo/video/upload/f_auto,q_auto:good/w_320/minhloc/videos/clip", opt)

	assert.Zero(t, store.TotalCalls())
}

func TestManager_Lifecycle(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	m, err := New(Config{Store: store})
	require.NoError(t, err)
	ctx := context.Background()

	img, err := m.UploadImage(ctx, strings.NewReader("img"), media.UploadOptions{Folder: "images", PublicID: "cover"})
	require.NoError(t, err)
	doc, err := m.UploadDocument(ctx, strings.NewReader("doc"), media.UploadOptions{Folder: "documents", PublicID: "terms"})
	require.NoError(t, err)
	assert.Equal(t, "minhloc/images/cover", img.PublicID)
	assert.Equal(t, "minhloc/documents/terms", doc.PublicID)

	info, err := m.GetFileInfo(ctx, doc.PublicID, "")
	require.NoError(t, err)
	assert.Equal(t, media.CategoryRaw, info.Category)

	infos, err := m.GetFilesInfo(ctx, []string{img.PublicID, doc.PublicID}, "")
	require.NoError(t, err)
	assert.Len(t, infos.Resources, 2)

	found, err := m.SearchResources(ctx, "folder:minhloc/images", media.SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, found.TotalCount)

	out, err := m.DeleteFile(ctx, img.PublicID, "")
	require.NoError(t, err)
	assert.Equal(t, media.DeleteResultOK, out.Result)

	batch, err := m.DeleteFiles(ctx, []string{doc.PublicID}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, batch.Total())

	_, err = m.DeleteFolder(ctx, "minhloc/", media.CategoryVideo)
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestNew_RequiresStore(t *testing.T) {
	t.Parallel()
	_, err := New(Config{})
	assert.True(t, media.IsCode(err, media.ErrCodeValidation))
}

// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"testing"

	"github.com/LeeDigitalWorks/zapmedia/pkg/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIndex(t *testing.T) {
	t.Parallel()
	idx := NewMemoryIndex(0, 0)
	defer idx.Close()
	ctx := context.Background()

	require.NoError(t, idx.Record(ctx, "a", media.CategoryRaw))
	require.NoError(t, idx.Record(ctx, "b", media.CategoryAuto))

	c, ok, err := idx.Lookup(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, media.CategoryRaw, c)

	got, err := idx.LookupMany(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]media.Category{"a": media.CategoryRaw}, got)

	require.NoError(t, idx.Forget(ctx, "a"))
	_, ok, _ = idx.Lookup(ctx, "a")
	assert.False(t, ok)
}

func TestNew_SelectsImplementation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	idx, err := New(ctx, Config{Type: "none"})
	require.NoError(t, err)
	assert.IsType(t, Nop{}, idx)

	idx, err = New(ctx, Config{Type: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryIndex{}, idx)
	idx.(*MemoryIndex).Close()

	_, err = New(ctx, Config{Type: "etcd"})
	assert.Error(t, err)
}

// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	t.Parallel()
	info := &ResourceInfo{AssetDescriptor: AssetDescriptor{
		PublicID: "minhloc/images/cat",
		Category: CategoryImage,
		Format:   "png",
		Tags:     []string{"pets", "banner"},
	}}

	tests := []struct {
		expr string
		want bool
	}{
		{"", true},
		{"folder:minhloc/images", true},
		{"folder=minhloc/images AND tags:pets", true},
		{"folder:minhloc/videos", false},
		{"folder:minhloc*", true},
		{"resource_type:image and format:png", true},
		{"public_id:minhloc/images/c*", true},
		{"tags:news", false},
	}
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			f, err := ParseFilter(tc.expr)
			require.NoError(t, err)
			assert.Equal(t, tc.want, f.Match(info))
		})
	}
}

func TestParseFilter_Errors(t *testing.T) {
	t.Parallel()
	_, err := ParseFilter("created_at>1d")
	assert.Error(t, err)

	_, err = ParseFilter("uploaded_at:yesterday")
	assert.Error(t, err)
}

func TestFilter_Hints(t *testing.T) {
	t.Parallel()
	f, err := ParseFilter("resource_type:video AND folder:minhloc/videos")
	require.NoError(t, err)

	c, ok := f.Category()
	assert.True(t, ok)
	assert.Equal(t, CategoryVideo, c)
	assert.Equal(t, "minhloc/videos/", f.FolderPrefix())
}

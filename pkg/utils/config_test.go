// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"os"
	"os/user"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfiguration(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zapmedia-test.yaml"),
		[]byte("store:\n  type: memory\n  root_folder: assets\n"), 0o600))
	ConfigurationFileDirectory = dir
	t.Cleanup(func() { ConfigurationFileDirectory = "" })

	loaded, err := LoadConfiguration("zapmedia-test", true)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, "memory", viper.GetString("store.type"))
	assert.Equal(t, "assets", viper.GetString("store.root_folder"))
}

func TestLoadConfiguration_Missing(t *testing.T) {
	t.Cleanup(viper.Reset)
	ConfigurationFileDirectory = t.TempDir()
	t.Cleanup(func() { ConfigurationFileDirectory = "" })

	loaded, err := LoadConfiguration("zapmedia-absent", false)
	require.NoError(t, err)
	assert.False(t, loaded)

	_, err = LoadConfiguration("zapmedia-absent", true)
	assert.Error(t, err)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/tmp/x", ResolvePath("/tmp/x"))

	usr, err := user.Current()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(usr.HomeDir, "media"), ResolvePath("~/media"))
}

func TestCheckWritableDir(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, CheckWritableDir(dir))

	f := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(f, nil, 0o600))
	assert.ErrorIs(t, CheckWritableDir(f), os.ErrInvalid)

	assert.ErrorIs(t, CheckWritableDir(filepath.Join(dir, "absent")), os.ErrNotExist)
}

// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	exists, err := FileExists(dir)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = FileExists(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, exists)

	filePath := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("x"), 0o644))
	isDir, err := IsDir(filePath)
	require.NoError(t, err)
	assert.False(t, isDir)
	isDir, err = IsDir(dir)
	require.NoError(t, err)
	assert.True(t, isDir)
}

func TestReplaceTildeInDir(t *testing.T) {
	got, err := ReplaceTildeInDir("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)

	got, err = ReplaceTildeInDir("")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err = ReplaceTildeInDir("~/data")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data"), got)
}

func TestValidateChecksum(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "hello.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("hello"), 0o644))

	// sha256("hello")
	require.NoError(t, ValidateChecksum(filePath, "2CF24DBA5FB0A30E26E83B2AC5B9E29E1B161E5C1FA7425E73043362938B9824"))

	err := ValidateChecksum(filePath, "00")
	require.Error(t, err)
	exists, err := FileExists(filePath)
	require.NoError(t, err)
	assert.False(t, exists, "file failing the checksum should be removed")
}

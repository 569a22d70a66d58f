package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFileSystemReadAndExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.cb")
	require.NoError(t, os.WriteFile(path, []byte("var x = 1;"), 0o644))

	var fs osFileSystem
	assert.True(t, fs.FileExists(path))
	assert.False(t, fs.FileExists(filepath.Join(dir, "missing.cb")))

	src, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "var x = 1;", src)
}

func TestOSFileSystemReadMissingFileErrors(t *testing.T) {
	var fs osFileSystem
	_, err := fs.ReadFile(filepath.Join(t.TempDir(), "missing.cb"))
	assert.Error(t, err)
}

func TestCliPathResolvesLibDirAndRelativePaths(t *testing.T) {
	p := cliPath{libDir: "/opt/condor/lib"}
	assert.Equal(t, "/opt/condor/lib", p.GetLibDir())
	assert.Equal(t, filepath.Join("/home/user/project", "util.cb"), p.GetFromBase("/home/user/project", "util.cb"))
	assert.Equal(t, filepath.Join("/home/user/nested", "helper.cb"), p.GetFromBase("/home/user/nested", "helper.cb"),
		"base is supplied per call, so a nested script's own directory resolves correctly")
}

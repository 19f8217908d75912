package chesscore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadOptionsParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chesscore.toml")
	require.NoError(t, os.WriteFile(path, []byte("hash_mb = 64\nthreads = 2\n"), 0o644))

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	require.Equal(t, 64<<20, opts.HashBytes)
	require.Equal(t, 2, opts.Threads)
}

func TestLoadOptionsAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chesscore.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	require.Equal(t, defaultHashBytes, opts.HashBytes)
	require.Equal(t, defaultThreads, opts.Threads)
}

func TestLoadOptionsMissingFileErrors(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeOutputPath(t *testing.T) {
	t.Run("new profile accepted", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "acme.yaml")
		got, err := SanitizeOutputPath(target)
		require.NoError(t, err)
		assert.Equal(t, target, got)
	})

	t.Run("existing file accepted", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "acme.yaml")
		require.NoError(t, os.WriteFile(target, []byte("name: acme\n"), 0o600))
		got, err := SanitizeOutputPath(target)
		require.NoError(t, err)
		assert.Equal(t, target, got)
	})

	t.Run("relative path made absolute", func(t *testing.T) {
		got, err := SanitizeOutputPath("acme.yaml")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})

	t.Run("dot-dot components cleaned", func(t *testing.T) {
		tmpDir := t.TempDir()
		got, err := SanitizeOutputPath(tmpDir + "/profiles/../acme.yaml")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(tmpDir, "acme.yaml"), got)
	})

	t.Run("directory rejected", func(t *testing.T) {
		_, err := SanitizeOutputPath(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is a directory")
	})

	t.Run("symlink rejected", func(t *testing.T) {
		tmpDir := t.TempDir()
		realFile := filepath.Join(tmpDir, "real.yaml")
		linkFile := filepath.Join(tmpDir, "link.yaml")
		require.NoError(t, os.WriteFile(realFile, []byte("name: acme\n"), 0o600))
		require.NoError(t, os.Symlink(realFile, linkFile))

		_, err := SanitizeOutputPath(linkFile)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "symlink")
	})
}

func TestSanitizeOutputDir(t *testing.T) {
	t.Run("existing directory accepted", func(t *testing.T) {
		tmpDir := t.TempDir()
		got, err := SanitizeOutputDir(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, tmpDir, got)
	})

	t.Run("new directory accepted", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "stripe")
		got, err := SanitizeOutputDir(target)
		require.NoError(t, err)
		assert.Equal(t, target, got)
	})

	t.Run("file rejected", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "client.go")
		require.NoError(t, os.WriteFile(target, []byte("package api\n"), 0o600))
		_, err := SanitizeOutputDir(target)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})

	t.Run("symlinked directory rejected", func(t *testing.T) {
		tmpDir := t.TempDir()
		realDir := filepath.Join(tmpDir, "realdir")
		linkDir := filepath.Join(tmpDir, "linkdir")
		require.NoError(t, os.Mkdir(realDir, 0o755))
		require.NoError(t, os.Symlink(realDir, linkDir))

		_, err := SanitizeOutputDir(linkDir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "symlink")
	})
}

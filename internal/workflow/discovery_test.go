package workflow

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("= Title\n"), 0644))
}

func TestDefaultDiscover(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, filepath.Join(dir, "b.adoc"))
	writeDoc(t, filepath.Join(dir, "a.asciidoc"))
	writeDoc(t, filepath.Join(dir, "ignored.md"))
	writeDoc(t, filepath.Join(dir, "nested", "deep.adoc"))

	files, err := DefaultDiscover(dir, true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.asciidoc"),
		filepath.Join(dir, "b.adoc"),
		filepath.Join(dir, "nested", "deep.adoc"),
	}, files)

	files, err = DefaultDiscover(dir, false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.asciidoc"),
		filepath.Join(dir, "b.adoc"),
	}, files)
}

func TestDefaultDiscover_MissingDirectory(t *testing.T) {
	_, err := DefaultDiscover("/nonexistent/path", true)
	assert.Error(t, err)
}

func TestDiscoverWithFallback_UsesDirectoryListing(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, filepath.Join(dir, "a.adoc"))
	writeDoc(t, filepath.Join(dir, "nested", "deep.adoc"))

	broken := func(directory string, recursive bool) ([]string, error) {
		return nil, errors.New("collaborator unavailable")
	}

	// The failure is swallowed; the flat extension filter takes over.
	files := discoverWithFallback(broken, dir, true)
	assert.Equal(t, []string{filepath.Join(dir, "a.adoc")}, files)
}

func TestDiscoverWithFallback_FallbackFailureYieldsEmpty(t *testing.T) {
	broken := func(directory string, recursive bool) ([]string, error) {
		return nil, errors.New("collaborator unavailable")
	}
	files := discoverWithFallback(broken, "/nonexistent/path", true)
	assert.Empty(t, files)
}

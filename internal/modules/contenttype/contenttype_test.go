package contenttype

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adockit/adockit/internal/mod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestInferContentType(t *testing.T) {
	tests := []struct {
		file string
		want string
		ok   bool
	}{
		{"proc_installing.adoc", "PROCEDURE", true},
		{"proc-installing.adoc", "PROCEDURE", true},
		{"con_overview.adoc", "CONCEPT", true},
		{"ref_commands.adoc", "REFERENCE", true},
		{"assembly_getting-started.adoc", "ASSEMBLY", true},
		{"snip_warning.adoc", "SNIPPET", true},
		{"PROC_UPPER.adoc", "PROCEDURE", true},
		{"random.adoc", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, ok := InferContentType(filepath.Join("/docs", tt.file))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExecute_InsertsInferredAttribute(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "proc_install.adoc", "= Installing\n\nDo the thing.\n")

	m := New()
	result, err := m.Execute(context.Background(), mod.ExecContext{
		Directory: dir,
		Files:     []string{path},
	})
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	assert.Equal(t, 1, result.FilesProcessed)

	lines := strings.Split(readFile(t, path), "\n")
	assert.Equal(t, CurrentAttribute+" PROCEDURE", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "= Installing", lines[2])
}

func TestExecute_UpgradesLegacyAttribute(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "random.adoc",
		":_content-type: CONCEPT\n\n= Overview\n")

	m := New()
	result, err := m.Execute(context.Background(), mod.ExecContext{
		Directory: dir,
		Files:     []string{path},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesProcessed)

	content := readFile(t, path)
	assert.Contains(t, content, CurrentAttribute+" CONCEPT")
	assert.NotContains(t, content, ":_content-type:")
}

func TestExecute_LeavesDeclaredFilesAlone(t *testing.T) {
	dir := t.TempDir()
	original := CurrentAttribute + " REFERENCE\n\n= Commands\n"
	path := writeFile(t, dir, "ref_commands.adoc", original)

	m := New()
	result, err := m.Execute(context.Background(), mod.ExecContext{
		Directory: dir,
		Files:     []string{path},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.FilesProcessed)
	assert.Equal(t, original, readFile(t, path))
}

func TestExecute_ReportsUninferrableFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mystery.adoc", "= Mystery\n")

	m := New()
	result, err := m.Execute(context.Background(), mod.ExecContext{
		Directory: dir,
		Files:     []string{path},
	})
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "not inferable")

	// The file itself stays untouched.
	assert.Equal(t, "= Mystery\n", readFile(t, path))
}

package workflow

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adockit/adockit/internal/utils"
)

// DiscoverFunc locates the documents a workflow should process. Hosts may
// supply their own discovery mechanism through ManagerWithDiscovery.
type DiscoverFunc func(directory string, recursive bool) ([]string, error)

// documentExtensions are the file extensions treated as documentation
var documentExtensions = []string{".adoc", ".asciidoc"}

// isDocumentFile checks if a path has a documentation extension
func isDocumentFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, docExt := range documentExtensions {
		if ext == docExt {
			return true
		}
	}
	return false
}

// DefaultDiscover walks the directory collecting document files, sorted
// for reproducible plans. Without the recursive flag only the top level is
// scanned.
func DefaultDiscover(directory string, recursive bool) ([]string, error) {
	if !recursive {
		return listDocuments(directory)
	}

	var files []string
	err := filepath.WalkDir(directory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isDocumentFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// listDocuments is the plain directory-listing filter used both for
// non-recursive discovery and as the fallback when a custom discoverer
// fails
func listDocuments(directory string) ([]string, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && isDocumentFile(entry.Name()) {
			files = append(files, filepath.Join(directory, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// discoverWithFallback runs the configured discoverer and falls back to the
// simple extension filter on failure rather than propagating the error
func discoverWithFallback(discover DiscoverFunc, directory string, recursive bool) []string {
	files, err := discover(directory, recursive)
	if err == nil {
		return files
	}
	utils.LogWarning("Document discovery failed (%v); falling back to directory listing", err)

	files, err = listDocuments(directory)
	if err != nil {
		utils.LogWarning("Fallback directory listing failed: %v", err)
		return nil
	}
	return files
}

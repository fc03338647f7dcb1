// Package contenttype implements the module that ensures every document
// declares a content type attribute, inferring the value from the file
// name when possible
package contenttype

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adockit/adockit/internal/mod"
	"github.com/adockit/adockit/internal/utils"
)

// CurrentAttribute is the attribute name current documents must carry
const CurrentAttribute = ":_mod-docs-content-type:"

// legacyAttributes are older spellings upgraded in place
var legacyAttributes = []string{
	":_content-type:",
	":_module-type:",
}

// prefixTypes maps file name prefixes to content type values
var prefixTypes = []struct {
	prefix      string
	contentType string
}{
	{"assembly_", "ASSEMBLY"},
	{"assembly-", "ASSEMBLY"},
	{"con_", "CONCEPT"},
	{"con-", "CONCEPT"},
	{"proc_", "PROCEDURE"},
	{"proc-", "PROCEDURE"},
	{"ref_", "REFERENCE"},
	{"ref-", "REFERENCE"},
	{"snip_", "SNIPPET"},
	{"snip-", "SNIPPET"},
}

// Module adds or upgrades the content type attribute in each document
type Module struct{}

// New creates a new content type module
func New() mod.Module {
	return &Module{}
}

// Name returns the module name
func (m *Module) Name() string { return "contenttype" }

// Version returns the module version
func (m *Module) Version() string { return "2.0.1" }

// Dependencies returns the modules that must run first
func (m *Module) Dependencies() []string {
	return []string{"directoryconfig", "entityreference"}
}

// ReleaseStatus returns the module release tag
func (m *Module) ReleaseStatus() string { return mod.ReleaseGA }

// Initialize applies the resolved configuration (none needed)
func (m *Module) Initialize(config map[string]interface{}) error { return nil }

// Cleanup releases resources (none held)
func (m *Module) Cleanup() error { return nil }

// Execute ensures each discovered document declares a content type
func (m *Module) Execute(ctx context.Context, ectx mod.ExecContext) (mod.ExecutionResult, error) {
	updated := 0
	var problems []string

	for _, file := range ectx.Files {
		select {
		case <-ctx.Done():
			return mod.ExecutionResult{}, ctx.Err()
		default:
		}

		changed, err := m.ensureContentType(file)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", file, err))
			continue
		}
		if changed {
			updated++
			if ectx.Verbose {
				utils.LogVerbose("Updated content type in %s", file)
			}
		}
	}

	result := mod.SuccessResult(
		fmt.Sprintf("content type declared in %d of %d file(s), %d updated",
			len(ectx.Files)-len(problems), len(ectx.Files), updated),
		updated)
	result.Errors = problems
	return result, nil
}

// ensureContentType upgrades a legacy attribute or inserts a new one
// inferred from the file name prefix
func (m *Module) ensureContentType(path string) (bool, error) {
	lines, err := utils.ReadLines(path)
	if err != nil {
		return false, err
	}

	// Already declared with the current attribute name
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), CurrentAttribute) {
			return false, nil
		}
	}

	// Upgrade a legacy spelling in place, keeping its value
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		for _, legacy := range legacyAttributes {
			if strings.HasPrefix(trimmed, legacy) {
				value := strings.TrimSpace(strings.TrimPrefix(trimmed, legacy))
				lines[i] = CurrentAttribute + " " + value
				return true, utils.WriteLines(path, lines)
			}
		}
	}

	contentType, ok := InferContentType(path)
	if !ok {
		return false, fmt.Errorf("content type attribute missing and not inferable from file name")
	}

	attribute := CurrentAttribute + " " + contentType
	lines = append([]string{attribute, ""}, lines...)
	return true, utils.WriteLines(path, lines)
}

// InferContentType derives the content type from the file name prefix
func InferContentType(path string) (string, bool) {
	base := strings.ToLower(filepath.Base(path))
	for _, p := range prefixTypes {
		if strings.HasPrefix(base, p.prefix) {
			return p.contentType, true
		}
	}
	return "", false
}

// Package entityreference implements the module that replaces unsupported
// HTML character entity references with AsciiDoc attribute references
package entityreference

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/adockit/adockit/internal/mod"
	"github.com/adockit/adockit/internal/utils"
)

// attributeReplacements maps entity names to the AsciiDoc attribute
// references that DITA-compatible output supports
var attributeReplacements = map[string]string{
	"nbsp":   "{nbsp}",
	"ndash":  "{ndash}",
	"mdash":  "{mdash}",
	"hellip": "{hellip}",
	"lsquo":  "{lsquo}",
	"rsquo":  "{rsquo}",
	"ldquo":  "{ldquo}",
	"rdquo":  "{rdquo}",
	"deg":    "{deg}",
	"plus":   "{plus}",
	"trade":  "{trade}",
	"reg":    "{reg}",
	"copy":   "{copy}",
}

// xmlPredefined are the five entities XML defines; they stay untouched
var xmlPredefined = map[string]bool{
	"amp":  true,
	"lt":   true,
	"gt":   true,
	"apos": true,
	"quot": true,
}

var entityPattern = regexp.MustCompile(`&([a-zA-Z][a-zA-Z0-9]*);`)

// Module rewrites entity references in place across the discovered files
type Module struct{}

// New creates a new entity reference module
func New() mod.Module {
	return &Module{}
}

// Name returns the module name
func (m *Module) Name() string { return "entityreference" }

// Version returns the module version
func (m *Module) Version() string { return "1.1.2" }

// Dependencies returns the modules that must run first
func (m *Module) Dependencies() []string { return []string{"directoryconfig"} }

// ReleaseStatus returns the module release tag
func (m *Module) ReleaseStatus() string { return mod.ReleaseGA }

// Initialize applies the resolved configuration (none needed)
func (m *Module) Initialize(config map[string]interface{}) error { return nil }

// Cleanup releases resources (none held)
func (m *Module) Cleanup() error { return nil }

// Execute rewrites unsupported entity references in every discovered file
func (m *Module) Execute(ctx context.Context, ectx mod.ExecContext) (mod.ExecutionResult, error) {
	changed := 0
	var problems []string

	for _, file := range ectx.Files {
		select {
		case <-ctx.Done():
			return mod.ExecutionResult{}, ctx.Err()
		default:
		}

		if !utils.IsTextFile(file) {
			problems = append(problems, fmt.Sprintf("%s: not a text file", file))
			continue
		}

		rewritten, unknown, err := m.rewriteFile(file)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", file, err))
			continue
		}
		for _, entity := range unknown {
			problems = append(problems, fmt.Sprintf("%s: no replacement for &%s;", file, entity))
		}
		if rewritten {
			changed++
			if ectx.Verbose {
				utils.LogVerbose("Rewrote entity references in %s", file)
			}
		}
	}

	result := mod.SuccessResult(
		fmt.Sprintf("replaced entity references in %d of %d file(s)", changed, len(ectx.Files)),
		changed)
	result.Errors = problems
	return result, nil
}

// rewriteFile replaces known entities in one file, skipping comment
// blocks. It reports whether the file changed and which entities had no
// replacement.
func (m *Module) rewriteFile(path string) (bool, []string, error) {
	lines, err := utils.ReadLines(path)
	if err != nil {
		return false, nil, err
	}

	var unknown []string
	changed := false
	inCommentBlock := false

	for i, line := range lines {
		if strings.TrimSpace(line) == "////" {
			inCommentBlock = !inCommentBlock
			continue
		}
		if inCommentBlock || strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}

		replaced := entityPattern.ReplaceAllStringFunc(line, func(match string) string {
			entity := entityPattern.FindStringSubmatch(match)[1]
			if xmlPredefined[entity] {
				return match
			}
			if attr, ok := attributeReplacements[entity]; ok {
				return attr
			}
			unknown = append(unknown, entity)
			return match
		})
		if replaced != line {
			lines[i] = replaced
			changed = true
		}
	}

	if !changed {
		return false, unknown, nil
	}
	if err := utils.WriteLines(path, lines); err != nil {
		return false, unknown, err
	}
	return true, unknown, nil
}

// Package directoryconfig implements the module that loads and applies
// per-directory scoping configuration. It is pinned to the first position
// of every execution plan.
package directoryconfig

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adockit/adockit/internal/mod"
	"github.com/adockit/adockit/internal/utils"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the per-directory configuration file name
const DefaultConfigFile = ".adockit.yaml"

// dirConfig is the optional per-directory scoping configuration
type dirConfig struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// Module loads the target directory's configuration and reports the
// effective document set
type Module struct {
	configFile string
}

// New creates a new directory configuration module
func New() mod.Module {
	return &Module{configFile: DefaultConfigFile}
}

// Name returns the module name
func (m *Module) Name() string { return "directoryconfig" }

// Version returns the module version
func (m *Module) Version() string { return "1.3.0" }

// Dependencies returns the modules that must run first
func (m *Module) Dependencies() []string { return nil }

// ReleaseStatus returns the module release tag
func (m *Module) ReleaseStatus() string { return mod.ReleaseGA }

// Initialize applies the resolved configuration
func (m *Module) Initialize(config map[string]interface{}) error {
	if v, ok := config["configFile"].(string); ok && v != "" {
		m.configFile = v
	}
	return nil
}

// Cleanup releases resources (none held)
func (m *Module) Cleanup() error { return nil }

// Execute validates the target directory, loads its optional scoping
// configuration, and reports how many discovered documents are in scope
func (m *Module) Execute(ctx context.Context, ectx mod.ExecContext) (mod.ExecutionResult, error) {
	if err := utils.ValidateDirectory(ectx.Directory); err != nil {
		return mod.FailureResult(fmt.Sprintf("target directory invalid: %v", err)), nil
	}

	cfg, err := m.loadConfig(ectx.Directory)
	if err != nil {
		return mod.FailureResult(fmt.Sprintf("invalid directory configuration: %v", err)), nil
	}

	scoped := 0
	for _, file := range ectx.Files {
		if inScope(cfg, ectx.Directory, file) {
			scoped++
			if ectx.Verbose {
				utils.LogVerbose("In scope: %s", file)
			}
		}
	}

	message := fmt.Sprintf("%d of %d document(s) in scope", scoped, len(ectx.Files))
	if cfg == nil {
		message = fmt.Sprintf("no %s found; all %d document(s) in scope", m.configFile, len(ectx.Files))
	}
	return mod.SuccessResult(message, scoped), nil
}

// loadConfig reads the optional per-directory config file. A missing file
// is not an error; every document is then in scope.
func (m *Module) loadConfig(directory string) (*dirConfig, error) {
	path := filepath.Join(directory, m.configFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var cfg dirConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	utils.LogVerbose("Loaded directory configuration from %s", path)
	return &cfg, nil
}

// inScope reports whether a document path is inside the configured
// include set and outside the exclude set. A nil config keeps everything
// in scope.
func inScope(cfg *dirConfig, directory, file string) bool {
	if cfg == nil {
		return true
	}

	rel, err := filepath.Rel(directory, file)
	if err != nil {
		return false
	}

	for _, excluded := range cfg.Exclude {
		if underDir(rel, excluded) {
			return false
		}
	}
	if len(cfg.Include) == 0 {
		return true
	}
	for _, included := range cfg.Include {
		if underDir(rel, included) {
			return true
		}
	}
	return false
}

// underDir checks if a relative path sits under a configured directory
func underDir(rel, dir string) bool {
	dir = filepath.Clean(dir)
	if dir == "." {
		return true
	}
	return rel == dir || strings.HasPrefix(rel, dir+string(filepath.Separator))
}

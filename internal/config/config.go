// Package config resolves the toolkit's runtime configuration from flags,
// environment variables, and the optional user configuration file
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adockit/adockit/internal/sequencer"
	"github.com/adockit/adockit/internal/utils"
	"gopkg.in/yaml.v3"
)

// EnvStateDir is the environment variable overriding the state directory
const EnvStateDir = "ADOCKIT_STATE_DIR"

// DefaultConfigFile is the user configuration file looked up in the
// working directory when no --config flag is given
const DefaultConfigFile = "adockit.yaml"

// Config holds the resolved runtime configuration
type Config struct {
	// StateDir is the directory holding workflow state files
	StateDir string
	// Modules carries enable/disable overrides and per-module settings
	Modules sequencer.UserConfig
}

// fileConfig is the on-disk shape of the user configuration file
type fileConfig struct {
	Modules sequencer.UserConfig `yaml:"modules"`
}

// Load resolves the configuration. Flag values win over the environment;
// the environment wins over defaults. A missing config file is not an
// error unless it was requested explicitly.
func Load(stateDirFlag, configFlag string) (*Config, error) {
	stateDir := stateDirFlag
	if stateDir == "" {
		stateDir = os.Getenv(EnvStateDir)
	}
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine home directory: %w", err)
		}
		stateDir = filepath.Join(home, ".adockit", "workflows")
	}

	cfg := &Config{StateDir: stateDir}

	path := configFlag
	explicit := path != ""
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.Modules = fc.Modules
	utils.LogVerbose("Loaded configuration from %s", path)

	return cfg, nil
}

package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adockit/adockit/internal/utils"
	"gopkg.in/yaml.v3"
)

const (
	stateFileSuffix = ".state.yaml"
	backupSuffix    = stateFileSuffix + ".backup"
	tempSuffix      = stateFileSuffix + ".tmp"
)

// sanitizeName makes a workflow name safe for use as a file name
func sanitizeName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}

// StatePath returns the canonical state file path for a workflow name
func StatePath(root, name string) string {
	return filepath.Join(root, sanitizeName(name)+stateFileSuffix)
}

// BackupPath returns the backup sibling of the canonical state file
func BackupPath(root, name string) string {
	return filepath.Join(root, sanitizeName(name)+backupSuffix)
}

// TempPath returns the transient sibling used during the save protocol
func TempPath(root, name string) string {
	return filepath.Join(root, sanitizeName(name)+tempSuffix)
}

// Save persists the state with crash safety: the serialized state is
// written to a temp file and atomically renamed over the canonical file.
// An existing canonical file is copied to a backup first and the backup is
// removed once the rename succeeds, so an interrupted save never leaves a
// partially written canonical file behind.
func (s *State) Save(root string) error {
	if err := os.MkdirAll(root, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	s.Metadata.Version = SchemaVersion
	s.Metadata.UpdatedAt = time.Now()

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow state: %w", err)
	}

	canonical := StatePath(root, s.Name)
	backup := BackupPath(root, s.Name)
	temp := TempPath(root, s.Name)

	if _, err := os.Stat(canonical); err == nil {
		if err := utils.CopyFile(canonical, backup); err != nil {
			return fmt.Errorf("failed to back up workflow state: %w", err)
		}
	}

	if err := os.WriteFile(temp, data, 0644); err != nil {
		return fmt.Errorf("failed to write workflow state: %w", err)
	}

	if err := os.Rename(temp, canonical); err != nil {
		return fmt.Errorf("failed to replace workflow state: %w", err)
	}

	if err := os.Remove(backup); err != nil && !os.IsNotExist(err) {
		utils.LogWarning("Failed to remove state backup %s: %v", backup, err)
	}

	return nil
}

// Load reads a workflow state from disk. A corrupt canonical file falls
// back to the backup; when both are unusable the caller gets a
// StateCorruptionError naming both paths.
func Load(root, name string) (*State, error) {
	canonical := StatePath(root, name)
	backup := BackupPath(root, name)

	state, canonicalErr := loadFile(canonical)
	if canonicalErr == nil {
		return state, nil
	}

	if os.IsNotExist(canonicalErr) {
		if _, err := os.Stat(backup); os.IsNotExist(err) {
			return nil, &NotFoundError{Name: name}
		}
	}

	utils.LogWarning("Workflow state %s unreadable (%v); trying backup", canonical, canonicalErr)

	state, backupErr := loadFile(backup)
	if backupErr == nil {
		return state, nil
	}

	return nil, &StateCorruptionError{
		Canonical:    canonical,
		Backup:       backup,
		CanonicalErr: canonicalErr,
		BackupErr:    backupErr,
	}
}

func loadFile(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse workflow state: %w", err)
	}

	raw, err = Migrate(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate workflow state: %w", err)
	}

	// Round-trip through YAML so migrated records decode through the same
	// struct tags as current ones.
	migrated, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode workflow state: %w", err)
	}

	var state State
	if err := yaml.Unmarshal(migrated, &state); err != nil {
		return nil, fmt.Errorf("failed to decode workflow state: %w", err)
	}

	if err := state.validate(); err != nil {
		return nil, err
	}
	return &state, nil
}

// validate enforces the structural invariants of a persisted record
func (s *State) validate() error {
	if s.Name == "" {
		return fmt.Errorf("workflow state missing name")
	}
	if s.Metadata.Version != SchemaVersion {
		return fmt.Errorf("unexpected schema version %q", s.Metadata.Version)
	}
	if len(s.ModuleStatus) != len(s.Modules) {
		return fmt.Errorf("module status map does not match plan (%d entries, %d modules)",
			len(s.ModuleStatus), len(s.Modules))
	}
	for _, m := range s.Modules {
		exec, ok := s.ModuleStatus[m]
		if !ok {
			return fmt.Errorf("module %s missing from status map", m)
		}
		switch exec.Status {
		case StatusPending, StatusRunning, StatusSuccess, StatusFailed:
		default:
			return fmt.Errorf("module %s has invalid status %q", m, exec.Status)
		}
	}
	return nil
}

// RemoveFiles deletes the canonical, backup, and temp files for a workflow
// name. Missing siblings are ignored; a missing canonical file is reported
// through the returned bool.
func RemoveFiles(root, name string) (bool, error) {
	canonical := StatePath(root, name)
	existed := true
	if err := os.Remove(canonical); err != nil {
		if !os.IsNotExist(err) {
			return false, fmt.Errorf("failed to remove workflow state: %w", err)
		}
		existed = false
	}
	for _, sibling := range []string{BackupPath(root, name), TempPath(root, name)} {
		if err := os.Remove(sibling); err != nil && !os.IsNotExist(err) {
			utils.LogWarning("Failed to remove %s: %v", sibling, err)
		}
	}
	return existed, nil
}

package utils

import (
	"fmt"
	"os"
	"os/exec"
)

// ExecLookPath allows us to mock exec.LookPath in tests
var ExecLookPath = exec.LookPath

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateDirectory checks that a path exists and is a directory
func ValidateDirectory(path string) error {
	if path == "" {
		return &ValidationError{Field: "directory", Message: "directory path is required"}
	}
	info, err := os.Stat(path)
	if err != nil {
		return &ValidationError{Field: "directory", Message: "directory does not exist", Err: err}
	}
	if !info.IsDir() {
		return &ValidationError{Field: "directory", Message: fmt.Sprintf("%s is not a directory", path)}
	}
	return nil
}

// EnsureDirectory creates a directory if it does not exist
func EnsureDirectory(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return &ValidationError{Field: "directory", Message: "failed to access directory", Err: err}
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return &ValidationError{Field: "directory", Message: "failed to create directory", Err: err}
		}
		return nil
	}
	if !info.IsDir() {
		return &ValidationError{Field: "directory", Message: fmt.Sprintf("%s is not a directory", path)}
	}
	return nil
}

// Package validator checks the host environment for the external tools
// some modules depend on
package validator

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/adockit/adockit/internal/utils"
)

// ExternalTool represents an external command-line tool requirement
type ExternalTool struct {
	Name        string
	VersionArgs []string
	Validate    func(output string) bool
}

// containerRuntimes lists the container runtimes the vale linter wrapper
// can use, in preference order
var containerRuntimes = []ExternalTool{
	{
		Name:        "podman",
		VersionArgs: []string{"--version"},
		Validate: func(output string) bool {
			return strings.Contains(output, "podman")
		},
	},
	{
		Name:        "docker",
		VersionArgs: []string{"--version"},
		Validate: func(output string) bool {
			return strings.Contains(output, "Docker")
		},
	},
}

// DetectContainerRuntime returns the first working container runtime found
// in PATH
func DetectContainerRuntime() (string, error) {
	for _, tool := range containerRuntimes {
		path, err := utils.ExecLookPath(tool.Name)
		if err != nil {
			continue
		}

		cmd := exec.Command(path, tool.VersionArgs...)
		output, err := cmd.Output()
		if err != nil {
			utils.LogVerbose("Found %s but failed to run it: %v", tool.Name, err)
			continue
		}
		if !tool.Validate(string(output)) {
			utils.LogVerbose("Unexpected version output from %s", tool.Name)
			continue
		}
		return tool.Name, nil
	}
	return "", fmt.Errorf("no container runtime found in PATH (tried podman, docker)")
}

// ValidateEnvironment verifies the state directory is usable and reports
// on optional tooling. A missing container runtime is not fatal; only the
// vale linter module needs one.
func ValidateEnvironment(stateDir string) error {
	if err := utils.EnsureDirectory(stateDir); err != nil {
		return fmt.Errorf("state directory validation failed: %w", err)
	}
	utils.LogSuccess("State directory: %s", stateDir)

	runtime, err := DetectContainerRuntime()
	if err != nil {
		utils.LogWarning("Container runtime: not found (the valelint module will be unavailable)")
		return nil
	}
	utils.LogSuccess("Container runtime: %s", runtime)
	return nil
}

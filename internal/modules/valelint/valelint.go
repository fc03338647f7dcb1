// Package valelint implements the module that runs the vale prose linter
// in a container against the target directory. The module is a preview
// release and stays out of plans unless explicitly enabled.
package valelint

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/adockit/adockit/internal/mod"
	"github.com/adockit/adockit/internal/utils"
	"github.com/adockit/adockit/internal/validator"
)

// DefaultImage is the vale container image used when none is configured
const DefaultImage = "ghcr.io/errata-ai/vale:latest"

// maxReportedFindings caps the findings folded into the execution result
const maxReportedFindings = 50

// Module shells out to a containerized vale run
type Module struct {
	image string
	args  []string
}

// New creates a new vale linter module
func New() mod.Module {
	return &Module{image: DefaultImage}
}

// Name returns the module name
func (m *Module) Name() string { return "valelint" }

// Version returns the module version
func (m *Module) Version() string { return "0.4.0" }

// Dependencies returns the modules that must run first
func (m *Module) Dependencies() []string { return []string{"directoryconfig"} }

// ReleaseStatus returns the module release tag
func (m *Module) ReleaseStatus() string { return mod.ReleasePreview }

// Initialize applies the resolved configuration
func (m *Module) Initialize(config map[string]interface{}) error {
	if v, ok := config["image"].(string); ok && v != "" {
		m.image = v
	}
	if v, ok := config["args"].([]interface{}); ok {
		m.args = m.args[:0]
		for _, arg := range v {
			s, ok := arg.(string)
			if !ok {
				return fmt.Errorf("valelint args must be strings, got %T", arg)
			}
			m.args = append(m.args, s)
		}
	}
	return nil
}

// Cleanup releases resources (none held)
func (m *Module) Cleanup() error { return nil }

// Execute runs vale inside a container mounted on the target directory.
// A missing container runtime or a failed container run is reported as a
// failed result rather than an error so status reporting can inspect it.
func (m *Module) Execute(ctx context.Context, ectx mod.ExecContext) (mod.ExecutionResult, error) {
	runtime, err := validator.DetectContainerRuntime()
	if err != nil {
		return mod.FailureResult("no container runtime available", err.Error()), nil
	}

	args := []string{
		"run", "--rm",
		"-v", ectx.Directory + ":/docs:Z",
		m.image,
		"--no-exit", "--output=line",
	}
	args = append(args, m.args...)
	args = append(args, "/docs")

	utils.LogVerbose("Running %s %s", runtime, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, runtime, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return mod.FailureResult(
			fmt.Sprintf("vale container run failed: %v", err),
			strings.TrimSpace(string(output))), nil
	}

	findings := parseFindings(string(output))
	result := mod.SuccessResult(
		fmt.Sprintf("vale reported %d finding(s) across %d file(s)", len(findings), len(ectx.Files)),
		len(ectx.Files))
	if len(findings) > maxReportedFindings {
		findings = findings[:maxReportedFindings]
	}
	result.Errors = findings
	return result, nil
}

// parseFindings extracts the per-line findings from vale's line output
func parseFindings(output string) []string {
	var findings []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			findings = append(findings, line)
		}
	}
	return findings
}

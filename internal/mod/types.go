// Package mod provides the core module functionality for the compliance toolkit
package mod

// Descriptor is an immutable snapshot of a module's identity and ordering
// constraints, consumed by the sequencer
type Descriptor struct {
	Name          string
	Version       string
	Dependencies  []string
	ReleaseStatus string
	Config        map[string]interface{}
}

// ExecContext carries everything a module needs to process one workflow step
type ExecContext struct {
	// Directory is the workflow's target directory
	Directory string
	// Files are the document paths discovered at workflow creation
	Files []string
	// Recursive indicates whether subdirectories were included
	Recursive bool
	// Verbose enables detailed per-file reporting
	Verbose bool
	// Config is the module's resolved configuration
	Config map[string]interface{}
}

// Execution result statuses
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
)

// ExecutionResult is the typed outcome of one module execution. Modules
// report failures through the Status field instead of panicking so that
// progress reporting can inspect them without unwinding the workflow.
type ExecutionResult struct {
	Status         string   `yaml:"status" json:"status"`
	Message        string   `yaml:"message" json:"message"`
	FilesProcessed int      `yaml:"files_processed" json:"files_processed"`
	Errors         []string `yaml:"errors,omitempty" json:"errors,omitempty"`
}

// Succeeded reports whether the execution completed without failure
func (r ExecutionResult) Succeeded() bool {
	return r.Status == ResultSuccess
}

// SuccessResult builds a successful execution result
func SuccessResult(message string, filesProcessed int) ExecutionResult {
	return ExecutionResult{
		Status:         ResultSuccess,
		Message:        message,
		FilesProcessed: filesProcessed,
	}
}

// FailureResult builds a failed execution result
func FailureResult(message string, errs ...string) ExecutionResult {
	return ExecutionResult{
		Status:  ResultFailed,
		Message: message,
		Errors:  errs,
	}
}

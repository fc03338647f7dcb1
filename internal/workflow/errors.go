package workflow

import "fmt"

// InvalidDirectoryError reports a missing or unreadable target directory
type InvalidDirectoryError struct {
	Path string
	Err  error
}

func (e *InvalidDirectoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid target directory %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid target directory %s", e.Path)
}

func (e *InvalidDirectoryError) Unwrap() error { return e.Err }

// DuplicateWorkflowError reports a name collision with an existing workflow
type DuplicateWorkflowError struct {
	Name string
	Path string
}

func (e *DuplicateWorkflowError) Error() string {
	return fmt.Sprintf("workflow %q already exists at %s", e.Name, e.Path)
}

// NotFoundError reports a workflow that has no state file on disk
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("workflow %q not found", e.Name)
}

// StateCorruptionError reports that neither the canonical state file nor
// its backup could be loaded
type StateCorruptionError struct {
	Canonical    string
	Backup       string
	CanonicalErr error
	BackupErr    error
}

func (e *StateCorruptionError) Error() string {
	return fmt.Sprintf("workflow state corrupt: %s (%v); backup %s (%v)",
		e.Canonical, e.CanonicalErr, e.Backup, e.BackupErr)
}

// InvalidTransitionError reports an illegal module status change
type InvalidTransitionError struct {
	Module string
	From   ModuleStatus
	To     ModuleStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("module %s: invalid transition %s -> %s", e.Module, e.From, e.To)
}

// ModuleExecutionError reports that a module's execute call failed
type ModuleExecutionError struct {
	Module string
	Err    error
}

func (e *ModuleExecutionError) Error() string {
	return fmt.Sprintf("module %s execution failed: %v", e.Module, e.Err)
}

func (e *ModuleExecutionError) Unwrap() error { return e.Err }

package workflow

import (
	"fmt"
	"time"

	"github.com/adockit/adockit/internal/mod"
	"github.com/google/uuid"
)

// NewState creates the durable state for a freshly started workflow.
// Every module in the plan begins as pending.
func NewState(name, directory string, modules, files []string) *State {
	now := time.Now()
	status := make(map[string]*ModuleExecution, len(modules))
	for _, m := range modules {
		status[m] = &ModuleExecution{Name: m, Status: StatusPending}
	}
	return &State{
		Name:            name,
		Directory:       directory,
		Modules:         append([]string(nil), modules...),
		ModuleStatus:    status,
		FilesDiscovered: append([]string(nil), files...),
		Metadata: Metadata{
			Version:   SchemaVersion,
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func (s *State) execution(module string) (*ModuleExecution, error) {
	exec, ok := s.ModuleStatus[module]
	if !ok {
		return nil, fmt.Errorf("module %s is not part of workflow %s", module, s.Name)
	}
	return exec, nil
}

// MarkStarted transitions a module from pending to running
func (s *State) MarkStarted(module string) error {
	exec, err := s.execution(module)
	if err != nil {
		return err
	}
	if exec.Status != StatusPending {
		return &InvalidTransitionError{Module: module, From: exec.Status, To: StatusRunning}
	}
	now := time.Now()
	exec.Status = StatusRunning
	exec.StartedAt = &now
	s.Metadata.UpdatedAt = now
	return nil
}

// MarkCompleted transitions a module from running to success and records
// its execution result verbatim
func (s *State) MarkCompleted(module string, result mod.ExecutionResult) error {
	exec, err := s.execution(module)
	if err != nil {
		return err
	}
	if exec.Status != StatusRunning {
		return &InvalidTransitionError{Module: module, From: exec.Status, To: StatusSuccess}
	}
	now := time.Now()
	exec.Status = StatusSuccess
	exec.FinishedAt = &now
	exec.Result = &result
	s.Metadata.UpdatedAt = now
	return nil
}

// MarkFailed transitions a module to failed. A module may fail from
// pending (for example when its input never materialized) or from running.
func (s *State) MarkFailed(module, errorMessage string) error {
	exec, err := s.execution(module)
	if err != nil {
		return err
	}
	if exec.Status != StatusPending && exec.Status != StatusRunning {
		return &InvalidTransitionError{Module: module, From: exec.Status, To: StatusFailed}
	}
	now := time.Now()
	exec.Status = StatusFailed
	exec.FinishedAt = &now
	exec.Error = errorMessage
	s.Metadata.UpdatedAt = now
	return nil
}

// NextPending returns the first pending module in plan order
func (s *State) NextPending() (string, bool) {
	for _, m := range s.Modules {
		if exec, ok := s.ModuleStatus[m]; ok && exec.Status == StatusPending {
			return m, true
		}
	}
	return "", false
}

// OverallStatus derives the workflow-level status from module statuses
func (s *State) OverallStatus() string {
	if len(s.Modules) == 0 {
		return WorkflowCompleted
	}
	var success, failed, running int
	for _, m := range s.Modules {
		switch s.ModuleStatus[m].Status {
		case StatusSuccess:
			success++
		case StatusFailed:
			failed++
		case StatusRunning:
			running++
		}
	}
	switch {
	case running > 0:
		return WorkflowRunning
	case failed > 0:
		return WorkflowFailed
	case success == len(s.Modules):
		return WorkflowCompleted
	case success > 0:
		return WorkflowInProgress
	default:
		return WorkflowPending
	}
}

// Progress computes the derived completion summary. A workflow with no
// modules reports zero percent; failed modules never count toward
// completion.
func (s *State) Progress() Progress {
	p := Progress{
		Total:      len(s.Modules),
		TotalFiles: len(s.FilesDiscovered),
	}
	for _, m := range s.Modules {
		exec := s.ModuleStatus[m]
		switch exec.Status {
		case StatusSuccess:
			p.Completed++
		case StatusFailed:
			p.Failed++
		case StatusRunning:
			p.Running = m
		case StatusPending:
			p.Pending++
		}
		if exec.Result != nil {
			p.FilesProcessed += exec.Result.FilesProcessed
		}
	}
	if p.Total > 0 {
		p.Percent = float64(p.Completed) / float64(p.Total) * 100
	}
	return p
}

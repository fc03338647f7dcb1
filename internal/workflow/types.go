// Package workflow provides the durable state model and lifecycle
// management for documentation compliance workflows
package workflow

import (
	"time"

	"github.com/adockit/adockit/internal/mod"
)

// ModuleStatus is the execution status of one module within a workflow
type ModuleStatus string

const (
	StatusPending ModuleStatus = "pending"
	StatusRunning ModuleStatus = "running"
	StatusSuccess ModuleStatus = "success"
	StatusFailed  ModuleStatus = "failed"
)

// Overall workflow statuses derived from module statuses
const (
	WorkflowPending    = "pending"
	WorkflowRunning    = "running"
	WorkflowInProgress = "in-progress"
	WorkflowCompleted  = "completed"
	WorkflowFailed     = "failed"
)

// ModuleExecution tracks the status and result of one module in one
// workflow. Instances are created as pending at workflow creation and only
// mutated through the State transition methods.
type ModuleExecution struct {
	Name       string               `yaml:"name"`
	Status     ModuleStatus         `yaml:"status"`
	StartedAt  *time.Time           `yaml:"started_at,omitempty"`
	FinishedAt *time.Time           `yaml:"finished_at,omitempty"`
	Result     *mod.ExecutionResult `yaml:"result,omitempty"`
	Error      string               `yaml:"error,omitempty"`
}

// Metadata carries the persisted record's schema version and identity
type Metadata struct {
	Version   string    `yaml:"version"`
	ID        string    `yaml:"id"`
	CreatedAt time.Time `yaml:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// State is the durable record of one named workflow instance: the target
// directory, the frozen execution plan, per-module status, and the
// discovered input files. The plan is fixed at creation; the keys of
// ModuleStatus always equal the Modules sequence.
type State struct {
	Name            string                      `yaml:"name"`
	Directory       string                      `yaml:"directory"`
	Modules         []string                    `yaml:"modules"`
	ModuleStatus    map[string]*ModuleExecution `yaml:"module_status"`
	FilesDiscovered []string                    `yaml:"files_discovered"`
	Metadata        Metadata                    `yaml:"metadata"`
}

// Progress is a derived, read-only summary of workflow completion.
// It is computed on demand and never persisted.
type Progress struct {
	Total          int
	Completed      int
	Failed         int
	Pending        int
	Running        string
	FilesProcessed int
	TotalFiles     int
	Percent        float64
}

// Summary is a compact listing entry for one workflow on disk
type Summary struct {
	Name      string
	Directory string
	Status    string
	Progress  Progress
	UpdatedAt time.Time
}

package workflow

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/adockit/adockit/internal/mod"
	"github.com/adockit/adockit/internal/sequencer"
	"github.com/adockit/adockit/internal/utils"
)

// OutcomeStatus classifies the result of one ExecuteNext call
type OutcomeStatus string

const (
	// OutcomeCompleted means no pending modules remain
	OutcomeCompleted OutcomeStatus = "completed"
	// OutcomeAdvanced means exactly one module was executed
	OutcomeAdvanced OutcomeStatus = "advanced"
	// OutcomeBlocked means the next pending module depends on a failed one
	OutcomeBlocked OutcomeStatus = "blocked"
)

// Outcome describes what ExecuteNext did
type Outcome struct {
	Status   OutcomeStatus
	Module   string
	Blocking string
	Result   *mod.ExecutionResult
}

// Manager drives workflow lifecycles over one storage root. Each Manager
// owns its root explicitly; there is no process-wide default. The state
// files are the only shared resource and carry no lock: two managers
// saving the same workflow race, and the last writer wins.
type Manager struct {
	root       string
	registry   *mod.Registry
	userConfig sequencer.UserConfig
	discover   DiscoverFunc
	recursive  bool
}

// ManagerOption customizes a Manager
type ManagerOption func(*Manager)

// ManagerWithDiscovery replaces the default document discovery mechanism
func ManagerWithDiscovery(discover DiscoverFunc) ManagerOption {
	return func(m *Manager) { m.discover = discover }
}

// ManagerWithUserConfig supplies module enable/disable overrides and
// per-module settings
func ManagerWithUserConfig(cfg sequencer.UserConfig) ManagerOption {
	return func(m *Manager) { m.userConfig = cfg }
}

// ManagerWithRecursive controls whether discovery descends into
// subdirectories (default true)
func ManagerWithRecursive(recursive bool) ManagerOption {
	return func(m *Manager) { m.recursive = recursive }
}

// NewManager creates a workflow manager rooted at the given storage
// directory
func NewManager(root string, registry *mod.Registry, opts ...ManagerOption) *Manager {
	m := &Manager{
		root:      root,
		registry:  registry,
		discover:  DefaultDiscover,
		recursive: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Root returns the manager's storage root
func (m *Manager) Root() string { return m.root }

// Start validates the target directory, resolves the module plan against
// the registry, discovers input documents, and persists a new workflow.
// Modules the sequencer could not resolve are folded into the plan as
// already failed so status reporting can surface them.
func (m *Manager) Start(name, directory string) (*State, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("workflow name is required")
	}

	info, err := os.Stat(directory)
	if err != nil {
		return nil, &InvalidDirectoryError{Path: directory, Err: err}
	}
	if !info.IsDir() {
		return nil, &InvalidDirectoryError{Path: directory, Err: fmt.Errorf("not a directory")}
	}
	if f, err := os.Open(directory); err != nil {
		return nil, &InvalidDirectoryError{Path: directory, Err: err}
	} else if err := f.Close(); err != nil {
		utils.LogWarning("Failed to close directory %s: %v", directory, err)
	}

	canonical := StatePath(m.root, name)
	if _, err := os.Stat(canonical); err == nil {
		return nil, &DuplicateWorkflowError{Name: name, Path: canonical}
	}

	resolutions, resErrs, err := sequencer.Resolve(m.registry, m.userConfig)
	if err != nil {
		return nil, fmt.Errorf("module resolution failed: %w", err)
	}
	for _, resErr := range resErrs {
		utils.LogWarning("%v", resErr)
	}

	var plan []string
	for _, r := range resolutions {
		if r.State != sequencer.StateDisabled {
			plan = append(plan, r.Name)
		}
	}

	files := discoverWithFallback(m.discover, directory, m.recursive)
	utils.LogInfo("Discovered %d document(s) in %s", len(files), directory)

	state := NewState(name, directory, plan, files)
	for _, r := range resolutions {
		if r.State == sequencer.StateError {
			if err := state.MarkFailed(r.Name, r.Err); err != nil {
				return nil, err
			}
		}
	}

	if err := state.Save(m.root); err != nil {
		return nil, err
	}
	return state, nil
}

// Resume loads an existing workflow from disk
func (m *Manager) Resume(name string) (*State, error) {
	return Load(m.root, name)
}

// ExecuteNext runs the first pending module in plan order. Execution halts
// with a blocked outcome when that module's dependency has failed; a
// failing execute call is recorded in the state instead of crashing the
// manager. The state is re-persisted after every transition.
func (m *Manager) ExecuteNext(ctx context.Context, state *State) (Outcome, error) {
	next, ok := state.NextPending()
	if !ok {
		return Outcome{Status: OutcomeCompleted}, nil
	}

	if blocking := m.blockingDependency(state, next); blocking != "" {
		return Outcome{Status: OutcomeBlocked, Module: next, Blocking: blocking}, nil
	}

	module, err := m.registry.Get(next)
	if err != nil {
		if err := state.MarkFailed(next, err.Error()); err != nil {
			return Outcome{}, err
		}
		if err := state.Save(m.root); err != nil {
			return Outcome{}, err
		}
		return Outcome{Status: OutcomeAdvanced, Module: next}, nil
	}

	if err := state.MarkStarted(next); err != nil {
		return Outcome{}, err
	}
	if err := state.Save(m.root); err != nil {
		return Outcome{}, err
	}

	config := m.resolvedConfig(next)
	if err := module.Initialize(config); err != nil {
		// Invalid module configuration is logged but not fatal to the workflow
		utils.LogWarning("Module %s initialization failed: %v", next, err)
	}

	utils.LogInfo("Executing module %s", next)
	result, execErr := module.Execute(ctx, mod.ExecContext{
		Directory: state.Directory,
		Files:     append([]string(nil), state.FilesDiscovered...),
		Recursive: m.recursive,
		Verbose:   utils.CurrentLogLevel >= utils.LevelVerbose,
		Config:    config,
	})

	if err := module.Cleanup(); err != nil {
		utils.LogWarning("Module %s cleanup failed: %v", next, err)
	}

	outcome := Outcome{Status: OutcomeAdvanced, Module: next}
	switch {
	case execErr != nil:
		execErr = &ModuleExecutionError{Module: next, Err: execErr}
		utils.LogError("%v", execErr)
		if err := state.MarkFailed(next, execErr.Error()); err != nil {
			return Outcome{}, err
		}
	case !result.Succeeded():
		message := result.Message
		if message == "" {
			message = strings.Join(result.Errors, "; ")
		}
		utils.LogError("Module %s reported failure: %s", next, message)
		if err := state.MarkFailed(next, message); err != nil {
			return Outcome{}, err
		}
		outcome.Result = &result
	default:
		utils.LogSuccess("Module %s completed: %s", next, result.Message)
		if err := state.MarkCompleted(next, result); err != nil {
			return Outcome{}, err
		}
		outcome.Result = &result
	}

	if err := state.Save(m.root); err != nil {
		return Outcome{}, err
	}
	return outcome, nil
}

// blockingDependency returns the name of a failed in-plan dependency of
// the given module, if any
func (m *Manager) blockingDependency(state *State, name string) string {
	module, err := m.registry.Get(name)
	if err != nil {
		return ""
	}
	for _, dep := range module.Dependencies() {
		if exec, ok := state.ModuleStatus[dep]; ok && exec.Status == StatusFailed {
			return dep
		}
	}
	return ""
}

// resolvedConfig merges the user's per-module settings for one module
func (m *Manager) resolvedConfig(name string) map[string]interface{} {
	config := make(map[string]interface{})
	for k, v := range m.userConfig.Settings[name] {
		config[k] = v
	}
	return config
}

// Status loads one workflow and computes its progress
func (m *Manager) Status(name string) (*State, Progress, error) {
	state, err := Load(m.root, name)
	if err != nil {
		return nil, Progress{}, err
	}
	return state, state.Progress(), nil
}

// List returns a summary for every workflow in the storage root
func (m *Manager) List() ([]Summary, error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state directory: %w", err)
	}

	var summaries []Summary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), stateFileSuffix) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), stateFileSuffix)
		state, err := Load(m.root, name)
		if err != nil {
			utils.LogWarning("Skipping unreadable workflow %s: %v", name, err)
			continue
		}
		summaries = append(summaries, Summary{
			Name:      state.Name,
			Directory: state.Directory,
			Status:    state.OverallStatus(),
			Progress:  state.Progress(),
			UpdatedAt: state.Metadata.UpdatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, nil
}

// Cleanup removes the state files of one named workflow
func (m *Manager) Cleanup(name string) error {
	existed, err := RemoveFiles(m.root, name)
	if err != nil {
		return err
	}
	if !existed {
		return &NotFoundError{Name: name}
	}
	return nil
}

// CleanupCompleted removes every workflow whose status is completed and
// returns the removed names
func (m *Manager) CleanupCompleted() ([]string, error) {
	summaries, err := m.List()
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, s := range summaries {
		if s.Status != WorkflowCompleted {
			continue
		}
		if err := m.Cleanup(s.Name); err != nil {
			return removed, err
		}
		removed = append(removed, s.Name)
	}
	return removed, nil
}

// CleanupAll removes every workflow in the storage root. The confirm flag
// must be set by the caller; this package never prompts.
func (m *Manager) CleanupAll(confirm bool) ([]string, error) {
	if !confirm {
		return nil, fmt.Errorf("removing all workflows requires confirmation")
	}
	entries, err := os.ReadDir(m.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state directory: %w", err)
	}
	// Scan raw directory entries so corrupt workflows are removed too.
	var removed []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), stateFileSuffix) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), stateFileSuffix)
		if _, err := RemoveFiles(m.root, name); err != nil {
			return removed, err
		}
		removed = append(removed, name)
	}
	return removed, nil
}

package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adockit/adockit/internal/mod"
	"github.com/adockit/adockit/internal/sequencer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModule struct {
	name     string
	deps     []string
	release  string
	result   mod.ExecutionResult
	execErr  error
	initErr  error
	executed int
}

func (s *stubModule) Name() string           { return s.name }
func (s *stubModule) Version() string        { return "1.0.0" }
func (s *stubModule) Dependencies() []string { return s.deps }
func (s *stubModule) ReleaseStatus() string {
	if s.release == "" {
		return mod.ReleaseGA
	}
	return s.release
}
func (s *stubModule) Initialize(config map[string]interface{}) error { return s.initErr }
func (s *stubModule) Cleanup() error                                 { return nil }
func (s *stubModule) Execute(ctx context.Context, ectx mod.ExecContext) (mod.ExecutionResult, error) {
	s.executed++
	if s.execErr != nil {
		return mod.ExecutionResult{}, s.execErr
	}
	if s.result.Status == "" {
		return mod.SuccessResult("ok", len(ectx.Files)), nil
	}
	return s.result, nil
}

func docsDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("= Title\n"), 0644))
	}
	return dir
}

func testRegistry(t *testing.T, modules ...*stubModule) *mod.Registry {
	t.Helper()
	registry := mod.NewRegistry()
	for _, m := range modules {
		require.NoError(t, registry.Register(m))
	}
	return registry
}

func TestManager_StartCreatesPendingWorkflow(t *testing.T) {
	dir := docsDir(t, "proc_a.adoc", "con_b.adoc", "ref_c.adoc", "notes.md")
	registry := testRegistry(t,
		&stubModule{name: "directoryconfig"},
		&stubModule{name: "contenttype", deps: []string{"directoryconfig"}},
	)
	manager := NewManager(t.TempDir(), registry)

	state, err := manager.Start("docs1", dir)
	require.NoError(t, err)

	assert.Equal(t, "docs1", state.Name)
	assert.Len(t, state.FilesDiscovered, 3, "only .adoc files are discovered")
	assert.Equal(t, []string{"directoryconfig", "contenttype"}, state.Modules)
	for _, m := range state.Modules {
		assert.Equal(t, StatusPending, state.ModuleStatus[m].Status)
	}

	_, err = os.Stat(StatePath(manager.Root(), "docs1"))
	assert.NoError(t, err)
}

func TestManager_StartRejectsInvalidDirectory(t *testing.T) {
	manager := NewManager(t.TempDir(), testRegistry(t, &stubModule{name: "directoryconfig"}))

	_, err := manager.Start("docs1", "/nonexistent/path")
	var invalidDir *InvalidDirectoryError
	require.ErrorAs(t, err, &invalidDir)

	file := filepath.Join(t.TempDir(), "file.adoc")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	_, err = manager.Start("docs2", file)
	require.ErrorAs(t, err, &invalidDir)
}

func TestManager_StartRejectsDuplicateName(t *testing.T) {
	dir := docsDir(t, "proc_a.adoc")
	manager := NewManager(t.TempDir(), testRegistry(t, &stubModule{name: "directoryconfig"}))

	_, err := manager.Start("docs1", dir)
	require.NoError(t, err)

	_, err = manager.Start("docs1", dir)
	var duplicate *DuplicateWorkflowError
	require.ErrorAs(t, err, &duplicate)
	assert.Equal(t, "docs1", duplicate.Name)
}

func TestManager_StartRecordsResolutionErrors(t *testing.T) {
	dir := docsDir(t, "proc_a.adoc")
	registry := testRegistry(t,
		&stubModule{name: "directoryconfig"},
		&stubModule{name: "contenttype", deps: []string{"directoryconfig"}},
	)
	manager := NewManager(t.TempDir(), registry,
		ManagerWithUserConfig(sequencer.UserConfig{Disabled: []string{"directoryconfig"}}))

	state, err := manager.Start("docs1", dir)
	require.NoError(t, err)

	// The disabled module is out of the plan; its dependent is folded in
	// as already failed so status can surface it.
	assert.Equal(t, []string{"contenttype"}, state.Modules)
	assert.Equal(t, StatusFailed, state.ModuleStatus["contenttype"].Status)
	assert.Contains(t, state.ModuleStatus["contenttype"].Error, "disabled")
}

func TestManager_ExecuteNextAdvancesOneModule(t *testing.T) {
	dir := docsDir(t, "proc_a.adoc")
	first := &stubModule{name: "directoryconfig"}
	second := &stubModule{name: "contenttype", deps: []string{"directoryconfig"}}
	manager := NewManager(t.TempDir(), testRegistry(t, first, second))

	state, err := manager.Start("docs1", dir)
	require.NoError(t, err)

	outcome, err := manager.ExecuteNext(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdvanced, outcome.Status)
	assert.Equal(t, "directoryconfig", outcome.Module)
	assert.Equal(t, 1, first.executed)
	assert.Equal(t, 0, second.executed)

	assert.Equal(t, StatusSuccess, state.ModuleStatus["directoryconfig"].Status)
	assert.Equal(t, StatusPending, state.ModuleStatus["contenttype"].Status)

	// The transition was persisted, not just held in memory.
	persisted, err := manager.Resume("docs1")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, persisted.ModuleStatus["directoryconfig"].Status)
}

func TestManager_ExecuteNextRunsToCompletion(t *testing.T) {
	dir := docsDir(t, "proc_a.adoc", "con_b.adoc")
	manager := NewManager(t.TempDir(), testRegistry(t,
		&stubModule{name: "directoryconfig"},
		&stubModule{name: "entityreference", deps: []string{"directoryconfig"}},
	))

	state, err := manager.Start("docs1", dir)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		outcome, err := manager.ExecuteNext(context.Background(), state)
		require.NoError(t, err)
		assert.Equal(t, OutcomeAdvanced, outcome.Status)
	}

	outcome, err := manager.ExecuteNext(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, outcome.Status)
	assert.Equal(t, WorkflowCompleted, state.OverallStatus())
}

func TestManager_ExecuteNextBlocksOnFailedDependency(t *testing.T) {
	dir := docsDir(t, "proc_a.adoc")
	failing := &stubModule{name: "directoryconfig", result: mod.FailureResult("config invalid")}
	dependent := &stubModule{name: "contenttype", deps: []string{"directoryconfig"}}
	manager := NewManager(t.TempDir(), testRegistry(t, failing, dependent))

	state, err := manager.Start("docs1", dir)
	require.NoError(t, err)

	outcome, err := manager.ExecuteNext(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdvanced, outcome.Status)
	assert.Equal(t, StatusFailed, state.ModuleStatus["directoryconfig"].Status)

	outcome, err = manager.ExecuteNext(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, OutcomeBlocked, outcome.Status)
	assert.Equal(t, "contenttype", outcome.Module)
	assert.Equal(t, "directoryconfig", outcome.Blocking)

	// A blocked call changes no statuses and never runs the dependent.
	assert.Equal(t, 0, dependent.executed)
	assert.Equal(t, StatusPending, state.ModuleStatus["contenttype"].Status)
}

func TestManager_ExecuteNextCatchesModuleErrors(t *testing.T) {
	dir := docsDir(t, "proc_a.adoc")
	exploding := &stubModule{name: "directoryconfig", execErr: errors.New("kaboom")}
	manager := NewManager(t.TempDir(), testRegistry(t, exploding))

	state, err := manager.Start("docs1", dir)
	require.NoError(t, err)

	outcome, err := manager.ExecuteNext(context.Background(), state)
	require.NoError(t, err, "a failing module must not crash the manager")
	assert.Equal(t, OutcomeAdvanced, outcome.Status)

	// The workflow stays loadable and inspectable afterwards.
	loaded, _, err := manager.Status("docs1")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, loaded.ModuleStatus["directoryconfig"].Status)
	assert.Contains(t, loaded.ModuleStatus["directoryconfig"].Error, "kaboom")
	assert.Equal(t, WorkflowFailed, loaded.OverallStatus())
}

func TestManager_ListAndCleanup(t *testing.T) {
	registry := testRegistry(t, &stubModule{name: "directoryconfig"})
	root := t.TempDir()
	manager := NewManager(root, registry)

	stateA, err := manager.Start("alpha", docsDir(t, "proc_a.adoc"))
	require.NoError(t, err)
	_, err = manager.Start("beta", docsDir(t, "con_b.adoc"))
	require.NoError(t, err)

	// Complete alpha so it is eligible for --completed cleanup.
	outcome, err := manager.ExecuteNext(context.Background(), stateA)
	require.NoError(t, err)
	require.Equal(t, OutcomeAdvanced, outcome.Status)

	summaries, err := manager.List()
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "alpha", summaries[0].Name)
	assert.Equal(t, WorkflowCompleted, summaries[0].Status)
	assert.Equal(t, WorkflowPending, summaries[1].Status)

	removed, err := manager.CleanupCompleted()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, removed)

	err = manager.Cleanup("alpha")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)

	require.NoError(t, manager.Cleanup("beta"))

	summaries, err = manager.List()
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestManager_CleanupAllRequiresConfirmation(t *testing.T) {
	manager := NewManager(t.TempDir(), testRegistry(t, &stubModule{name: "directoryconfig"}))

	_, err := manager.Start("alpha", docsDir(t, "proc_a.adoc"))
	require.NoError(t, err)

	_, err = manager.CleanupAll(false)
	require.Error(t, err)

	removed, err := manager.CleanupAll(true)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, removed)
}

func TestManager_CleanupAllRemovesCorruptWorkflows(t *testing.T) {
	root := t.TempDir()
	manager := NewManager(root, testRegistry(t, &stubModule{name: "directoryconfig"}))
	require.NoError(t, os.WriteFile(StatePath(root, "mangled"), []byte("::"), 0644))

	removed, err := manager.CleanupAll(true)
	require.NoError(t, err)
	assert.Equal(t, []string{"mangled"}, removed)
}

func TestManager_ResumeMissingWorkflow(t *testing.T) {
	manager := NewManager(t.TempDir(), testRegistry(t, &stubModule{name: "directoryconfig"}))
	_, err := manager.Resume("ghost")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

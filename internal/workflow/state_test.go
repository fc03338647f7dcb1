package workflow

import (
	"testing"

	"github.com/adockit/adockit/internal/mod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState() *State {
	return NewState("docs1", "/tmp/docs",
		[]string{"directoryconfig", "entityreference", "contenttype"},
		[]string{"/tmp/docs/a.adoc", "/tmp/docs/b.adoc"})
}

func TestNewState_AllModulesPending(t *testing.T) {
	state := newTestState()

	assert.Equal(t, SchemaVersion, state.Metadata.Version)
	assert.NotEmpty(t, state.Metadata.ID)
	require.Len(t, state.ModuleStatus, 3)
	for _, m := range state.Modules {
		assert.Equal(t, StatusPending, state.ModuleStatus[m].Status)
	}
	assert.Equal(t, WorkflowPending, state.OverallStatus())
}

func TestState_TransitionLifecycle(t *testing.T) {
	state := newTestState()

	require.NoError(t, state.MarkStarted("directoryconfig"))
	assert.Equal(t, StatusRunning, state.ModuleStatus["directoryconfig"].Status)
	assert.NotNil(t, state.ModuleStatus["directoryconfig"].StartedAt)
	assert.Equal(t, WorkflowRunning, state.OverallStatus())

	result := mod.SuccessResult("3 of 3 document(s) in scope", 3)
	require.NoError(t, state.MarkCompleted("directoryconfig", result))
	exec := state.ModuleStatus["directoryconfig"]
	assert.Equal(t, StatusSuccess, exec.Status)
	assert.NotNil(t, exec.FinishedAt)
	require.NotNil(t, exec.Result)
	assert.Equal(t, 3, exec.Result.FilesProcessed)

	require.NoError(t, state.MarkStarted("entityreference"))
	require.NoError(t, state.MarkFailed("entityreference", "disk full"))
	assert.Equal(t, StatusFailed, state.ModuleStatus["entityreference"].Status)
	assert.Equal(t, "disk full", state.ModuleStatus["entityreference"].Error)
	assert.Equal(t, WorkflowFailed, state.OverallStatus())
}

func TestState_FailBeforeStart(t *testing.T) {
	state := newTestState()
	require.NoError(t, state.MarkFailed("contenttype", "dependency never resolved"))
	assert.Equal(t, StatusFailed, state.ModuleStatus["contenttype"].Status)
}

func TestState_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		run  func(s *State) error
	}{
		{
			name: "complete without start",
			run: func(s *State) error {
				return s.MarkCompleted("directoryconfig", mod.SuccessResult("", 0))
			},
		},
		{
			name: "start twice",
			run: func(s *State) error {
				if err := s.MarkStarted("directoryconfig"); err != nil {
					return err
				}
				return s.MarkStarted("directoryconfig")
			},
		},
		{
			name: "fail after success",
			run: func(s *State) error {
				if err := s.MarkStarted("directoryconfig"); err != nil {
					return err
				}
				if err := s.MarkCompleted("directoryconfig", mod.SuccessResult("", 0)); err != nil {
					return err
				}
				return s.MarkFailed("directoryconfig", "late failure")
			},
		},
		{
			name: "restart after failure",
			run: func(s *State) error {
				if err := s.MarkFailed("directoryconfig", "early failure"); err != nil {
					return err
				}
				return s.MarkStarted("directoryconfig")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run(newTestState())
			var transitionErr *InvalidTransitionError
			require.ErrorAs(t, err, &transitionErr)
			assert.Equal(t, "directoryconfig", transitionErr.Module)
		})
	}
}

func TestState_UnknownModule(t *testing.T) {
	state := newTestState()
	assert.Error(t, state.MarkStarted("nonexistent"))
	assert.Error(t, state.MarkFailed("nonexistent", "boom"))
}

func TestState_NextPendingFollowsPlanOrder(t *testing.T) {
	state := newTestState()

	next, ok := state.NextPending()
	require.True(t, ok)
	assert.Equal(t, "directoryconfig", next)

	require.NoError(t, state.MarkStarted("directoryconfig"))
	require.NoError(t, state.MarkCompleted("directoryconfig", mod.SuccessResult("", 0)))

	next, ok = state.NextPending()
	require.True(t, ok)
	assert.Equal(t, "entityreference", next)
}

func TestProgress_MonotonicAndFailureAware(t *testing.T) {
	state := newTestState()

	previous := -1.0
	for _, m := range state.Modules[:2] {
		require.NoError(t, state.MarkStarted(m))
		require.NoError(t, state.MarkCompleted(m, mod.SuccessResult("done", 1)))
		p := state.Progress()
		assert.Greater(t, p.Percent, previous)
		previous = p.Percent
	}

	require.NoError(t, state.MarkFailed("contenttype", "boom"))
	p := state.Progress()
	assert.Equal(t, 2, p.Completed)
	assert.Equal(t, 1, p.Failed)
	assert.Equal(t, 0, p.Pending)
	// Failed modules never count toward completion
	assert.InDelta(t, 66.6, p.Percent, 1.0)
	assert.Equal(t, 2, p.FilesProcessed)
	assert.Equal(t, 2, p.TotalFiles)
}

func TestProgress_EmptyWorkflowIsZeroPercent(t *testing.T) {
	state := NewState("empty", "/tmp/docs", nil, nil)
	p := state.Progress()
	assert.Equal(t, 0, p.Total)
	assert.Equal(t, 0.0, p.Percent)
	assert.Equal(t, WorkflowCompleted, state.OverallStatus())
}

package mod

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModule struct {
	name    string
	deps    []string
	release string
}

func (s *stubModule) Name() string                                  { return s.name }
func (s *stubModule) Version() string                               { return "1.0.0" }
func (s *stubModule) Dependencies() []string                        { return s.deps }
func (s *stubModule) ReleaseStatus() string                         { return s.release }
func (s *stubModule) Initialize(config map[string]interface{}) error { return nil }
func (s *stubModule) Cleanup() error                                { return nil }
func (s *stubModule) Execute(ctx context.Context, ectx ExecContext) (ExecutionResult, error) {
	return SuccessResult("ok", len(ectx.Files)), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.Register(&stubModule{name: "alpha", release: ReleaseGA}))
	require.NoError(t, registry.Register(&stubModule{name: "beta", release: ReleaseGA}))

	m, err := registry.Get("alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", m.Name())

	_, err = registry.Get("missing")
	assert.Error(t, err)

	_, err = registry.Get("")
	assert.Error(t, err)
}

func TestRegistry_RejectsDuplicatesAndNil(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.Register(&stubModule{name: "alpha", release: ReleaseGA}))
	assert.Error(t, registry.Register(&stubModule{name: "alpha", release: ReleaseGA}))
	assert.Error(t, registry.Register(nil))
	assert.Error(t, registry.Register(&stubModule{name: "", release: ReleaseGA}))
	assert.Equal(t, 1, registry.Len())
}

func TestRegistry_NamesPreserveRegistrationOrder(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, registry.Register(&stubModule{name: name, release: ReleaseGA}))
	}

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, registry.Names())

	descriptors := registry.Descriptors()
	require.Len(t, descriptors, 3)
	assert.Equal(t, "zeta", descriptors[0].Name)
	assert.Equal(t, "mid", descriptors[2].Name)
}

func TestExecutionResult_Succeeded(t *testing.T) {
	assert.True(t, SuccessResult("done", 3).Succeeded())
	assert.False(t, FailureResult("broken", "detail").Succeeded())

	failure := FailureResult("broken", "one", "two")
	assert.Equal(t, []string{"one", "two"}, failure.Errors)
}

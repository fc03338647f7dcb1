// Package modules wires the built-in processing modules into a registry
package modules

import (
	"github.com/adockit/adockit/internal/mod"
	"github.com/adockit/adockit/internal/modules/contenttype"
	"github.com/adockit/adockit/internal/modules/directoryconfig"
	"github.com/adockit/adockit/internal/modules/entityreference"
	"github.com/adockit/adockit/internal/modules/valelint"
	"github.com/adockit/adockit/internal/utils"
)

// NewRegistry builds a registry containing every built-in module. The
// registration order below is the sequencer's tie-break order.
func NewRegistry() *mod.Registry {
	registry := mod.NewRegistry()

	builtins := []mod.Module{
		directoryconfig.New(),
		entityreference.New(),
		contenttype.New(),
		valelint.New(),
	}
	for _, m := range builtins {
		if err := registry.Register(m); err != nil {
			utils.LogError("Failed to register %s module: %v", m.Name(), err)
		}
	}

	return registry
}

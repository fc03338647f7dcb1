// Package mod provides the core module functionality for the compliance toolkit
package mod

import (
	"context"
	"fmt"
	"sync"
)

// Release status tags carried by every module
const (
	ReleaseGA      = "GA"
	ReleasePreview = "preview"
)

// Module defines the interface that all processing modules must implement
type Module interface {
	// Name returns the module's unique identifier
	Name() string

	// Version returns the module's semantic version string
	Version() string

	// Dependencies returns the names of modules that must run before this one
	Dependencies() []string

	// ReleaseStatus returns the module's release tag (GA, preview)
	ReleaseStatus() string

	// Initialize applies the resolved configuration before execution
	Initialize(config map[string]interface{}) error

	// Execute runs the module against the discovered files
	Execute(ctx context.Context, ectx ExecContext) (ExecutionResult, error)

	// Cleanup releases any resources held by the module (best effort)
	Cleanup() error
}

// Registry stores all available modules in registration order.
// Registration order is significant: the sequencer uses it to break
// ties between modules with no ordering constraint between them.
type Registry struct {
	sync.RWMutex
	modules map[string]Module
	order   []string
}

// NewRegistry creates a new module registry
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]Module),
	}
}

// Register adds a module to the registry
func (r *Registry) Register(m Module) error {
	if m == nil {
		return fmt.Errorf("cannot register nil module")
	}

	name := m.Name()
	if name == "" {
		return fmt.Errorf("module name cannot be empty")
	}

	r.Lock()
	defer r.Unlock()

	if _, exists := r.modules[name]; exists {
		return fmt.Errorf("module %s is already registered", name)
	}

	r.modules[name] = m
	r.order = append(r.order, name)
	return nil
}

// Get retrieves a module by name
func (r *Registry) Get(name string) (Module, error) {
	if name == "" {
		return nil, fmt.Errorf("module name cannot be empty")
	}

	r.RLock()
	defer r.RUnlock()

	module, exists := r.modules[name]
	if !exists {
		return nil, fmt.Errorf("module %s not found", name)
	}
	return module, nil
}

// Names returns all registered module names in registration order
func (r *Registry) Names() []string {
	r.RLock()
	defer r.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Descriptors returns a descriptor snapshot for every registered module,
// in registration order
func (r *Registry) Descriptors() []Descriptor {
	r.RLock()
	defer r.RUnlock()

	descriptors := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		m := r.modules[name]
		descriptors = append(descriptors, Descriptor{
			Name:          m.Name(),
			Version:       m.Version(),
			Dependencies:  append([]string(nil), m.Dependencies()...),
			ReleaseStatus: m.ReleaseStatus(),
		})
	}
	return descriptors
}

// Len returns the number of registered modules
func (r *Registry) Len() int {
	r.RLock()
	defer r.RUnlock()
	return len(r.order)
}

// Package sequencer resolves the module dependency graph into a
// deterministic execution plan
package sequencer

import (
	"fmt"
	"sort"

	"github.com/adockit/adockit/internal/mod"
)

// FirstModule is the module pinned to the first position of every plan
// that includes it. Every other module implicitly depends on the directory
// configuration it loads.
const FirstModule = "directoryconfig"

// ResolutionState is the sequencer's verdict on one module
type ResolutionState string

const (
	StateEnabled  ResolutionState = "enabled"
	StateDisabled ResolutionState = "disabled"
	StateError    ResolutionState = "error"
)

// Resolution records the verdict for one module: whether it runs, with
// what configuration, and at which position in the execution order.
// Order is -1 for modules that do not run.
type Resolution struct {
	Name   string
	State  ResolutionState
	Config map[string]interface{}
	Order  int
	Err    string
}

// UserConfig holds explicit enable/disable overrides and per-module settings
type UserConfig struct {
	Enabled  []string                          `yaml:"enabled"`
	Disabled []string                          `yaml:"disabled"`
	Settings map[string]map[string]interface{} `yaml:"settings"`
}

// ResolutionError describes why one module could not be resolved
type ResolutionError struct {
	Module string
	Reason string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("module %s: %s", e.Module, e.Reason)
}

// Resolve computes a stable execution plan from the registry and the user
// configuration. Individual module problems (unknown or disabled
// dependencies, cycles) are recorded as error resolutions and returned in
// the error slice; they never abort resolution of unaffected modules. The
// returned error is non-nil only for structurally invalid input.
func Resolve(registry *mod.Registry, cfg UserConfig) ([]Resolution, []error, error) {
	if registry == nil {
		return nil, nil, fmt.Errorf("registry must not be nil")
	}

	descriptors := registry.Descriptors()
	index := make(map[string]int, len(descriptors))
	byName := make(map[string]mod.Descriptor, len(descriptors))
	for i, d := range descriptors {
		index[d.Name] = i
		byName[d.Name] = d
	}

	enabledSet := toSet(cfg.Enabled)
	disabledSet := toSet(cfg.Disabled)

	// Phase 1: enable/disable verdicts. Preview modules are opt-in.
	disabled := make(map[string]bool)
	for _, d := range descriptors {
		switch {
		case disabledSet[d.Name]:
			disabled[d.Name] = true
		case d.ReleaseStatus == mod.ReleasePreview && !enabledSet[d.Name]:
			disabled[d.Name] = true
		}
	}

	// Phase 2: propagate dependency problems to error verdicts.
	failed := make(map[string]string)
	for changed := true; changed; {
		changed = false
		for _, d := range descriptors {
			if disabled[d.Name] || failed[d.Name] != "" {
				continue
			}
			for _, dep := range d.Dependencies {
				var reason string
				switch {
				case byName[dep].Name == "" && !disabled[dep]:
					reason = fmt.Sprintf("unknown dependency %q", dep)
				case disabled[dep]:
					reason = fmt.Sprintf("dependency %q is disabled", dep)
				case failed[dep] != "":
					reason = fmt.Sprintf("dependency %q failed to resolve", dep)
				}
				if reason != "" {
					failed[d.Name] = reason
					changed = true
					break
				}
			}
		}
	}

	// Phase 3: Kahn's algorithm over the surviving candidates. Ties are
	// broken by registration order so plans are reproducible across runs;
	// the directory configuration module always goes first.
	candidates := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		if !disabled[d.Name] && failed[d.Name] == "" {
			candidates = append(candidates, d.Name)
		}
	}

	inDegree := make(map[string]int, len(candidates))
	dependents := make(map[string][]string, len(candidates))
	candidateSet := toSet(candidates)
	for _, name := range candidates {
		for _, dep := range byName[name].Dependencies {
			if candidateSet[dep] {
				inDegree[name]++
				dependents[dep] = append(dependents[dep], name)
			}
		}
	}

	order := make([]string, 0, len(candidates))
	placed := make(map[string]bool, len(candidates))
	for len(order) < len(candidates) {
		next := ""
		for _, name := range candidates {
			if placed[name] || inDegree[name] > 0 {
				continue
			}
			if name == FirstModule {
				next = name
				break
			}
			if next == "" {
				next = name
			}
		}
		if next == "" {
			break // remaining candidates form a cycle
		}
		placed[next] = true
		order = append(order, next)
		for _, dep := range dependents[next] {
			inDegree[dep]--
		}
	}

	for _, name := range candidates {
		if !placed[name] {
			failed[name] = "dependency cycle detected"
		}
	}

	// Assemble resolutions: enabled modules in execution order, then
	// disabled and error modules in registration order.
	resolutions := make([]Resolution, 0, len(descriptors))
	for i, name := range order {
		resolutions = append(resolutions, Resolution{
			Name:   name,
			State:  StateEnabled,
			Config: mergeConfig(byName[name].Config, cfg.Settings[name]),
			Order:  i,
		})
	}

	rest := make([]Resolution, 0, len(descriptors)-len(order))
	var errs []error
	for _, d := range descriptors {
		if placed[d.Name] {
			continue
		}
		r := Resolution{Name: d.Name, Order: -1}
		if reason, ok := failed[d.Name]; ok && reason != "" {
			r.State = StateError
			r.Err = reason
			errs = append(errs, &ResolutionError{Module: d.Name, Reason: reason})
		} else {
			r.State = StateDisabled
		}
		rest = append(rest, r)
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return index[rest[i].Name] < index[rest[j].Name]
	})

	return append(resolutions, rest...), errs, nil
}

// mergeConfig overlays user settings on a module's default configuration
func mergeConfig(defaults, overrides map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(defaults)+len(overrides))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

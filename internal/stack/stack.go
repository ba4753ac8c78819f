// Package stack holds the component registry: the static, validated table of
// services that one orchestrator run manages.
//
// The registry is immutable after construction. Its declared order defines
// dependency precedence for sequential deployment: earlier components must be
// healthy before later ones start. Explicit dependsOn declarations are
// validated against that order at startup so a misordered registry fails fast
// instead of deploying a dependent before its dependency.
package stack

import (
	"fmt"
	"time"

	"stackctl/internal/config"
)

// Component is one independently deployable service in the stack.
// Components are defined at startup and never created or destroyed at runtime.
type Component struct {
	Name         string
	Port         int
	HealthPath   string
	DependsOn    []string
	StartupDelay time.Duration        // grace period before the next component starts (sequential mode)
	Backend      config.DeploymentMode // per-component override, empty means the global mode

	Definition config.ComponentDefinition // backend-specific fields (compose service, manifest, run command)
}

// HealthURL returns the component's health endpoint.
// Readiness means any non-error HTTP response from this URL.
func (c Component) HealthURL() string {
	path := c.HealthPath
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("http://localhost:%d%s", c.Port, path)
}

// Registry is the ordered, validated set of components for one run.
type Registry struct {
	components []Component
}

// NewRegistry builds and validates a registry from configuration.
// It returns a *config.ValidationError for duplicate names, port collisions,
// unknown or self-referential dependencies, and dependsOn declarations that
// contradict the declared order.
func NewRegistry(defs []config.ComponentDefinition) (*Registry, error) {
	if len(defs) == 0 {
		return nil, config.Validationf("component registry is empty")
	}

	seenNames := make(map[string]bool, len(defs))
	seenPorts := make(map[int]string, len(defs))
	position := make(map[string]int, len(defs))

	components := make([]Component, 0, len(defs))
	for i, def := range defs {
		if def.Name == "" {
			return nil, config.Validationf("component at index %d has no name", i)
		}
		if seenNames[def.Name] {
			return nil, config.Validationf("duplicate component name %q", def.Name)
		}
		seenNames[def.Name] = true
		position[def.Name] = i

		if def.Port <= 0 || def.Port > 65535 {
			return nil, config.Validationf("component %q has invalid port %d", def.Name, def.Port)
		}
		if other, taken := seenPorts[def.Port]; taken {
			return nil, config.Validationf("components %q and %q both declare port %d", other, def.Name, def.Port)
		}
		seenPorts[def.Port] = def.Name

		var backend config.DeploymentMode
		if def.Backend != "" {
			mode, err := config.ParseDeploymentMode(def.Backend)
			if err != nil {
				return nil, config.Validationf("component %q: %v", def.Name, err)
			}
			if mode == config.ModeMixed {
				return nil, config.Validationf("component %q cannot declare backend %q", def.Name, def.Backend)
			}
			backend = mode
		}

		components = append(components, Component{
			Name:         def.Name,
			Port:         def.Port,
			HealthPath:   def.HealthPath,
			DependsOn:    append([]string(nil), def.DependsOn...),
			StartupDelay: time.Duration(def.StartupDelaySeconds) * time.Second,
			Backend:      backend,
			Definition:   def,
		})
	}

	// Dependencies must name earlier components. This single check covers
	// unknown names, self references, cycles, and order violations at once,
	// because a cycle always has at least one forward edge.
	for _, c := range components {
		for _, dep := range c.DependsOn {
			depPos, known := position[dep]
			if !known {
				return nil, config.Validationf("component %q depends on unknown component %q", c.Name, dep)
			}
			if dep == c.Name {
				return nil, config.Validationf("component %q depends on itself", c.Name)
			}
			if depPos > position[c.Name] {
				return nil, config.Validationf("component %q depends on %q which is declared later; registry order must match dependencies", c.Name, dep)
			}
		}
	}

	return &Registry{components: components}, nil
}

// List returns all components in declared dependency order.
// The returned slice is a copy; the registry itself never changes.
func (r *Registry) List() []Component {
	out := make([]Component, len(r.components))
	copy(out, r.components)
	return out
}

// Get returns a component by name.
func (r *Registry) Get(name string) (Component, bool) {
	for _, c := range r.components {
		if c.Name == name {
			return c, true
		}
	}
	return Component{}, false
}

// Len returns the number of components in the stack.
func (r *Registry) Len() int {
	return len(r.components)
}

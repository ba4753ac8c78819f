// Package planner turns the component registry into an execution plan for
// one orchestrator run.
//
// Sequential mode yields one step per component in registry order, each
// carrying its declared inter-step delay. Parallel mode yields a single
// fan-out step containing every component; the planner performs no dependency
// reasoning in parallel mode. Components that declare dependencies are still
// launched together — a documented limitation, surfaced as a warning rather
// than silently reordered.
package planner

import (
	"stackctl/internal/config"
	"stackctl/internal/stack"
	"stackctl/pkg/logging"
)

// ExecutionMode selects how the plan is executed. All components in one run
// share a single mode.
type ExecutionMode string

const (
	ModeSequential ExecutionMode = "sequential"
	ModeParallel   ExecutionMode = "parallel"
)

// Step is one unit of the plan: a single component in sequential mode, the
// whole stack in parallel mode.
type Step struct {
	Components []stack.Component
}

// Plan produces the ordered steps for a run. An empty registry is a
// configuration error: a run over nothing is always a misconfiguration.
func Plan(registry *stack.Registry, mode ExecutionMode) ([]Step, error) {
	components := registry.List()
	if len(components) == 0 {
		return nil, config.Validationf("execution plan is empty")
	}

	switch mode {
	case ModeSequential:
		steps := make([]Step, 0, len(components))
		for _, c := range components {
			steps = append(steps, Step{Components: []stack.Component{c}})
		}
		return steps, nil

	case ModeParallel:
		for _, c := range components {
			if len(c.DependsOn) > 0 {
				logging.Warn("Planner", "Component %s depends on %v but parallel mode ignores dependency order", c.Name, c.DependsOn)
			}
		}
		return []Step{{Components: components}}, nil

	default:
		return nil, config.Validationf("unknown execution mode %q", mode)
	}
}

// ModeFromConfig maps the PARALLEL_DEPLOYMENT switch onto an ExecutionMode.
func ModeFromConfig(parallel bool) ExecutionMode {
	if parallel {
		return ModeParallel
	}
	return ModeSequential
}

package reporting

import (
	"fmt"
	"sync"
	"time"

	"stackctl/pkg/logging"
)

// Transition records one component outcome change within a run.
type Transition struct {
	Component string
	From      Outcome
	To        Outcome
	Timestamp time.Time
	Err       error
}

// RunLog is the per-run outcome table plus its append-only transition
// history. It is owned by the orchestrator for the run's lifetime. At most
// one goroutine writes any given component's outcome, but writes from
// different components may be concurrent in parallel mode, so the table is
// guarded by a single mutex.
type RunLog struct {
	mu          sync.Mutex
	order       []string
	outcomes    map[string]Outcome
	errs        map[string]error
	transitions []Transition
}

// NewRunLog creates a run log with every named component at NotStarted.
func NewRunLog(componentNames []string) *RunLog {
	outcomes := make(map[string]Outcome, len(componentNames))
	for _, name := range componentNames {
		outcomes[name] = OutcomeNotStarted
	}
	return &RunLog{
		order:    append([]string(nil), componentNames...),
		outcomes: outcomes,
		errs:     make(map[string]error),
	}
}

// Record moves a component to a new outcome. Backwards transitions indicate
// an orchestrator bug and are logged and dropped rather than corrupting the
// table.
func (l *RunLog) Record(component string, to Outcome, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	from, known := l.outcomes[component]
	if !known {
		logging.Warn("RunLog", "Transition for unknown component %s ignored", component)
		return
	}
	if to.rank() < from.rank() {
		logging.Warn("RunLog", "Backwards transition %s -> %s for component %s ignored", from, to, component)
		return
	}

	l.outcomes[component] = to
	if err != nil {
		l.errs[component] = err
	}
	l.transitions = append(l.transitions, Transition{
		Component: component,
		From:      from,
		To:        to,
		Timestamp: time.Now(),
		Err:       err,
	})

	if err != nil {
		logging.Error("RunLog", err, "Component %s: %s -> %s", component, from, to)
	} else {
		logging.Info("RunLog", "Component %s: %s -> %s", component, from, to)
	}
}

// Outcome returns a component's current outcome.
func (l *RunLog) Outcome(component string) Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.outcomes[component]
}

// Err returns the error recorded for a component, if any.
func (l *RunLog) Err(component string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.errs[component]
}

// Transitions returns a copy of the full transition history in order.
func (l *RunLog) Transitions() []Transition {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Transition, len(l.transitions))
	copy(out, l.transitions)
	return out
}

// Aggregate computes the stack result from the current outcome table.
// planningFailed forces TotalFailure regardless of component outcomes.
func (l *RunLog) Aggregate(planningFailed bool) StackResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	var failed []string
	healthy := 0
	for _, name := range l.order {
		if l.outcomes[name] == OutcomeHealthy {
			healthy++
		} else {
			failed = append(failed, name)
		}
	}

	switch {
	case planningFailed:
		return StackResult{Kind: ResultTotalFailure, Failed: failed}
	case len(failed) == 0:
		return StackResult{Kind: ResultAllHealthy}
	case healthy == 0:
		return StackResult{Kind: ResultTotalFailure, Failed: failed}
	default:
		return StackResult{Kind: ResultPartialFailure, Failed: failed}
	}
}

// Rows returns the per-component outcome table in registry order.
func (l *RunLog) Rows() []Row {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows := make([]Row, 0, len(l.order))
	for _, name := range l.order {
		var detail string
		if err := l.errs[name]; err != nil {
			detail = err.Error()
		}
		rows = append(rows, Row{Component: name, Outcome: l.outcomes[name], Detail: detail})
	}
	return rows
}

// Row is one line of the final report.
type Row struct {
	Component string
	Outcome   Outcome
	Detail    string
}

func (r Row) String() string {
	if r.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", r.Component, r.Outcome, r.Detail)
	}
	return fmt.Sprintf("%s: %s", r.Component, r.Outcome)
}

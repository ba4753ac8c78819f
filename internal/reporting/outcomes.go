package reporting

// Outcome is the deployment outcome of one component within a run.
// Transitions move forward only; a stop/restart cycle starts a fresh run
// with every component back at OutcomeNotStarted.
type Outcome string

const (
	OutcomeNotStarted         Outcome = "NotStarted"
	OutcomeDeploying          Outcome = "Deploying"
	OutcomeDeployed           Outcome = "Deployed"
	OutcomeHealthCheckPending Outcome = "HealthCheckPending"
	OutcomeHealthy            Outcome = "Healthy"
	OutcomeUnhealthy          Outcome = "Unhealthy"
	OutcomeDeployFailed       Outcome = "DeployFailed"
)

// rank orders outcomes along the forward-only transition path. Used to
// reject accidental backwards transitions in the run log.
func (o Outcome) rank() int {
	switch o {
	case OutcomeNotStarted:
		return 0
	case OutcomeDeploying:
		return 1
	case OutcomeDeployed:
		return 2
	case OutcomeHealthCheckPending:
		return 3
	case OutcomeHealthy, OutcomeUnhealthy, OutcomeDeployFailed:
		return 4
	default:
		return -1
	}
}

// Terminal reports whether the outcome can change no further within a run.
func (o Outcome) Terminal() bool {
	switch o {
	case OutcomeHealthy, OutcomeUnhealthy, OutcomeDeployFailed:
		return true
	default:
		return false
	}
}

// StackResultKind aggregates all component outcomes at the end of a run.
type StackResultKind string

const (
	// ResultAllHealthy means every component reached Healthy.
	ResultAllHealthy StackResultKind = "AllHealthy"
	// ResultPartialFailure means some but not all components reached Healthy.
	ResultPartialFailure StackResultKind = "PartialFailure"
	// ResultTotalFailure means planning failed or no component reached Healthy.
	ResultTotalFailure StackResultKind = "TotalFailure"
)

// StackResult is the aggregate verdict of one orchestrator run.
type StackResult struct {
	Kind StackResultKind
	// Failed names every component that did not reach Healthy, in registry
	// order. Components never attempted stay NotStarted in the run log and
	// are listed here too, so "failed" and "never attempted" remain
	// distinguishable via the per-component outcomes.
	Failed []string
}

// Success reports whether the run should exit zero.
func (r StackResult) Success() bool {
	return r.Kind == ResultAllHealthy
}

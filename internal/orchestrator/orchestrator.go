package orchestrator

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"stackctl/internal/config"
	"stackctl/internal/driver"
	"stackctl/internal/planner"
	"stackctl/internal/reporting"
	"stackctl/internal/stack"
	"stackctl/pkg/logging"
)

// Phase is the orchestrator's position in the run state machine.
type Phase string

const (
	PhaseIdle        Phase = "Idle"
	PhasePlanning    Phase = "Planning"
	PhaseExecuting   Phase = "Executing"
	PhaseProbing     Phase = "Probing"
	PhaseAggregating Phase = "Aggregating"
	PhaseDone        Phase = "Done"
)

// Prober verifies a component endpoint within a bounded time. Satisfied by
// *health.Prober.
type Prober interface {
	Probe(ctx context.Context, url string, timeout time.Duration) error
}

// Orchestrator coordinates one run over the component stack. It owns the
// per-run outcome table; the registry, mode and settings are read-only
// inputs shared by every run.
type Orchestrator struct {
	registry *stack.Registry
	driver   driver.Driver
	prober   Prober
	settings config.GlobalSettings

	mu     sync.Mutex
	phase  Phase
	runLog *reporting.RunLog
}

// New creates an orchestrator. It performs no backend calls; each command
// invokes Deploy, Stop, Status or Restart explicitly.
func New(registry *stack.Registry, drv driver.Driver, prober Prober, settings config.GlobalSettings) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		driver:   drv,
		prober:   prober,
		settings: settings,
		phase:    PhaseIdle,
	}
}

// Phase returns the current phase, for observability.
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

func (o *Orchestrator) setPhase(p Phase) {
	o.mu.Lock()
	o.phase = p
	o.mu.Unlock()
	logging.Info("Orchestrator", "Phase: %s", p)
}

// RunLog returns the outcome table of the most recent run.
func (o *Orchestrator) RunLog() *reporting.RunLog {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.runLog
}

// skipProbes reports whether probing is bypassed for this run. A dry run
// never touches real endpoints, so it always reports healthy.
func (o *Orchestrator) skipProbes() bool {
	return o.settings.SkipHealthChecks || o.settings.DryRun
}

func (o *Orchestrator) healthTimeout() time.Duration {
	seconds := o.settings.HealthCheckTimeoutSeconds
	if seconds <= 0 {
		seconds = config.DefaultHealthCheckTimeoutSeconds
	}
	return time.Duration(seconds) * time.Second
}

// Deploy executes one full run. The returned error is non-nil only for
// configuration errors surfaced during planning; component-level failures
// are captured in the outcome table and reflected in the StackResult.
func (o *Orchestrator) Deploy(ctx context.Context) (reporting.StackResult, error) {
	components := o.registry.List()
	names := make([]string, len(components))
	for i, c := range components {
		names[i] = c.Name
	}

	runLog := reporting.NewRunLog(names)
	o.mu.Lock()
	o.runLog = runLog
	o.mu.Unlock()

	mode := planner.ModeFromConfig(o.settings.ParallelDeployment)

	o.setPhase(PhasePlanning)
	plan, err := planner.Plan(o.registry, mode)
	if err != nil {
		o.setPhase(PhaseAggregating)
		result := runLog.Aggregate(true)
		o.setPhase(PhaseDone)
		return result, err
	}

	if mode == planner.ModeSequential {
		o.runSequential(ctx, runLog, plan)
	} else {
		o.runParallel(ctx, runLog, plan)
	}

	o.setPhase(PhaseAggregating)
	result := runLog.Aggregate(false)
	o.setPhase(PhaseDone)
	return result, nil
}

// runSequential deploys one step at a time in plan order, sleeping each
// component's startup delay before the next deploy, then probes the deployed
// components in the same order. The first failure of either kind aborts the
// remainder: later components keep their current outcome (NotStarted for
// never-deployed ones), which the report distinguishes from real failures.
func (o *Orchestrator) runSequential(ctx context.Context, runLog *reporting.RunLog, plan []planner.Step) {
	o.setPhase(PhaseExecuting)

	var deployed []stack.Component
	aborted := false
	for _, step := range plan {
		c := step.Components[0]
		if ctx.Err() != nil {
			logging.Warn("Orchestrator", "Run aborted, component %s not started", c.Name)
			aborted = true
			break
		}

		runLog.Record(c.Name, reporting.OutcomeDeploying, nil)
		if err := o.driver.Deploy(ctx, c); err != nil {
			runLog.Record(c.Name, reporting.OutcomeDeployFailed, err)
			logging.Error("Orchestrator", err, "Sequential deploy of %s failed, aborting remaining components", c.Name)
			aborted = true
			break
		}
		runLog.Record(c.Name, reporting.OutcomeDeployed, nil)
		deployed = append(deployed, c)

		// Startup grace period before dependents start.
		if c.StartupDelay > 0 {
			logging.Debug("Orchestrator", "Waiting %s before next component", c.StartupDelay)
			if !sleepCtx(ctx, c.StartupDelay) {
				aborted = true
				break
			}
		}
	}

	o.setPhase(PhaseProbing)
	if o.skipProbes() {
		o.markDeployedHealthy(runLog, deployed)
		return
	}

	for _, c := range deployed {
		if aborted || ctx.Err() != nil {
			// Earlier failure already doomed the run; leave the rest at
			// Deployed so the report shows they were never probed.
			return
		}
		runLog.Record(c.Name, reporting.OutcomeHealthCheckPending, nil)
		if err := o.prober.Probe(ctx, c.HealthURL(), o.healthTimeout()); err != nil {
			runLog.Record(c.Name, reporting.OutcomeUnhealthy, err)
			logging.Error("Orchestrator", err, "Health check for %s failed, aborting remaining probes", c.Name)
			aborted = true
			continue
		}
		runLog.Record(c.Name, reporting.OutcomeHealthy, nil)
	}
}

// runParallel fans out every deploy concurrently, then probes every
// successfully deployed component concurrently. Failures are isolated: all
// launches and probes are attempted regardless of sibling outcomes.
func (o *Orchestrator) runParallel(ctx context.Context, runLog *reporting.RunLog, plan []planner.Step) {
	o.setPhase(PhaseExecuting)

	// A plain errgroup.Group, not WithContext: a failing deploy must never
	// cancel its siblings. All launches are attempted regardless of outcome.
	components := plan[0].Components
	var g errgroup.Group
	for _, c := range components {
		c := c
		g.Go(func() error {
			if ctx.Err() != nil {
				logging.Warn("Orchestrator", "Run aborted, component %s not started", c.Name)
				return nil
			}
			runLog.Record(c.Name, reporting.OutcomeDeploying, nil)
			if err := o.driver.Deploy(ctx, c); err != nil {
				runLog.Record(c.Name, reporting.OutcomeDeployFailed, err)
				return err
			}
			runLog.Record(c.Name, reporting.OutcomeDeployed, nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logging.Warn("Orchestrator", "At least one parallel deploy failed: %v", err)
	}

	var deployed []stack.Component
	for _, c := range components {
		if runLog.Outcome(c.Name) == reporting.OutcomeDeployed {
			deployed = append(deployed, c)
		}
	}

	o.setPhase(PhaseProbing)
	if o.skipProbes() {
		o.markDeployedHealthy(runLog, deployed)
		return
	}

	var probes errgroup.Group
	for _, c := range deployed {
		c := c
		probes.Go(func() error {
			runLog.Record(c.Name, reporting.OutcomeHealthCheckPending, nil)
			if err := o.prober.Probe(ctx, c.HealthURL(), o.healthTimeout()); err != nil {
				runLog.Record(c.Name, reporting.OutcomeUnhealthy, err)
				return err
			}
			runLog.Record(c.Name, reporting.OutcomeHealthy, nil)
			return nil
		})
	}
	if err := probes.Wait(); err != nil {
		logging.Warn("Orchestrator", "At least one health check failed: %v", err)
	}
}

// markDeployedHealthy implements SKIP_HEALTH_CHECKS: every component whose
// deploy succeeded is treated as healthy without touching its endpoint.
func (o *Orchestrator) markDeployedHealthy(runLog *reporting.RunLog, deployed []stack.Component) {
	for _, c := range deployed {
		runLog.Record(c.Name, reporting.OutcomeHealthy, nil)
	}
	if len(deployed) > 0 {
		logging.Info("Orchestrator", "Health checks skipped, %d deployed component(s) assumed healthy", len(deployed))
	}
}

// Stop tears the stack down in reverse dependency order. Stop failures are
// logged and ignored so the command always completes.
func (o *Orchestrator) Stop(ctx context.Context) {
	components := o.registry.List()
	for i := len(components) - 1; i >= 0; i-- {
		c := components[i]
		if err := o.driver.Stop(ctx, c); err != nil {
			logging.Warn("Orchestrator", "Stop of %s failed (ignored): %v", c.Name, err)
			continue
		}
		logging.Info("Orchestrator", "Stopped component %s", c.Name)
	}
}

// Status probes every component's endpoint now and reports the result. It
// deploys nothing and reads no saved state.
func (o *Orchestrator) Status(ctx context.Context) []reporting.StatusRow {
	components := o.registry.List()
	rows := make([]reporting.StatusRow, 0, len(components))
	for _, c := range components {
		rows = append(rows, reporting.StatusRow{
			Component: c.Name,
			Health:    string(o.driver.Status(ctx, c)),
			URL:       c.HealthURL(),
		})
	}
	return rows
}

// Component looks a component up by name.
func (o *Orchestrator) Component(name string) (stack.Component, bool) {
	return o.registry.Get(name)
}

// Logs streams a component's backend log output until ctx is cancelled.
func (o *Orchestrator) Logs(ctx context.Context, c stack.Component, follow bool) error {
	return o.driver.Logs(ctx, c, follow)
}

// Restart stops the stack, waits out the cool-down, then runs a fresh
// deploy from Idle. A half-finished run is never resumed.
func (o *Orchestrator) Restart(ctx context.Context) (reporting.StackResult, error) {
	o.Stop(ctx)

	if cooldown := time.Duration(o.settings.RestartCooldownSeconds) * time.Second; cooldown > 0 {
		logging.Info("Orchestrator", "Cooling down for %s before redeploy", cooldown)
		if !sleepCtx(ctx, cooldown) {
			return reporting.StackResult{Kind: reporting.ResultTotalFailure}, ctx.Err()
		}
	}

	o.setPhase(PhaseIdle)
	return o.Deploy(ctx)
}

// sleepCtx sleeps for d unless ctx is cancelled first. Returns false on
// cancellation.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

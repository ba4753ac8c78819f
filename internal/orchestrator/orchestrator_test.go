package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackctl/internal/config"
	"stackctl/internal/health"
	"stackctl/internal/reporting"
	"stackctl/internal/stack"
)

func testRegistry(t *testing.T) *stack.Registry {
	t.Helper()
	registry, err := stack.NewRegistry([]config.ComponentDefinition{
		{Name: "shim", Port: 7777, HealthPath: "/health"},
		{Name: "agent", Port: 8080, HealthPath: "/health", DependsOn: []string{"shim"}},
	})
	require.NoError(t, err)
	return registry
}

func settings(parallel bool) config.GlobalSettings {
	return config.GlobalSettings{
		ParallelDeployment:        parallel,
		HealthCheckTimeoutSeconds: 1,
	}
}

func TestDeploy_SequentialAllHealthy(t *testing.T) {
	drv := newFakeDriver()
	prober := newFakeProber()
	o := New(testRegistry(t), drv, prober, settings(false))

	result, err := o.Deploy(context.Background())
	require.NoError(t, err)

	assert.Equal(t, reporting.ResultAllHealthy, result.Kind)
	assert.True(t, result.Success())
	assert.Equal(t, []string{"shim", "agent"}, drv.deployed())
	assert.Equal(t, PhaseDone, o.Phase())
	assert.Equal(t, reporting.OutcomeHealthy, o.RunLog().Outcome("shim"))
	assert.Equal(t, reporting.OutcomeHealthy, o.RunLog().Outcome("agent"))
}

func TestDeploy_SequentialAbortsAfterDeployFailure(t *testing.T) {
	drv := newFakeDriver()
	drv.failDeploy["shim"] = errBackendBoom
	prober := newFakeProber()
	o := New(testRegistry(t), drv, prober, settings(false))

	result, err := o.Deploy(context.Background())
	require.NoError(t, err)

	// agent must never have been attempted
	assert.Equal(t, []string{"shim"}, drv.deployed())
	assert.Equal(t, reporting.OutcomeDeployFailed, o.RunLog().Outcome("shim"))
	assert.Equal(t, reporting.OutcomeNotStarted, o.RunLog().Outcome("agent"))
	assert.Empty(t, prober.calls())

	// zero healthy components is a total failure
	assert.Equal(t, reporting.ResultTotalFailure, result.Kind)
	assert.Equal(t, []string{"shim", "agent"}, result.Failed)
}

func TestDeploy_SequentialProbeFailureAbortsRemainingProbes(t *testing.T) {
	drv := newFakeDriver()
	prober := newFakeProber()
	prober.fail["http://localhost:7777/health"] = health.ErrProbeTimeout
	o := New(testRegistry(t), drv, prober, settings(false))

	result, err := o.Deploy(context.Background())
	require.NoError(t, err)

	// both deploys happened, but agent was never probed
	assert.Equal(t, []string{"shim", "agent"}, drv.deployed())
	assert.Equal(t, []string{"http://localhost:7777/health"}, prober.calls())
	assert.Equal(t, reporting.OutcomeUnhealthy, o.RunLog().Outcome("shim"))
	assert.Equal(t, reporting.OutcomeDeployed, o.RunLog().Outcome("agent"))
	assert.Equal(t, reporting.ResultTotalFailure, result.Kind)
}

func TestDeploy_ParallelAttemptsEveryComponent(t *testing.T) {
	drv := newFakeDriver()
	drv.failDeploy["agent"] = errBackendBoom
	prober := newFakeProber()
	o := New(testRegistry(t), drv, prober, settings(true))

	result, err := o.Deploy(context.Background())
	require.NoError(t, err)

	// the failing sibling must not suppress the other launch
	assert.ElementsMatch(t, []string{"shim", "agent"}, drv.deployed())
	assert.Equal(t, reporting.OutcomeHealthy, o.RunLog().Outcome("shim"))
	assert.Equal(t, reporting.OutcomeDeployFailed, o.RunLog().Outcome("agent"))
	assert.Equal(t, reporting.ResultPartialFailure, result.Kind)
	assert.Equal(t, []string{"agent"}, result.Failed)
}

func TestDeploy_SkipHealthChecks(t *testing.T) {
	drv := newFakeDriver()
	prober := newFakeProber()
	// every probe would fail if it ran
	prober.fail["http://localhost:7777/health"] = health.ErrProbeTimeout
	prober.fail["http://localhost:8080/health"] = health.ErrProbeTimeout

	cfg := settings(false)
	cfg.SkipHealthChecks = true
	o := New(testRegistry(t), drv, prober, cfg)

	result, err := o.Deploy(context.Background())
	require.NoError(t, err)

	assert.Equal(t, reporting.ResultAllHealthy, result.Kind)
	assert.Empty(t, prober.calls())
}

func TestDeploy_DryRunNeverProbes(t *testing.T) {
	drv := newFakeDriver()
	prober := newFakeProber()
	prober.fail["http://localhost:7777/health"] = health.ErrProbeTimeout

	cfg := settings(false)
	cfg.DryRun = true
	o := New(testRegistry(t), drv, prober, cfg)

	result, err := o.Deploy(context.Background())
	require.NoError(t, err)

	assert.Equal(t, reporting.ResultAllHealthy, result.Kind)
	assert.Empty(t, prober.calls())
}

func TestDeploy_CancelledContextStartsNothing(t *testing.T) {
	drv := newFakeDriver()
	prober := newFakeProber()
	o := New(testRegistry(t), drv, prober, settings(false))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := o.Deploy(ctx)
	require.NoError(t, err)

	assert.Empty(t, drv.deployed())
	assert.Equal(t, reporting.OutcomeNotStarted, o.RunLog().Outcome("shim"))
	assert.Equal(t, reporting.OutcomeNotStarted, o.RunLog().Outcome("agent"))
	assert.Equal(t, reporting.ResultTotalFailure, result.Kind)
}

func TestStop_ReverseOrderAndBestEffort(t *testing.T) {
	drv := newFakeDriver()
	drv.failStop["agent"] = errBackendBoom
	o := New(testRegistry(t), drv, newFakeProber(), settings(false))

	o.Stop(context.Background())

	// dependents come down first; a stop failure does not halt the walk
	assert.Equal(t, []string{"agent", "shim"}, drv.stopped())
}

func TestStatus_Idempotent(t *testing.T) {
	drv := newFakeDriver()
	drv.statuses["shim"] = health.StatusHealthy
	drv.statuses["agent"] = health.StatusUnhealthy
	o := New(testRegistry(t), drv, newFakeProber(), settings(false))

	first := o.Status(context.Background())
	second := o.Status(context.Background())
	assert.Equal(t, first, second)

	require.Len(t, first, 2)
	assert.Equal(t, "shim", first[0].Component)
	assert.Equal(t, "Healthy", first[0].Health)
	assert.Equal(t, "agent", first[1].Component)
	assert.Equal(t, "Unhealthy", first[1].Health)
}

func TestRestart_StopsThenDeploysFresh(t *testing.T) {
	drv := newFakeDriver()
	prober := newFakeProber()
	cfg := settings(false)
	cfg.RestartCooldownSeconds = 0
	o := New(testRegistry(t), drv, prober, cfg)

	result, err := o.Restart(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"agent", "shim"}, drv.stopped())
	assert.Equal(t, []string{"shim", "agent"}, drv.deployed())
	assert.Equal(t, reporting.ResultAllHealthy, result.Kind)
}

package driver

import (
	"context"
	"fmt"

	"stackctl/internal/config"
	"stackctl/internal/health"
	"stackctl/internal/stack"
)

// Driver invokes the external deploy/stop procedure for one component on a
// specific backend. Deploy is not idempotent at the backend level: calling it
// twice for the same component may create duplicate resources, so the
// orchestrator never re-deploys a component within one run.
type Driver interface {
	// Name identifies the backend, e.g. "docker".
	Name() string

	// Deploy brings the component up. On success the component is expected to
	// become reachable at its declared port and health path. Failures carry
	// the backend's raw error text, never a summary of it.
	Deploy(ctx context.Context, c stack.Component) error

	// Stop tears the component down. Stop failures are non-fatal to callers.
	Stop(ctx context.Context, c stack.Component) error

	// Status reports the component's current health by probing its endpoint.
	// It never inspects backend process state.
	Status(ctx context.Context, c stack.Component) health.Status

	// Logs streams the component's log output until ctx is cancelled.
	Logs(ctx context.Context, c stack.Component, follow bool) error
}

// DeployError is the failure of one component's deploy call.
type DeployError struct {
	Component string
	Backend   string
	Output    string // raw stderr/stdout from the backend
	Err       error
}

func (e *DeployError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("deploy of %s on %s failed: %v: %s", e.Component, e.Backend, e.Err, e.Output)
	}
	return fmt.Sprintf("deploy of %s on %s failed: %v", e.Component, e.Backend, e.Err)
}

func (e *DeployError) Unwrap() error { return e.Err }

// StopError is the failure of one component's stop call. Callers log it and
// move on so stop and restart always complete.
type StopError struct {
	Component string
	Backend   string
	Output    string
	Err       error
}

func (e *StopError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("stop of %s on %s failed: %v: %s", e.Component, e.Backend, e.Err, e.Output)
	}
	return fmt.Sprintf("stop of %s on %s failed: %v", e.Component, e.Backend, e.Err)
}

func (e *StopError) Unwrap() error { return e.Err }

// probeStatus implements the shared Status contract: health is derived from
// the component's endpoint, whichever backend realizes it.
type probeStatus struct {
	prober *health.Prober
}

func (p probeStatus) Status(ctx context.Context, c stack.Component) health.Status {
	if p.prober == nil {
		return health.StatusUnknown
	}
	return p.prober.Check(ctx, c.HealthURL())
}

// New builds the driver for the configured deployment mode. Mixed mode
// returns a dispatcher that routes each component to its declared backend.
func New(cfg config.StackctlConfig, prober *health.Prober) (Driver, error) {
	if cfg.GlobalSettings.DryRun {
		return NewDryRunDriver(string(cfg.GlobalSettings.DeploymentMode)), nil
	}

	switch cfg.GlobalSettings.DeploymentMode {
	case config.ModeDocker:
		return NewDockerDriver(cfg.Docker, prober)
	case config.ModeKubernetes:
		return NewKubernetesDriver(cfg.Kubernetes, prober)
	case config.ModeSource:
		return NewSourceDriver(cfg.Source, prober), nil
	case config.ModeMixed:
		return newMixedDriver(cfg, prober)
	default:
		return nil, config.Validationf("unknown deployment mode %q", cfg.GlobalSettings.DeploymentMode)
	}
}

// mixedDriver dispatches per component based on its backend override,
// defaulting to docker for components without one.
type mixedDriver struct {
	drivers map[config.DeploymentMode]Driver
}

func newMixedDriver(cfg config.StackctlConfig, prober *health.Prober) (Driver, error) {
	docker, err := NewDockerDriver(cfg.Docker, prober)
	if err != nil {
		return nil, err
	}
	kube, err := NewKubernetesDriver(cfg.Kubernetes, prober)
	if err != nil {
		return nil, err
	}
	return &mixedDriver{
		drivers: map[config.DeploymentMode]Driver{
			config.ModeDocker:     docker,
			config.ModeKubernetes: kube,
			config.ModeSource:     NewSourceDriver(cfg.Source, prober),
		},
	}, nil
}

func (m *mixedDriver) Name() string { return "mixed" }

func (m *mixedDriver) driverFor(c stack.Component) Driver {
	backend := c.Backend
	if backend == "" {
		backend = config.ModeDocker
	}
	return m.drivers[backend]
}

func (m *mixedDriver) Deploy(ctx context.Context, c stack.Component) error {
	return m.driverFor(c).Deploy(ctx, c)
}

func (m *mixedDriver) Stop(ctx context.Context, c stack.Component) error {
	return m.driverFor(c).Stop(ctx, c)
}

func (m *mixedDriver) Status(ctx context.Context, c stack.Component) health.Status {
	return m.driverFor(c).Status(ctx, c)
}

func (m *mixedDriver) Logs(ctx context.Context, c stack.Component, follow bool) error {
	return m.driverFor(c).Logs(ctx, c, follow)
}

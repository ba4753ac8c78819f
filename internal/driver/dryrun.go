package driver

import (
	"context"

	"stackctl/internal/health"
	"stackctl/internal/stack"
	"stackctl/pkg/logging"
)

// DryRunDriver logs the actions a real backend would take and always
// succeeds. It reports every component as healthy so a dry run exercises the
// full orchestration path without touching any backend.
type DryRunDriver struct {
	mode string
}

// NewDryRunDriver creates the no-op driver. mode names the backend the dry
// run stands in for, purely for log context.
func NewDryRunDriver(mode string) *DryRunDriver {
	return &DryRunDriver{mode: mode}
}

func (d *DryRunDriver) Name() string { return "dry-run" }

func (d *DryRunDriver) Deploy(ctx context.Context, c stack.Component) error {
	logging.Info("DryRunDriver", "[dry-run] would deploy component %s on %s (port %d)", c.Name, d.mode, c.Port)
	return nil
}

func (d *DryRunDriver) Stop(ctx context.Context, c stack.Component) error {
	logging.Info("DryRunDriver", "[dry-run] would stop component %s on %s", c.Name, d.mode)
	return nil
}

func (d *DryRunDriver) Status(ctx context.Context, c stack.Component) health.Status {
	return health.StatusHealthy
}

func (d *DryRunDriver) Logs(ctx context.Context, c stack.Component, follow bool) error {
	logging.Info("DryRunDriver", "[dry-run] would tail logs for component %s", c.Name)
	return nil
}

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stackctl/internal/config"
	"stackctl/internal/driver"
	"stackctl/internal/health"
	"stackctl/internal/orchestrator"
	"stackctl/internal/stack"
	"stackctl/pkg/logging"
)

// buildOrchestrator loads configuration and wires the registry, prober and
// backend driver into an orchestrator. Configuration errors surface here,
// before any component is touched.
func buildOrchestrator() (*orchestrator.Orchestrator, config.StackctlConfig, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, config.StackctlConfig{}, err
	}

	// The --log-level flag wins; otherwise the config file's level applies.
	if !rootCmd.PersistentFlags().Changed("log-level") && cfg.GlobalSettings.LogLevel != "" {
		logging.InitForCLI(logging.ParseLevel(cfg.GlobalSettings.LogLevel), os.Stderr)
	}

	registry, err := stack.NewRegistry(cfg.Components)
	if err != nil {
		return nil, config.StackctlConfig{}, err
	}

	interval := cfg.GlobalSettings.HealthCheckIntervalSeconds
	if interval <= 0 {
		interval = config.DefaultHealthCheckIntervalSeconds
	}
	prober := health.NewProber(time.Duration(interval) * time.Second)

	drv, err := driver.New(cfg, prober)
	if err != nil {
		return nil, config.StackctlConfig{}, err
	}

	return orchestrator.New(registry, drv, prober, cfg.GlobalSettings), cfg, nil
}

// signalContext returns a context cancelled on interrupt or termination, so
// an operator abort stops in-flight probes and prevents further deploys.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

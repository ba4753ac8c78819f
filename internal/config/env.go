package config

import (
	"strconv"

	"github.com/spf13/viper"
)

// Environment variable names recognized at runtime. These are deliberately
// unprefixed to stay compatible with the deploy scripts that predate stackctl.
const (
	EnvDeploymentMode     = "DEPLOYMENT_MODE"
	EnvParallelDeployment = "PARALLEL_DEPLOYMENT"
	EnvSkipHealthChecks   = "SKIP_HEALTH_CHECKS"
	EnvDryRun             = "DRY_RUN"
	EnvHealthCheckTimeout = "HEALTH_CHECK_TIMEOUT"
)

// ApplyEnvironment overrides global settings from the process environment.
// Malformed values return a ValidationError rather than being ignored, so a
// typo in DEPLOYMENT_MODE can never silently deploy to the wrong backend.
func ApplyEnvironment(cfg *StackctlConfig) error {
	v := viper.New()
	v.AutomaticEnv()

	if v.IsSet(EnvDeploymentMode) {
		mode, err := ParseDeploymentMode(v.GetString(EnvDeploymentMode))
		if err != nil {
			return err
		}
		cfg.GlobalSettings.DeploymentMode = mode
	}

	if v.IsSet(EnvParallelDeployment) {
		b, err := parseBoolEnv(EnvParallelDeployment, v.GetString(EnvParallelDeployment))
		if err != nil {
			return err
		}
		cfg.GlobalSettings.ParallelDeployment = b
	}

	if v.IsSet(EnvSkipHealthChecks) {
		b, err := parseBoolEnv(EnvSkipHealthChecks, v.GetString(EnvSkipHealthChecks))
		if err != nil {
			return err
		}
		cfg.GlobalSettings.SkipHealthChecks = b
	}

	if v.IsSet(EnvDryRun) {
		b, err := parseBoolEnv(EnvDryRun, v.GetString(EnvDryRun))
		if err != nil {
			return err
		}
		cfg.GlobalSettings.DryRun = b
	}

	if v.IsSet(EnvHealthCheckTimeout) {
		raw := v.GetString(EnvHealthCheckTimeout)
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return Validationf("%s must be a positive integer number of seconds, got %q", EnvHealthCheckTimeout, raw)
		}
		cfg.GlobalSettings.HealthCheckTimeoutSeconds = seconds
	}

	return nil
}

func parseBoolEnv(name, raw string) (bool, error) {
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, Validationf("%s must be true or false, got %q", name, raw)
	}
	return b, nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/stackctl"
	projectConfigDir = ".stackctl"
	configFileName   = "config.yaml"
)

// LoadConfig loads the stackctl configuration by layering default, user,
// project and environment settings.
func LoadConfig() (StackctlConfig, error) {
	// 1. Start with the default configuration
	config := GetDefaultConfig()

	// 2. Determine user-specific configuration path
	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// Log this error but don't fail; user config is optional
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else {
		if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
			userConfig, err := loadConfigFromFile(userConfigPath)
			if err != nil {
				return StackctlConfig{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
			}
			config = mergeConfigs(config, userConfig)
		}
	}

	// 3. Determine project-specific configuration path
	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else {
		if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
			projectConfig, err := loadConfigFromFile(projectConfigPath)
			if err != nil {
				return StackctlConfig{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
			}
			config = mergeConfigs(config, projectConfig)
		}
	}

	// 4. Environment variables win over everything for a single invocation
	if err := ApplyEnvironment(&config); err != nil {
		return StackctlConfig{}, err
	}

	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir() // Use mockable variable
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd() // Use mockable variable
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// loadConfigFromFile loads a StackctlConfig from a YAML file.
func loadConfigFromFile(filePath string) (StackctlConfig, error) {
	var config StackctlConfig
	data, err := os.ReadFile(filePath)
	if err != nil {
		return StackctlConfig{}, err
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return StackctlConfig{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config.
func mergeConfigs(base, overlay StackctlConfig) StackctlConfig {
	mergedConfig := base

	// Merge GlobalSettings (overlay overrides base where set)
	if overlay.GlobalSettings.DeploymentMode != "" {
		mergedConfig.GlobalSettings.DeploymentMode = overlay.GlobalSettings.DeploymentMode
	}
	if overlay.GlobalSettings.HealthCheckTimeoutSeconds != 0 {
		mergedConfig.GlobalSettings.HealthCheckTimeoutSeconds = overlay.GlobalSettings.HealthCheckTimeoutSeconds
	}
	if overlay.GlobalSettings.HealthCheckIntervalSeconds != 0 {
		mergedConfig.GlobalSettings.HealthCheckIntervalSeconds = overlay.GlobalSettings.HealthCheckIntervalSeconds
	}
	if overlay.GlobalSettings.RestartCooldownSeconds != 0 {
		mergedConfig.GlobalSettings.RestartCooldownSeconds = overlay.GlobalSettings.RestartCooldownSeconds
	}
	if overlay.GlobalSettings.LogLevel != "" {
		mergedConfig.GlobalSettings.LogLevel = overlay.GlobalSettings.LogLevel
	}
	// Booleans cannot be distinguished from "unset" in YAML without pointers;
	// an overlay that sets any component list is taken to own the switches too.
	mergedConfig.GlobalSettings.ParallelDeployment = base.GlobalSettings.ParallelDeployment || overlay.GlobalSettings.ParallelDeployment
	mergedConfig.GlobalSettings.SkipHealthChecks = base.GlobalSettings.SkipHealthChecks || overlay.GlobalSettings.SkipHealthChecks
	mergedConfig.GlobalSettings.DryRun = base.GlobalSettings.DryRun || overlay.GlobalSettings.DryRun

	// An overlay that declares components replaces the component list
	// wholesale. Partial merges by name would silently reorder the stack and
	// break dependency precedence, so we don't do them.
	if len(overlay.Components) > 0 {
		mergedConfig.Components = overlay.Components
	}

	// Merge backend settings
	if overlay.Docker.ComposeFile != "" {
		mergedConfig.Docker.ComposeFile = overlay.Docker.ComposeFile
	}
	if overlay.Docker.ProjectName != "" {
		mergedConfig.Docker.ProjectName = overlay.Docker.ProjectName
	}
	if overlay.Kubernetes.Kubeconfig != "" {
		mergedConfig.Kubernetes.Kubeconfig = overlay.Kubernetes.Kubeconfig
	}
	if overlay.Kubernetes.Context != "" {
		mergedConfig.Kubernetes.Context = overlay.Kubernetes.Context
	}
	if overlay.Kubernetes.Namespace != "" {
		mergedConfig.Kubernetes.Namespace = overlay.Kubernetes.Namespace
	}
	if overlay.Kubernetes.ManifestDir != "" {
		mergedConfig.Kubernetes.ManifestDir = overlay.Kubernetes.ManifestDir
	}
	if overlay.Source.LogDir != "" {
		mergedConfig.Source.LogDir = overlay.Source.LogDir
	}

	return mergedConfig
}

// GetUserConfigDir returns the user configuration directory path
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

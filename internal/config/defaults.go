package config

// Default timing values, in seconds. The probe timeout matches the slowest
// observed cold start of the agent platform with a comfortable margin.
const (
	DefaultHealthCheckTimeoutSeconds  = 120
	DefaultHealthCheckIntervalSeconds = 2
	DefaultRestartCooldownSeconds     = 5
)

// GetDefaultConfig returns the built-in configuration: the standard five
// component stack in dependency order, deployed with docker compose.
func GetDefaultConfig() StackctlConfig {
	return StackctlConfig{
		GlobalSettings: GlobalSettings{
			DeploymentMode:             ModeDocker,
			ParallelDeployment:         false,
			SkipHealthChecks:           false,
			DryRun:                     false,
			HealthCheckTimeoutSeconds:  DefaultHealthCheckTimeoutSeconds,
			HealthCheckIntervalSeconds: DefaultHealthCheckIntervalSeconds,
			RestartCooldownSeconds:     DefaultRestartCooldownSeconds,
			LogLevel:                   "info",
		},
		Components: []ComponentDefinition{
			{
				Name:                "postgres",
				Port:                5432,
				HealthPath:          "/",
				StartupDelaySeconds: 5,
			},
			{
				Name:                "redis",
				Port:                6379,
				HealthPath:          "/",
				StartupDelaySeconds: 2,
			},
			{
				Name:                "middleware",
				Port:                7777,
				HealthPath:          "/health",
				DependsOn:           []string{"postgres", "redis"},
				StartupDelaySeconds: 10,
			},
			{
				Name:                "agent-platform",
				Port:                8080,
				HealthPath:          "/health",
				DependsOn:           []string{"postgres", "middleware"},
				StartupDelaySeconds: 10,
			},
			{
				Name:                "rpa-platform",
				Port:                8090,
				HealthPath:          "/api/health",
				DependsOn:           []string{"postgres", "middleware"},
				StartupDelaySeconds: 0,
			},
		},
		Docker: DockerSettings{
			ComposeFile: "docker-compose.yaml",
			ProjectName: "stackctl",
		},
		Kubernetes: KubernetesSettings{
			Namespace:   "default",
			ManifestDir: "manifests",
		},
		Source: SourceSettings{
			LogDir: ".stackctl/logs",
		},
	}
}

package config

import (
	"fmt"
)

// DeploymentMode selects the backend used to realize components.
type DeploymentMode string

const (
	ModeDocker     DeploymentMode = "docker"
	ModeKubernetes DeploymentMode = "kubernetes"
	ModeSource     DeploymentMode = "source"
	// ModeMixed dispatches per component using its backend override,
	// falling back to docker for components without one.
	ModeMixed DeploymentMode = "mixed"
)

// ParseDeploymentMode validates a mode string from config or environment.
func ParseDeploymentMode(s string) (DeploymentMode, error) {
	switch DeploymentMode(s) {
	case ModeDocker, ModeKubernetes, ModeSource, ModeMixed:
		return DeploymentMode(s), nil
	default:
		return "", &ValidationError{Msg: fmt.Sprintf("unknown deployment mode %q (expected docker, kubernetes, source or mixed)", s)}
	}
}

// StackctlConfig is the top-level configuration structure for stackctl.
type StackctlConfig struct {
	GlobalSettings GlobalSettings        `yaml:"globalSettings"`
	Components     []ComponentDefinition `yaml:"components"`
	Docker         DockerSettings        `yaml:"docker"`
	Kubernetes     KubernetesSettings    `yaml:"kubernetes"`
	Source         SourceSettings        `yaml:"source"`
}

// GlobalSettings holds the per-run switches for the orchestrator.
type GlobalSettings struct {
	DeploymentMode             DeploymentMode `yaml:"deploymentMode,omitempty"`             // "docker", "kubernetes", "source" or "mixed"
	ParallelDeployment         bool           `yaml:"parallelDeployment,omitempty"`         // fan out deploys instead of dependency order
	SkipHealthChecks           bool           `yaml:"skipHealthChecks,omitempty"`           // treat every deployed component as healthy
	DryRun                     bool           `yaml:"dryRun,omitempty"`                     // log intended actions without touching any backend
	HealthCheckTimeoutSeconds  int            `yaml:"healthCheckTimeoutSeconds,omitempty"`  // global probe timeout (default 120)
	HealthCheckIntervalSeconds int            `yaml:"healthCheckIntervalSeconds,omitempty"` // probe poll cadence (default 2)
	RestartCooldownSeconds     int            `yaml:"restartCooldownSeconds,omitempty"`     // pause between stop and deploy on restart (default 5)
	LogLevel                   string         `yaml:"logLevel,omitempty"`                   // "debug", "info", "warn", "error"
}

// ComponentDefinition defines one deployable service in the stack.
type ComponentDefinition struct {
	Name                string   `yaml:"name"`                          // Unique name, e.g. "middleware", "agent-platform"
	Port                int      `yaml:"port"`                          // Listening port the health probe targets
	HealthPath          string   `yaml:"healthPath,omitempty"`          // Health endpoint path (default "/")
	DependsOn           []string `yaml:"dependsOn,omitempty"`           // Names of components that must be healthy first
	StartupDelaySeconds int      `yaml:"startupDelaySeconds,omitempty"` // Grace period before the next component starts (sequential mode)
	Backend             string   `yaml:"backend,omitempty"`             // Per-component backend override for mixed mode

	// Fields for the docker backend
	ComposeService string `yaml:"composeService,omitempty"` // Compose service name (defaults to component name)

	// Fields for the kubernetes backend
	Manifest  string `yaml:"manifest,omitempty"`  // Manifest file (defaults to <manifestDir>/<name>.yaml)
	Namespace string `yaml:"namespace,omitempty"` // Namespace override (defaults to kubernetes.namespace)

	// Fields for the source backend
	BuildCommand string            `yaml:"buildCommand,omitempty"` // Command run once before launch, e.g. "go build ./..."
	RunCommand   string            `yaml:"runCommand,omitempty"`   // Command that runs the service
	WorkDir      string            `yaml:"workDir,omitempty"`      // Working directory for build/run
	Env          map[string]string `yaml:"env,omitempty"`          // Extra environment for the process
}

// DockerSettings configures the docker compose backend.
type DockerSettings struct {
	ComposeFile string `yaml:"composeFile,omitempty"` // Path to the compose file (default "docker-compose.yaml")
	ProjectName string `yaml:"projectName,omitempty"` // Compose project name (default "stackctl")
}

// KubernetesSettings configures the kubernetes backend.
type KubernetesSettings struct {
	Kubeconfig  string `yaml:"kubeconfig,omitempty"`  // Kubeconfig path (default: client-go loading rules)
	Context     string `yaml:"context,omitempty"`     // Kube context override
	Namespace   string `yaml:"namespace,omitempty"`   // Namespace components deploy into (default "default")
	ManifestDir string `yaml:"manifestDir,omitempty"` // Directory holding per-component manifests (default "manifests")
}

// SourceSettings configures the built-from-source backend.
type SourceSettings struct {
	LogDir string `yaml:"logDir,omitempty"` // Directory for per-component process logs (default ".stackctl/logs")
}

// ValidationError reports bad or inconsistent configuration. It is the only
// error class that aborts a run before any component is touched.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "configuration error: " + e.Msg
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

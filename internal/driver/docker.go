package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/compose-spec/compose-go/v2/loader"
	composetypes "github.com/compose-spec/compose-go/v2/types"

	"stackctl/internal/config"
	"stackctl/internal/health"
	"stackctl/internal/stack"
	"stackctl/pkg/logging"
)

// DockerDriver realizes components as docker compose services.
//
// The compose project is parsed up front so a component that maps to no
// declared compose service fails with a clear error before `docker compose`
// is ever invoked. Loading is lazy: in mixed mode a stack without docker
// components must not require a compose file to exist.
type DockerDriver struct {
	probeStatus

	settings config.DockerSettings

	loadOnce sync.Once
	project  *composetypes.Project
	loadErr  error
}

// NewDockerDriver creates the docker compose backend driver.
func NewDockerDriver(settings config.DockerSettings, prober *health.Prober) (*DockerDriver, error) {
	if settings.ComposeFile == "" {
		settings.ComposeFile = "docker-compose.yaml"
	}
	if settings.ProjectName == "" {
		settings.ProjectName = "stackctl"
	}
	return &DockerDriver{
		probeStatus: probeStatus{prober: prober},
		settings:    settings,
	}, nil
}

func (d *DockerDriver) Name() string { return "docker" }

// loadProject parses and validates the compose file once per driver.
func (d *DockerDriver) loadProject() (*composetypes.Project, error) {
	d.loadOnce.Do(func() {
		d.project, d.loadErr = loadComposeProject(d.settings.ComposeFile, d.settings.ProjectName)
	})
	return d.project, d.loadErr
}

func loadComposeProject(composeFile, projectName string) (*composetypes.Project, error) {
	data, err := os.ReadFile(composeFile)
	if err != nil {
		return nil, fmt.Errorf("read compose file %s: %w", composeFile, err)
	}

	env := make(composetypes.Mapping)
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		env[key] = value
	}

	details := composetypes.ConfigDetails{
		WorkingDir: filepath.Dir(composeFile),
		ConfigFiles: []composetypes.ConfigFile{
			{Filename: composeFile, Content: data},
		},
		Environment: env,
	}

	project, err := loader.Load(details, func(o *loader.Options) {
		o.SetProjectName(projectName, true)
	})
	if err != nil {
		return nil, fmt.Errorf("parse compose file %s: %w", composeFile, err)
	}
	return project, nil
}

// serviceName resolves which compose service realizes the component.
func (d *DockerDriver) serviceName(c stack.Component) (string, error) {
	name := c.Definition.ComposeService
	if name == "" {
		name = c.Name
	}

	project, err := d.loadProject()
	if err != nil {
		return "", err
	}
	if _, err := project.GetService(name); err != nil {
		return "", fmt.Errorf("component %s maps to compose service %q which is not declared in %s", c.Name, name, d.settings.ComposeFile)
	}
	return name, nil
}

func (d *DockerDriver) composeArgs(args ...string) []string {
	base := []string{"compose", "-f", d.settings.ComposeFile, "-p", d.settings.ProjectName}
	return append(base, args...)
}

// Deploy starts the component's compose service detached.
func (d *DockerDriver) Deploy(ctx context.Context, c stack.Component) error {
	service, err := d.serviceName(c)
	if err != nil {
		return &DeployError{Component: c.Name, Backend: d.Name(), Err: err}
	}

	logging.Info("DockerDriver", "Starting compose service %s for component %s", service, c.Name)
	_, stderr, err := runCommand(ctx, "", nil, "docker", d.composeArgs("up", "-d", service)...)
	if err != nil {
		return &DeployError{Component: c.Name, Backend: d.Name(), Output: stderr, Err: err}
	}
	return nil
}

// Stop stops the component's compose service. The container is kept so logs
// remain inspectable; `docker compose down` is left to the operator.
func (d *DockerDriver) Stop(ctx context.Context, c stack.Component) error {
	service, err := d.serviceName(c)
	if err != nil {
		return &StopError{Component: c.Name, Backend: d.Name(), Err: err}
	}

	logging.Info("DockerDriver", "Stopping compose service %s for component %s", service, c.Name)
	_, stderr, err := runCommand(ctx, "", nil, "docker", d.composeArgs("stop", service)...)
	if err != nil {
		return &StopError{Component: c.Name, Backend: d.Name(), Output: stderr, Err: err}
	}
	return nil
}

// Logs tails the compose service's output.
func (d *DockerDriver) Logs(ctx context.Context, c stack.Component, follow bool) error {
	service, err := d.serviceName(c)
	if err != nil {
		return err
	}
	args := d.composeArgs("logs")
	if follow {
		args = append(args, "-f")
	}
	args = append(args, service)
	return streamCommand(ctx, "", "docker", args...)
}

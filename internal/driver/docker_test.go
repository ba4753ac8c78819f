package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackctl/internal/config"
	"stackctl/internal/health"
	"stackctl/internal/stack"
)

const testComposeFile = `
services:
  middleware:
    image: example/middleware:latest
    ports:
      - "7777:7777"
  agent-platform:
    image: example/agent-platform:latest
    ports:
      - "8080:8080"
`

func writeComposeFile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "docker-compose.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testComposeFile), 0o644))
	return path
}

func component(t *testing.T, name string, port int) stack.Component {
	t.Helper()
	registry, err := stack.NewRegistry([]config.ComponentDefinition{
		{Name: name, Port: port},
	})
	require.NoError(t, err)
	c, ok := registry.Get(name)
	require.True(t, ok)
	return c
}

func TestDockerDriver_ServiceNameResolution(t *testing.T) {
	d, err := NewDockerDriver(config.DockerSettings{
		ComposeFile: writeComposeFile(t),
		ProjectName: "stackctl-test",
	}, health.NewProber(time.Second))
	require.NoError(t, err)

	name, err := d.serviceName(component(t, "middleware", 7777))
	require.NoError(t, err)
	assert.Equal(t, "middleware", name)
}

func TestDockerDriver_UndeclaredServiceFailsBeforeCompose(t *testing.T) {
	d, err := NewDockerDriver(config.DockerSettings{
		ComposeFile: writeComposeFile(t),
		ProjectName: "stackctl-test",
	}, health.NewProber(time.Second))
	require.NoError(t, err)

	deployErr := d.Deploy(context.Background(), component(t, "ghost", 9999))
	require.Error(t, deployErr)

	var dErr *DeployError
	require.ErrorAs(t, deployErr, &dErr)
	assert.Equal(t, "ghost", dErr.Component)
	assert.Equal(t, "docker", dErr.Backend)
	assert.Contains(t, dErr.Error(), "not declared")
}

func TestDockerDriver_ComposeServiceOverride(t *testing.T) {
	d, err := NewDockerDriver(config.DockerSettings{
		ComposeFile: writeComposeFile(t),
		ProjectName: "stackctl-test",
	}, health.NewProber(time.Second))
	require.NoError(t, err)

	registry, err := stack.NewRegistry([]config.ComponentDefinition{
		{Name: "agents", Port: 8080, ComposeService: "agent-platform"},
	})
	require.NoError(t, err)
	c, _ := registry.Get("agents")

	name, err := d.serviceName(c)
	require.NoError(t, err)
	assert.Equal(t, "agent-platform", name)
}

func TestDockerDriver_MissingComposeFileSurfacesOnDeploy(t *testing.T) {
	d, err := NewDockerDriver(config.DockerSettings{
		ComposeFile: filepath.Join(t.TempDir(), "nope.yaml"),
	}, health.NewProber(time.Second))
	require.NoError(t, err)

	deployErr := d.Deploy(context.Background(), component(t, "middleware", 7777))
	assert.Error(t, deployErr)
}

package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackctl/internal/config"
)

func validDefs() []config.ComponentDefinition {
	return []config.ComponentDefinition{
		{Name: "postgres", Port: 5432},
		{Name: "redis", Port: 6379},
		{Name: "middleware", Port: 7777, HealthPath: "/health", DependsOn: []string{"postgres", "redis"}},
	}
}

func TestNewRegistry_ValidOrderPreserved(t *testing.T) {
	registry, err := NewRegistry(validDefs())
	require.NoError(t, err)

	components := registry.List()
	require.Len(t, components, 3)
	assert.Equal(t, "postgres", components[0].Name)
	assert.Equal(t, "redis", components[1].Name)
	assert.Equal(t, "middleware", components[2].Name)
	assert.Equal(t, 3, registry.Len())
}

func TestNewRegistry_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		defs []config.ComponentDefinition
	}{
		{
			name: "empty registry",
			defs: nil,
		},
		{
			name: "duplicate name",
			defs: []config.ComponentDefinition{
				{Name: "postgres", Port: 5432},
				{Name: "postgres", Port: 5433},
			},
		},
		{
			name: "port collision",
			defs: []config.ComponentDefinition{
				{Name: "postgres", Port: 5432},
				{Name: "redis", Port: 5432},
			},
		},
		{
			name: "missing name",
			defs: []config.ComponentDefinition{
				{Port: 5432},
			},
		},
		{
			name: "invalid port",
			defs: []config.ComponentDefinition{
				{Name: "postgres", Port: 0},
			},
		},
		{
			name: "unknown dependency",
			defs: []config.ComponentDefinition{
				{Name: "middleware", Port: 7777, DependsOn: []string{"postgres"}},
			},
		},
		{
			name: "self dependency",
			defs: []config.ComponentDefinition{
				{Name: "middleware", Port: 7777, DependsOn: []string{"middleware"}},
			},
		},
		{
			name: "dependency declared later than dependent",
			defs: []config.ComponentDefinition{
				{Name: "middleware", Port: 7777, DependsOn: []string{"postgres"}},
				{Name: "postgres", Port: 5432},
			},
		},
		{
			name: "mixed backend on component",
			defs: []config.ComponentDefinition{
				{Name: "postgres", Port: 5432, Backend: "mixed"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.defs)
			require.Error(t, err)
			var vErr *config.ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}

func TestComponent_HealthURL(t *testing.T) {
	registry, err := NewRegistry([]config.ComponentDefinition{
		{Name: "middleware", Port: 7777, HealthPath: "/health"},
		{Name: "redis", Port: 6379},
	})
	require.NoError(t, err)

	mw, ok := registry.Get("middleware")
	require.True(t, ok)
	assert.Equal(t, "http://localhost:7777/health", mw.HealthURL())

	// empty path defaults to the root
	redis, ok := registry.Get("redis")
	require.True(t, ok)
	assert.Equal(t, "http://localhost:6379/", redis.HealthURL())

	_, ok = registry.Get("nope")
	assert.False(t, ok)
}

func TestNewRegistry_BackendOverride(t *testing.T) {
	registry, err := NewRegistry([]config.ComponentDefinition{
		{Name: "postgres", Port: 5432, Backend: "kubernetes"},
		{Name: "redis", Port: 6379},
	})
	require.NoError(t, err)

	pg, _ := registry.Get("postgres")
	assert.Equal(t, config.ModeKubernetes, pg.Backend)

	redis, _ := registry.Get("redis")
	assert.Empty(t, redis.Backend)
}

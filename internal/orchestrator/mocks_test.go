package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"stackctl/internal/health"
	"stackctl/internal/stack"
)

// fakeDriver records every call and fails the components it is told to.
type fakeDriver struct {
	mu          sync.Mutex
	deployOrder []string
	stopOrder   []string
	failDeploy  map[string]error
	failStop    map[string]error
	statuses    map[string]health.Status
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		failDeploy: make(map[string]error),
		failStop:   make(map[string]error),
		statuses:   make(map[string]health.Status),
	}
}

func (d *fakeDriver) Name() string { return "fake" }

func (d *fakeDriver) Deploy(ctx context.Context, c stack.Component) error {
	d.mu.Lock()
	d.deployOrder = append(d.deployOrder, c.Name)
	d.mu.Unlock()
	if err := d.failDeploy[c.Name]; err != nil {
		return err
	}
	return nil
}

func (d *fakeDriver) Stop(ctx context.Context, c stack.Component) error {
	d.mu.Lock()
	d.stopOrder = append(d.stopOrder, c.Name)
	d.mu.Unlock()
	if err := d.failStop[c.Name]; err != nil {
		return err
	}
	return nil
}

func (d *fakeDriver) Status(ctx context.Context, c stack.Component) health.Status {
	if s, ok := d.statuses[c.Name]; ok {
		return s
	}
	return health.StatusUnhealthy
}

func (d *fakeDriver) Logs(ctx context.Context, c stack.Component, follow bool) error {
	return nil
}

func (d *fakeDriver) deployed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.deployOrder...)
}

func (d *fakeDriver) stopped() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.stopOrder...)
}

// fakeProber fails the URLs it is told to and records what it probed.
type fakeProber struct {
	mu     sync.Mutex
	probed []string
	fail   map[string]error
}

func newFakeProber() *fakeProber {
	return &fakeProber{fail: make(map[string]error)}
}

func (p *fakeProber) Probe(ctx context.Context, url string, timeout time.Duration) error {
	p.mu.Lock()
	p.probed = append(p.probed, url)
	p.mu.Unlock()
	if err := p.fail[url]; err != nil {
		return err
	}
	return nil
}

func (p *fakeProber) calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.probed...)
}

var errBackendBoom = errors.New("backend exploded: exit status 1")

// Package health implements the bounded, cancellable HTTP health probe used
// to decide whether a deployed component is ready.
package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"stackctl/pkg/logging"
)

// Status is the result of a single health observation.
type Status string

const (
	StatusHealthy   Status = "Healthy"
	StatusUnhealthy Status = "Unhealthy"
	StatusUnknown   Status = "Unknown"
)

// ErrProbeTimeout is returned when an endpoint never became ready within the
// probe deadline. Callers decide whether that is fatal; the prober never
// retries past a declared timeout.
var ErrProbeTimeout = errors.New("health probe timed out")

// Prober polls a health endpoint on a fixed cadence until it responds or a
// deadline elapses.
type Prober struct {
	interval time.Duration
	client   *http.Client
}

// NewProber creates a prober with the given poll interval. Each individual
// request is bounded by the interval so a hung endpoint cannot stall the
// polling loop.
func NewProber(interval time.Duration) *Prober {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Prober{
		interval: interval,
		client: &http.Client{
			Timeout: interval,
		},
	}
}

// Interval returns the poll cadence.
func (p *Prober) Interval() time.Duration {
	return p.interval
}

// Probe polls url until it returns a non-error response or timeout elapses.
// It returns nil once the endpoint is ready, ErrProbeTimeout (wrapped with
// the elapsed time and last observed error) on deadline, and the context's
// error immediately if the caller cancels — a whole-run abort must not wait
// out the timeout.
func (p *Prober) Probe(ctx context.Context, url string, timeout time.Duration) error {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var lastErr error
	for {
		err := p.attempt(probeCtx, url)
		if err == nil {
			logging.Debug("HealthProber", "Endpoint %s ready after %s", url, time.Since(start).Round(time.Millisecond))
			return nil
		}
		lastErr = err
		logging.Debug("HealthProber", "Endpoint %s not ready: %v", url, err)

		select {
		case <-ticker.C:
		case <-probeCtx.Done():
			// Distinguish caller cancellation from our own deadline.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w after %s: last error: %v", ErrProbeTimeout, time.Since(start).Round(time.Second), lastErr)
		}
	}
}

// Check performs a single observation of url, for status reporting.
// It never polls; an unreachable or erroring endpoint is simply Unhealthy.
func (p *Prober) Check(ctx context.Context, url string) Status {
	if err := p.attempt(ctx, url); err != nil {
		return StatusUnhealthy
	}
	return StatusHealthy
}

// attempt issues one GET against url. Any response below 500 counts as
// ready: the stack's components disagree on readiness payloads, so the
// contract is "any non-error response", matching what the deploy scripts
// always checked.
func (p *Prober) attempt(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbe_ImmediatelyHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewProber(20 * time.Millisecond)
	err := p.Probe(context.Background(), srv.URL, time.Second)
	assert.NoError(t, err)
}

func TestProbe_NonErrorResponseCountsAsReady(t *testing.T) {
	// readiness contract is "any non-error response", so a 404 root page is
	// ready while a 503 is not
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewProber(20 * time.Millisecond)
	assert.NoError(t, p.Probe(context.Background(), srv.URL, time.Second))
}

func TestProbe_BecomesHealthyAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewProber(20 * time.Millisecond)
	err := p.Probe(context.Background(), srv.URL, 2*time.Second)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(3))
}

func TestProbe_TimesOutAtDeadlineNotEarlierNotForever(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewProber(50 * time.Millisecond)
	start := time.Now()
	err := p.Probe(context.Background(), srv.URL, 200*time.Millisecond)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProbeTimeout)
	assert.GreaterOrEqual(t, elapsed, 150*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestProbe_UnreachableEndpointTimesOut(t *testing.T) {
	p := NewProber(30 * time.Millisecond)
	// nothing listens here
	err := p.Probe(context.Background(), "http://127.0.0.1:1/", 150*time.Millisecond)
	assert.ErrorIs(t, err, ErrProbeTimeout)
}

func TestProbe_CancellationStopsPollingImmediately(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewProber(50 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(80 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := p.Probe(ctx, srv.URL, 10*time.Second)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	// must not have waited out the 10s timeout
	assert.Less(t, elapsed, time.Second)
}

func TestCheck_SingleObservation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewProber(20 * time.Millisecond)
	assert.Equal(t, StatusHealthy, p.Check(context.Background(), srv.URL))
	assert.Equal(t, StatusUnhealthy, p.Check(context.Background(), "http://127.0.0.1:1/"))
}

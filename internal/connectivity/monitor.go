// Package connectivity observes the runtime's online/offline signal.
package connectivity

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Monitor exposes the current boolean connectivity state and notifies
// subscribers exactly once per actual transition. It has no side effects
// beyond observation.
//
// A monitor that cannot detect connectivity starts online: writes are at
// least attempted, and a real failure demotes them through the sync
// service's own error handling.
type Monitor struct {
	mu     sync.Mutex
	online bool
	subs   []func(online bool)
	probe  func(ctx context.Context) bool
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithProbe sets the function used by Run to sample connectivity.
func WithProbe(probe func(ctx context.Context) bool) Option {
	return func(m *Monitor) {
		m.probe = probe
	}
}

// NewMonitor creates a Monitor in the fail-safe initial state: online.
func NewMonitor(opts ...Option) *Monitor {
	m := &Monitor{online: true}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Online returns the current connectivity state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// OnChange registers a transition callback. Callbacks run synchronously
// on the goroutine that reported the transition, in registration order.
func (m *Monitor) OnChange(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// SetOnline reports an observed connectivity state. Repeating the current
// state is a no-op: subscribers fire once per actual transition.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	subs := make([]func(bool), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	// Callbacks run outside the lock so they may call back into the monitor.
	for _, fn := range subs {
		fn(online)
	}
}

// Run samples the probe at the given interval until ctx is canceled.
// Without a probe configured it returns immediately, leaving the state
// at the fail-safe default.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	if m.probe == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.SetOnline(m.probe(ctx))
		}
	}
}

// HTTPProbe builds a probe that considers the endpoint reachable when a
// HEAD request completes, regardless of status code: a rejection still
// proves the network path works.
func HTTPProbe(client *http.Client, endpoint string, timeout time.Duration) func(ctx context.Context) bool {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context) bool {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodHead, endpoint, nil)
		if err != nil {
			return false
		}
		resp, err := client.Do(req)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return true
	}
}

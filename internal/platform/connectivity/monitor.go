// Package connectivity maintains the network reachability signal the
// sync coordinator consults when choosing between the remote store and
// the local cache.
//
// The monitor is a pure signal holder: it performs no probing, no
// polling, and no retries. Transitions are pushed into it by whatever
// observes the network path. In this service that is the downstream
// HTTP client's circuit breaker, whose open/closed transitions track
// actual transport failures.
package connectivity

import (
	"log/slog"
	"sync"
)

// Monitor holds the current boolean "is connected" signal and notifies
// registered callbacks on each transition.
type Monitor struct {
	mu        sync.RWMutex
	online    bool
	callbacks []func(online bool)
	logger    *slog.Logger
}

// NewMonitor creates a monitor with the given initial state.
// Services start optimistic: the first failed call flips the signal.
func NewMonitor(initial bool, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Monitor{
		online: initial,
		logger: logger.With(slog.String("component", "connectivity.Monitor")),
	}
}

// Online reports the current reachability flag.
func (m *Monitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// Set pushes a new reachability state. Callbacks fire only on an actual
// transition, outside the lock.
func (m *Monitor) Set(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	callbacks := make([]func(bool), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	m.logger.Info("connectivity changed", slog.Bool("online", online))

	for _, fn := range callbacks {
		fn(online)
	}
}

// Notify registers a callback invoked on every transition.
// Registration order is preserved.
func (m *Monitor) Notify(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

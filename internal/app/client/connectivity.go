package client

import (
	"context"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

// Event marks a reachability transition. Online is the new state.
type Event struct {
	Online bool
	At     time.Time
}

// Probe checks server reachability. A nil error means reachable.
type Probe func(ctx context.Context) error

// Monitor tracks whether the server is believed reachable. The belief
// is advisory: submissions may still fail while online, and flipping
// offline never blocks recording.
type Monitor struct {
	probe    Probe
	interval time.Duration
	log      *slog.Logger

	mu     sync.RWMutex
	online bool

	events chan Event
}

func NewMonitor(probe Probe, interval time.Duration, log *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = 15 * time.Second
	}

	return &Monitor{
		probe:    probe,
		interval: interval,
		log:      log,
		events:   make(chan Event, 8),
	}
}

// IsOnline returns the current reachability belief.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// Events delivers edge-triggered transitions. Steady state produces
// nothing. Slow consumers lose events rather than stalling the probe.
func (m *Monitor) Events() <-chan Event {
	return m.events
}

// SetOnline overrides the reachability belief, emitting an event if
// the state changed.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	changed := m.online != online
	m.online = online
	m.mu.Unlock()

	if !changed {
		return
	}

	m.log.Info("connectivity changed", slog.Bool("online", online))

	select {
	case m.events <- Event{Online: online, At: time.Now()}:
	default:
		m.log.Warn("connectivity event dropped, consumer too slow")
	}
}

// Check probes once and updates the belief. Returns the new state.
func (m *Monitor) Check(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := m.probe(probeCtx)
	if err != nil {
		m.log.Debug("connectivity probe failed", slog.String("error", err.Error()))
	}
	m.SetOnline(err == nil)

	return err == nil
}

// Start polls the probe until ctx is cancelled. It probes immediately,
// then on every interval tick.
func (m *Monitor) Start(ctx context.Context) {
	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

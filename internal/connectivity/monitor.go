// Package connectivity observes network reachability for diagnostics.
// The monitor probes on a schedule and classifies the result; nothing in the
// agent changes behavior on it except skipping telemetry pushes that are
// known to be doomed.
package connectivity

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Status is the connectivity classification.
type Status int

const (
	// StatusUnknown means no probe has completed yet.
	StatusUnknown Status = iota

	// Disconnected means the local link is down.
	Disconnected

	// ConnectedNoInternet means the link is up but the internet probe failed,
	// typically a captive portal.
	ConnectedNoInternet

	// Connected means the internet probe succeeded.
	Connected
)

// String returns the classification in the wire casing the display layer shows.
func (s Status) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case ConnectedNoInternet:
		return "connected-no-internet"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// Online reports whether telemetry pushes are worth attempting.
func (s Status) Online() bool {
	return s == Connected || s == ConnectedNoInternet
}

// ProbeFunc checks one reachability layer. A nil return means reachable.
type ProbeFunc func(ctx context.Context) error

const (
	defaultSchedule     = "@every 15s"
	defaultProbeTimeout = 5 * time.Second
	defaultLinkTarget   = "1.1.1.1:53"
	defaultProbeURL     = "http://clients3.google.com/generate_204"
)

// Monitor periodically probes the network and publishes the classification.
type Monitor struct {
	cron     *cron.Cron
	logger   *slog.Logger
	schedule string

	linkProbe     ProbeFunc
	internetProbe ProbeFunc

	mu          sync.RWMutex
	current     Status
	subscribers []chan Status
}

// Option configures optional monitor behavior.
type Option func(*Monitor)

// WithSchedule overrides the probe schedule (cron spec, "@every 15s" by default).
func WithSchedule(schedule string) Option {
	return func(m *Monitor) {
		if schedule != "" {
			m.schedule = schedule
		}
	}
}

// WithLinkProbe overrides the local-link probe.
func WithLinkProbe(probe ProbeFunc) Option {
	return func(m *Monitor) {
		if probe != nil {
			m.linkProbe = probe
		}
	}
}

// WithInternetProbe overrides the internet reachability probe.
func WithInternetProbe(probe ProbeFunc) Option {
	return func(m *Monitor) {
		if probe != nil {
			m.internetProbe = probe
		}
	}
}

// NewMonitor creates a connectivity monitor with default probes.
func NewMonitor(logger *slog.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		cron:          cron.New(),
		logger:        logger.With("component", "connectivity_monitor"),
		schedule:      defaultSchedule,
		linkProbe:     dialProbe(defaultLinkTarget),
		internetProbe: httpProbe(defaultProbeURL),
		current:       StatusUnknown,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Start probes once immediately and then on the configured schedule.
func (m *Monitor) Start() error {
	if _, err := m.cron.AddFunc(m.schedule, m.check); err != nil {
		return fmt.Errorf("failed to schedule connectivity probe: %w", err)
	}

	m.check()
	m.cron.Start()
	m.logger.Info("Connectivity monitor started", "schedule", m.schedule)
	return nil
}

// Stop stops the scheduled probes.
func (m *Monitor) Stop() {
	m.cron.Stop()
	m.logger.Info("Connectivity monitor stopped")
}

// Current returns the latest classification.
func (m *Monitor) Current() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Subscribe returns a channel receiving classification changes and a
// function that cancels the subscription and closes the channel.
// The channel is buffered; a slow subscriber misses intermediate states,
// never the latest one. Calling the cancel function more than once is safe.
func (m *Monitor) Subscribe() (<-chan Status, func()) {
	ch := make(chan Status, 1)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	unsubscribe := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, sub := range m.subscribers {
			if sub == ch {
				m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, unsubscribe
}

func (m *Monitor) check() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultProbeTimeout)
	defer cancel()

	status := Connected
	if err := m.linkProbe(ctx); err != nil {
		status = Disconnected
	} else if err := m.internetProbe(ctx); err != nil {
		status = ConnectedNoInternet
	}

	m.publish(status)
}

func (m *Monitor) publish(status Status) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if status == m.current {
		return
	}
	m.logger.Info("Connectivity changed", "from", m.current.String(), "to", status.String())
	m.current = status

	for _, ch := range m.subscribers {
		// Replace a stale pending value so subscribers always see the latest.
		select {
		case ch <- status:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- status:
			default:
			}
		}
	}
}

func dialProbe(target string) ProbeFunc {
	return func(ctx context.Context) error {
		var dialer net.Dialer
		conn, err := dialer.DialContext(ctx, "tcp", target)
		if err != nil {
			return err
		}
		return conn.Close()
	}
}

func httpProbe(url string) ProbeFunc {
	client := &http.Client{Timeout: defaultProbeTimeout}
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("probe endpoint returned status %d", resp.StatusCode)
		}
		return nil
	}
}

// Package gpsd adapts a gpsd daemon into the agent's position source port.
// Access requests probe the daemon socket; fixes come from TPV reports.
// Each read or subscription opens its own gpsd session because the protocol
// offers no way to detach a single filter from a shared watch.
package gpsd

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"courieragent/internal/core/domain/model/kernel"
	"courieragent/internal/core/domain/model/tracking"
	"courieragent/internal/core/ports"
	"courieragent/internal/pkg/errs"

	gpsdclient "github.com/stratoberry/go-gpsd"
)

const (
	// DefaultAddress is the conventional gpsd listen address.
	DefaultAddress = "localhost:2947"

	tpvClass = "TPV"

	// mode 2 is a 2D fix, mode 3 a 3D fix; anything lower carries no position.
	minUsableMode = 2
)

var _ ports.PositionSource = (*Source)(nil)

// Source reads position fixes from a gpsd daemon.
type Source struct {
	address string
	logger  *slog.Logger
}

// NewSource creates a gpsd-backed position source.
func NewSource(address string, logger *slog.Logger) (*Source, error) {
	if strings.TrimSpace(address) == "" {
		address = DefaultAddress
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &Source{
		address: address,
		logger:  logger.With("component", "gpsd"),
	}, nil
}

// SupportsStreaming reports true: gpsd delivers TPV reports continuously.
func (s *Source) SupportsStreaming() bool {
	return true
}

// RequestForegroundAccess probes the daemon socket. An unreachable daemon is
// a denial: the agent cannot read positions at all.
func (s *Source) RequestForegroundAccess(_ context.Context) (ports.AccessStatus, error) {
	session, err := gpsdclient.Dial(s.address)
	if err != nil {
		s.logger.Warn("gpsd unreachable", "address", s.address, "error", err)
		return ports.AccessDenied, errs.NewPermissionDeniedErrorWithCause("foreground", err)
	}
	_ = session.Close()

	return ports.AccessGranted, nil
}

// RequestBackgroundAccess probes the daemon socket. A daemon grants the same
// access regardless of caller lifecycle, so this mirrors the foreground probe
// except that a denial is reported without an error: callers fall back to
// polling instead of failing.
func (s *Source) RequestBackgroundAccess(_ context.Context) (ports.AccessStatus, error) {
	session, err := gpsdclient.Dial(s.address)
	if err != nil {
		return ports.AccessDenied, nil
	}
	_ = session.Close()

	return ports.AccessGranted, nil
}

// CurrentFix waits for the first usable TPV report, at most timeout.
func (s *Source) CurrentFix(ctx context.Context, timeout time.Duration) (tracking.Fix, error) {
	session, err := gpsdclient.Dial(s.address)
	if err != nil {
		return tracking.Fix{}, errs.NewLocationUnavailableErrorWithCause(timeout, err)
	}
	defer func() { _ = session.Close() }()

	fixes := make(chan tracking.Fix, 1)
	session.AddFilter(tpvClass, func(r interface{}) {
		report, ok := r.(*gpsdclient.TPVReport)
		if !ok {
			return
		}
		fix, ok := s.fixFromReport(report)
		if !ok {
			return
		}
		select {
		case fixes <- fix:
		default:
		}
	})
	session.Watch()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case fix := <-fixes:
		return fix, nil
	case <-timer.C:
		return tracking.Fix{}, errs.NewLocationUnavailableError(timeout)
	case <-ctx.Done():
		return tracking.Fix{}, errs.NewLocationUnavailableErrorWithCause(timeout, ctx.Err())
	}
}

// Subscribe opens a TPV stream filtered by the subscription filter.
func (s *Source) Subscribe(_ context.Context, filter tracking.SubscriptionFilter) (ports.Subscription, error) {
	session, err := gpsdclient.Dial(s.address)
	if err != nil {
		return nil, errs.NewPermissionDeniedErrorWithCause("foreground", err)
	}

	sub := &subscription{
		session: session,
		fixes:   make(chan tracking.Fix, 16),
	}

	var mu sync.Mutex
	var last *tracking.Fix
	session.AddFilter(tpvClass, func(r interface{}) {
		report, ok := r.(*gpsdclient.TPVReport)
		if !ok {
			return
		}
		fix, ok := s.fixFromReport(report)
		if !ok {
			return
		}

		mu.Lock()
		admitted := filter.Admits(last, fix)
		if admitted {
			prev := fix
			last = &prev
		}
		mu.Unlock()
		if !admitted {
			return
		}

		sub.deliver(fix)
	})
	session.Watch()

	return sub, nil
}

// fixFromReport converts a TPV report, dropping reports without a position.
func (s *Source) fixFromReport(report *gpsdclient.TPVReport) (tracking.Fix, bool) {
	if report.Mode < minUsableMode {
		return tracking.Fix{}, false
	}

	point, err := kernel.NewGeoPoint(report.Lat, report.Lon)
	if err != nil {
		s.logger.Warn("gpsd reported an out-of-range position", "error", err)
		return tracking.Fix{}, false
	}

	capturedAt := report.Time
	if capturedAt.IsZero() {
		capturedAt = time.Now()
	}

	fix, err := tracking.NewFix(point, horizontalAccuracy(report), report.Track, report.Speed, capturedAt)
	if err != nil {
		return tracking.Fix{}, false
	}
	return fix, true
}

// horizontalAccuracy reduces gpsd's per-axis error estimates to a single
// horizontal figure. Reports without estimates yield -1 (unreported).
func horizontalAccuracy(report *gpsdclient.TPVReport) float64 {
	accuracy := report.Epx
	if report.Epy > accuracy {
		accuracy = report.Epy
	}
	if accuracy <= 0 {
		return -1
	}
	return accuracy
}

type subscription struct {
	session *gpsdclient.Session
	fixes   chan tracking.Fix

	mu     sync.Mutex
	closed bool
}

func (s *subscription) Fixes() <-chan tracking.Fix {
	return s.fixes
}

func (s *subscription) Unsubscribe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	_ = s.session.Close()
	close(s.fixes)
}

// deliver drops the fix if the subscriber stopped draining or unsubscribed.
func (s *subscription) deliver(fix tracking.Fix) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.fixes <- fix:
	default:
	}
}

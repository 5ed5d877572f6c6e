// Package telemetry owns the location sampling session.
// At most one session exists at a time, bound to a single assignment. The
// agent negotiates position source access, selects the sampling mode the
// platform supports, and pushes every admitted fix to the backend. Push
// failures never stop a running session.
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"courieragent/internal/connectivity"
	"courieragent/internal/core/domain/model/kernel"
	"courieragent/internal/core/domain/model/tracking"
	"courieragent/internal/core/ports"
	"courieragent/internal/pkg/errs"
)

const (
	defaultPollInterval = 30 * time.Second
	defaultFixTimeout   = 10 * time.Second
	defaultPushTimeout  = 15 * time.Second
)

// ConnectivityReader exposes the current connectivity classification.
type ConnectivityReader interface {
	Current() connectivity.Status
}

var _ ports.Tracker = (*Agent)(nil)

// session is the agent's single mutable record of sampling activity.
type session struct {
	assignmentID kernel.UUID
	mode         tracking.Mode
	state        tracking.SessionState
	lastSampleAt time.Time
	lastError    string
	sampler      sampler
}

// Agent implements the tracking session over a position source and the
// backend location endpoint.
type Agent struct {
	source  ports.PositionSource
	backend ports.Backend
	network ConnectivityReader
	logger  *slog.Logger

	pollInterval time.Duration
	fixTimeout   time.Duration
	pushTimeout  time.Duration
	filter       tracking.SubscriptionFilter

	// opMu serializes Start/Stop/Reconcile; mu guards the session record so
	// sampler callbacks and Snapshot never wait on a lifecycle operation.
	opMu sync.Mutex
	mu   sync.RWMutex
	sess *session
}

// Option configures optional agent behavior.
type Option func(*Agent)

// WithPollInterval overrides the polling cadence.
func WithPollInterval(interval time.Duration) Option {
	return func(a *Agent) {
		if interval > 0 {
			a.pollInterval = interval
		}
	}
}

// WithFixTimeout overrides how long a one-shot fix may take.
func WithFixTimeout(timeout time.Duration) Option {
	return func(a *Agent) {
		if timeout > 0 {
			a.fixTimeout = timeout
		}
	}
}

// WithSubscriptionFilter overrides the event-driven displacement/interval filter.
func WithSubscriptionFilter(filter tracking.SubscriptionFilter) Option {
	return func(a *Agent) {
		a.filter = filter
	}
}

// NewAgent creates a telemetry agent. The connectivity reader may be nil, in
// which case every push is attempted.
func NewAgent(
	source ports.PositionSource,
	backend ports.Backend,
	network ConnectivityReader,
	logger *slog.Logger,
	opts ...Option,
) *Agent {
	a := &Agent{
		source:       source,
		backend:      backend,
		network:      network,
		logger:       logger.With("component", "telemetry_agent"),
		pollInterval: defaultPollInterval,
		fixTimeout:   defaultFixTimeout,
		pushTimeout:  defaultPushTimeout,
		filter:       tracking.DefaultSubscriptionFilter(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Start begins sampling for the given assignment.
// Starting the already-sampled assignment is a no-op; starting a different
// one first stops the running session. A foreground access denial leaves the
// session registered in Errored so its last error stays inspectable.
func (a *Agent) Start(ctx context.Context, assignmentID kernel.UUID) error {
	if err := assignmentID.Validate(); err != nil {
		return err
	}

	a.opMu.Lock()
	defer a.opMu.Unlock()
	return a.start(ctx, assignmentID)
}

// start runs the session bring-up. Callers hold opMu.
func (a *Agent) start(ctx context.Context, assignmentID kernel.UUID) error {
	a.mu.RLock()
	current := a.sess
	a.mu.RUnlock()

	if current != nil && current.assignmentID.IsEqual(assignmentID) && current.state == tracking.Sampling {
		return nil
	}
	if current != nil && current.sampler != nil {
		a.stopCurrent()
	}

	a.setSession(&session{assignmentID: assignmentID, state: tracking.AcquiringPermission})
	a.logger.InfoContext(ctx, "Tracking session starting", "assignment_id", assignmentID.String())

	status, err := a.source.RequestForegroundAccess(ctx)
	if status != ports.AccessGranted {
		if err == nil {
			err = errs.NewPermissionDeniedError("foreground")
		}
		a.update(func(s *session) {
			s.state = tracking.Errored
			s.lastError = err.Error()
		})
		a.logger.WarnContext(ctx, "Tracking session denied position access", "error", err)
		return err
	}

	mode := tracking.Polling
	if a.source.SupportsStreaming() {
		if bg, _ := a.source.RequestBackgroundAccess(ctx); bg == ports.AccessGranted {
			mode = tracking.EventDriven
		}
	}
	a.update(func(s *session) { s.mode = mode })

	// Initial fix, best-effort: neither an unavailable fix nor a failed push
	// aborts the session.
	if fix, fixErr := a.source.CurrentFix(ctx, a.fixTimeout); fixErr != nil {
		a.logger.WarnContext(ctx, "Initial fix unavailable", "error", fixErr)
		a.update(func(s *session) { s.lastError = fixErr.Error() })
	} else {
		a.pushFix(assignmentID, fix)
	}

	smp, err := a.newSampler(ctx, assignmentID, mode)
	if err != nil {
		a.update(func(s *session) {
			s.state = tracking.Errored
			s.lastError = err.Error()
		})
		return err
	}
	if err := smp.Run(); err != nil {
		a.update(func(s *session) {
			s.state = tracking.Errored
			s.lastError = err.Error()
		})
		return err
	}

	a.update(func(s *session) {
		s.state = tracking.Sampling
		s.sampler = smp
	})
	a.logger.InfoContext(ctx, "Tracking session sampling",
		"assignment_id", assignmentID.String(), "mode", mode.String())
	return nil
}

// Stop ends the running session. Idempotent; returns only after the sampling
// goroutine has exited, so a following Start never overlaps timers or
// subscriptions.
func (a *Agent) Stop(ctx context.Context) error {
	a.opMu.Lock()
	defer a.opMu.Unlock()
	return a.stop(ctx)
}

// stop runs the session teardown. Callers hold opMu.
func (a *Agent) stop(ctx context.Context) error {
	a.mu.RLock()
	active := a.sess != nil
	a.mu.RUnlock()
	if !active {
		return nil
	}

	a.stopCurrent()
	a.logger.InfoContext(ctx, "Tracking session stopped")
	return nil
}

// Reconcile aligns the session with an assignment's trackable state. The
// whole operation runs under the lifecycle lock: between observing whose
// session is running and stopping it, no concurrent Start can swap the
// session, so a not-trackable reconcile never stops another assignment's
// session.
func (a *Agent) Reconcile(ctx context.Context, assignmentID kernel.UUID, trackable bool) error {
	if err := assignmentID.Validate(); err != nil {
		return err
	}

	a.opMu.Lock()
	defer a.opMu.Unlock()

	if trackable {
		return a.start(ctx, assignmentID)
	}

	a.mu.RLock()
	tracked := a.sess != nil && a.sess.assignmentID.IsEqual(assignmentID)
	a.mu.RUnlock()
	if !tracked {
		return nil
	}
	return a.stop(ctx)
}

// Shutdown stops any active session. Wired to process termination.
func (a *Agent) Shutdown(ctx context.Context) error {
	return a.Stop(ctx)
}

// Snapshot reports the current session for observers.
func (a *Agent) Snapshot() tracking.SessionSnapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.sess == nil {
		return tracking.SessionSnapshot{State: tracking.Stopped}
	}
	return tracking.SessionSnapshot{
		AssignmentID: a.sess.assignmentID.String(),
		Mode:         a.sess.mode,
		State:        a.sess.state,
		LastSampleAt: a.sess.lastSampleAt,
		LastError:    a.sess.lastError,
	}
}

func (a *Agent) newSampler(ctx context.Context, assignmentID kernel.UUID, mode tracking.Mode) (sampler, error) {
	push := func(fix tracking.Fix) { a.pushFix(assignmentID, fix) }

	if mode == tracking.EventDriven {
		subscription, err := a.source.Subscribe(ctx, a.filter)
		if err == nil {
			return newEventDrivenSampler(subscription, push), nil
		}
		// Streaming was granted but the watch could not be opened; degrade to
		// polling rather than giving up the session.
		a.logger.WarnContext(ctx, "Falling back to polling", "error", err)
		a.update(func(s *session) { s.mode = tracking.Polling })
	}

	return newPollingSampler(a.source, a.pollInterval, a.fixTimeout, push, a.logger), nil
}

// pushFix transmits one fix for the assignment. Failures are logged and
// recorded as the session's last error; sampling continues regardless.
func (a *Agent) pushFix(assignmentID kernel.UUID, fix tracking.Fix) {
	if a.network != nil && a.network.Current() == connectivity.Disconnected {
		a.logger.Debug("Skipping location push while disconnected",
			"assignment_id", assignmentID.String())
		return
	}

	sample, err := tracking.NewLocationSample(assignmentID, fix)
	if err != nil {
		a.logger.Warn("Dropping invalid location sample", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.pushTimeout)
	defer cancel()

	pushErr := a.backend.PushLocation(ctx, sample)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sess == nil || !a.sess.assignmentID.IsEqual(assignmentID) {
		return
	}
	a.sess.lastSampleAt = fix.CapturedAt
	if pushErr != nil {
		a.sess.lastError = pushErr.Error()
		a.logger.Warn("Location push failed", "assignment_id", assignmentID.String(), "error", pushErr)
	}
}

// stopCurrent detaches the session under the state lock and joins the
// sampler outside it, so an in-flight push never deadlocks against the join.
func (a *Agent) stopCurrent() {
	a.mu.Lock()
	current := a.sess
	a.sess = nil
	a.mu.Unlock()

	if current != nil && current.sampler != nil {
		current.sampler.Stop()
	}
}

func (a *Agent) setSession(s *session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sess = s
}

func (a *Agent) update(fn func(*session)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sess != nil {
		fn(a.sess)
	}
}

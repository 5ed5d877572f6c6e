package ports

import (
	"context"

	"courieragent/internal/core/domain/model/kernel"
	"courieragent/internal/core/domain/model/tracking"
)

// Tracker controls the location sampling session.
// At most one session exists at a time; it is bound to a single assignment.
type Tracker interface {
	// Start begins sampling for the given assignment.
	// Starting the current assignment again is a no-op; starting a different
	// one first stops the running session.
	Start(ctx context.Context, assignmentID kernel.UUID) error

	// Stop ends the running session, if any. Idempotent; returns only after
	// the sampling goroutine has exited.
	Stop(ctx context.Context) error

	// Reconcile aligns the session with an assignment's trackable state:
	// it starts sampling when trackable is true and stops it when the tracked
	// assignment became non-trackable.
	Reconcile(ctx context.Context, assignmentID kernel.UUID, trackable bool) error

	// Snapshot reports the current session state for observers.
	Snapshot() tracking.SessionSnapshot
}

package ports

import (
	"context"
	"time"

	"courieragent/internal/core/domain/model/tracking"
)

// AccessStatus describes the outcome of a positioning access request.
type AccessStatus int

const (
	// AccessUnknown represents an undetermined access state.
	AccessUnknown AccessStatus = iota

	// AccessGranted means the source may be read.
	AccessGranted

	// AccessDenied means the platform refused access.
	AccessDenied

	// AccessUnsupported means the capability does not exist on this platform.
	// Callers treat it like a denial but must not re-prompt.
	AccessUnsupported
)

// Subscription is a live stream of position fixes.
// The channel is closed after Unsubscribe returns or when the source fails
// terminally; callers must drain it.
type Subscription interface {
	// Fixes returns the channel the source delivers fixes on.
	Fixes() <-chan tracking.Fix

	// Unsubscribe stops delivery and releases the underlying watch.
	// Safe to call more than once.
	Unsubscribe()
}

// PositionSource abstracts the positioning hardware.
// Access must be requested before any read; foreground access is the minimum,
// background access additionally allows streaming while the agent is idle.
type PositionSource interface {
	// RequestForegroundAccess asks for the minimum access needed to read fixes.
	// A denial here is terminal for the caller's session.
	RequestForegroundAccess(ctx context.Context) (AccessStatus, error)

	// RequestBackgroundAccess asks for continuous access.
	// A denial is not terminal: callers fall back to polling.
	RequestBackgroundAccess(ctx context.Context) (AccessStatus, error)

	// CurrentFix reads a single fresh fix, waiting at most timeout for the
	// source to produce one. Returns errs.ErrLocationUnavailable on timeout.
	CurrentFix(ctx context.Context, timeout time.Duration) (tracking.Fix, error)

	// Subscribe opens a fix stream filtered by the given subscription filter.
	// Only valid when SupportsStreaming reports true.
	Subscribe(ctx context.Context, filter tracking.SubscriptionFilter) (Subscription, error)

	// SupportsStreaming reports whether the source can deliver a continuous
	// stream. Sources that cannot are read via CurrentFix on a schedule.
	SupportsStreaming() bool
}

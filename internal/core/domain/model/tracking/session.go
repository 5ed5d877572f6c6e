package tracking

import (
	"fmt"
	"time"

	"courieragent/internal/pkg/errs"
)

// SessionState represents the lifecycle state of a tracking session.
//
// State transitions:
//
//	Stopped ──> AcquiringPermission ──> Sampling ──> Stopped
//	                   │                    │
//	                   └──> Errored <───────┘
//	                          │
//	                          └──> Stopped
//
// A session in Errored remains registered (so its last error can be
// inspected) but does not sample.
type SessionState int

const (
	// StateUnknown represents an invalid or undefined session state.
	StateUnknown SessionState = iota

	// Stopped means no sampling activity exists for any assignment.
	Stopped

	// AcquiringPermission means the session is negotiating access to the
	// position source before any sampling starts.
	AcquiringPermission

	// Sampling means fixes are being acquired and pushed for one assignment.
	Sampling

	// Errored means the session failed to reach Sampling (e.g. permission
	// denied) and will not produce samples until restarted.
	Errored
)

func getSessionStateStrings() map[SessionState]string {
	return map[SessionState]string{
		StateUnknown:        "Unknown",
		Stopped:             "Stopped",
		AcquiringPermission: "AcquiringPermission",
		Sampling:            "Sampling",
		Errored:             "Errored",
	}
}

// Validate checks if the SessionState value is valid.
func (s SessionState) Validate() error {
	if s < Stopped || s > Errored {
		return errs.NewValueIsInvalidErrorWithCause("session state is invalid",
			fmt.Errorf("%d is not a valid session state", s))
	}
	return nil
}

// String returns the human-readable name of the session state.
// This method implements the fmt.Stringer interface and is safe to call
// on any SessionState value, including invalid ones.
func (s SessionState) String() string {
	if str, ok := getSessionStateStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Mode identifies how a tracking session acquires position fixes.
type Mode int

const (
	// ModeUnknown represents an invalid or undefined sampling mode.
	ModeUnknown Mode = iota

	// EventDriven means fixes are delivered by the position source's own
	// stream, filtered by displacement and interval thresholds.
	EventDriven

	// Polling means the agent actively requests a fresh fix on a fixed
	// interval.
	Polling
)

func getModeStrings() map[Mode]string {
	return map[Mode]string{
		ModeUnknown: "Unknown",
		EventDriven: "EventDriven",
		Polling:     "Polling",
	}
}

// Validate checks if the Mode value is valid.
func (m Mode) Validate() error {
	if m != EventDriven && m != Polling {
		return errs.NewValueIsInvalidErrorWithCause("mode is invalid",
			fmt.Errorf("%d is not a valid sampling mode", m))
	}
	return nil
}

// String returns the human-readable name of the sampling mode.
func (m Mode) String() string {
	if str, ok := getModeStrings()[m]; ok {
		return str
	}
	return "Unknown"
}

// SessionSnapshot is a read model of the telemetry agent's current session.
// AssignmentID is empty when no session is registered.
type SessionSnapshot struct {
	AssignmentID string
	Mode         Mode
	State        SessionState
	LastSampleAt time.Time
	LastError    string
}

package assignment

import (
	"fmt"
	"strings"

	"courieragent/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery assignment.
//
// State transitions are adjudicated by the backend: the agent requests a
// transition by submitting verification evidence and then adopts whatever
// status the backend reports. The agent never flips a status locally.
//
//	Pending ──> Assigned ──(pickup evidence)──> InProgress ──(dropoff evidence)──> Completed
//	               │                                │
//	               └────────────> Cancelled <───────┘   (server/administrator initiated)
//
// Status is a value object that validates request gates and provides string
// representations for transport and display.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// Pending is the initial status before a courier has been assigned.
	Pending

	// Assigned indicates the assignment belongs to this courier and pickup
	// has not yet been verified. Location tracking runs in this status.
	Assigned

	// InProgress indicates pickup was verified and the delivery is under way.
	// Location tracking runs in this status.
	InProgress

	// Completed indicates dropoff was verified. Terminal.
	Completed

	// Cancelled indicates the backend or an administrator withdrew the
	// assignment. Terminal; observed by the agent, never requested.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "UNKNOWN",
		Pending:       "PENDING",
		Assigned:      "ASSIGNED",
		InProgress:    "IN_PROGRESS",
		Completed:     "COMPLETED",
		Cancelled:     "CANCELLED",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:    "PENDING",
		Assigned:   "ASSIGNED",
		InProgress: "IN_PROGRESS",
		Completed:  "COMPLETED",
		Cancelled:  "CANCELLED",
	}
}

// StatusFromString parses a backend status value. Parsing is case-insensitive
// and tolerant of surrounding whitespace; any unrecognized value is an error
// so that unexpected payloads fail closed instead of being guessed at.
func StatusFromString(s string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getValidStatusStrings() {
		if str == normalized {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a known assignment status", s))
}

// Validate checks if the Status value is valid.
//
// Valid statuses are: Pending, Assigned, InProgress, Completed, Cancelled.
// StatusUnknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire representation of the status ("ASSIGNED",
// "IN_PROGRESS", ...). Invalid values render as "UNKNOWN".
// This method implements the fmt.Stringer interface.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTrackable reports whether location telemetry should run for an assignment
// in this status. Tracking runs exactly while the assignment is Assigned or
// InProgress.
func (s Status) IsTrackable() bool {
	return s == Assigned || s == InProgress
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// ValidateRequestPickup checks whether pickup evidence may be submitted from
// the current status. The backend remains authoritative; this pre-validation
// only avoids futile submissions.
//
// Returns:
//   - nil if the status is Assigned
//   - error with details otherwise
func (s Status) ValidateRequestPickup() error {
	if s != Assigned {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to verify pickup", s.String()))
	}
	return nil
}

// ValidateRequestDropoff checks whether dropoff evidence may be submitted from
// the current status. The backend remains authoritative; this pre-validation
// only avoids futile submissions.
//
// Returns:
//   - nil if the status is InProgress
//   - error with details otherwise
func (s Status) ValidateRequestDropoff() error {
	if s != InProgress {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to verify dropoff", s.String()))
	}
	return nil
}

package queries

import (
	"errors"
	"time"

	"courieragent/internal/pkg/guard"
)

var ErrGetTrackingSessionQueryIsNotConstructed = errors.New(
	"GetTrackingSessionQuery must be created via NewGetTrackingSessionQuery constructor",
)

// GetTrackingSessionQuery retrieves the telemetry session snapshot together
// with the current connectivity classification.
type GetTrackingSessionQuery struct {
	guard guard.ConstructorGuard
}

// NewGetTrackingSessionQuery creates a query for the tracking session state.
func NewGetTrackingSessionQuery() GetTrackingSessionQuery {
	return GetTrackingSessionQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetTrackingSessionQuery) Validate() error {
	return q.guard.Validate(ErrGetTrackingSessionQueryIsNotConstructed)
}

// GetTrackingSessionQueryResponse is the read model for the tracking screen:
// which assignment is sampled, how, and whether pushes can reach the backend.
type GetTrackingSessionQueryResponse struct {
	AssignmentID string
	Mode         string
	State        string
	LastSampleAt time.Time
	LastError    string
	Connectivity string
}

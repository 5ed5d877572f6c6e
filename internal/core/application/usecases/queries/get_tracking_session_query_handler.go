package queries

import (
	"context"

	"courieragent/internal/connectivity"
	"courieragent/internal/core/ports"
)

// ConnectivityReader exposes the current connectivity classification.
type ConnectivityReader interface {
	Current() connectivity.Status
}

// GetTrackingSessionQueryHandler assembles the tracking read model from the
// telemetry agent's snapshot and the connectivity monitor.
type GetTrackingSessionQueryHandler struct {
	tracker ports.Tracker
	network ConnectivityReader
}

// NewGetTrackingSessionQueryHandler creates a handler for tracking state reads.
// The connectivity reader may be nil; the classification then reads "unknown".
func NewGetTrackingSessionQueryHandler(
	tracker ports.Tracker,
	network ConnectivityReader,
) GetTrackingSessionQueryHandler {
	return GetTrackingSessionQueryHandler{tracker: tracker, network: network}
}

// Handle reads the current session snapshot and connectivity classification.
func (h GetTrackingSessionQueryHandler) Handle(
	_ context.Context,
	query GetTrackingSessionQuery,
) (GetTrackingSessionQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetTrackingSessionQueryResponse{}, err
	}

	snapshot := h.tracker.Snapshot()
	status := connectivity.StatusUnknown
	if h.network != nil {
		status = h.network.Current()
	}

	return GetTrackingSessionQueryResponse{
		AssignmentID: snapshot.AssignmentID,
		Mode:         snapshot.Mode.String(),
		State:        snapshot.State.String(),
		LastSampleAt: snapshot.LastSampleAt,
		LastError:    snapshot.LastError,
		Connectivity: status.String(),
	}, nil
}

package commands

import (
	"context"

	"courieragent/internal/core/ports"
)

// LoadAssignmentCommandHandler adopts the backend's adjudicated state of one
// assignment. The fetched assignment replaces the cached copy and the
// tracking session is reconciled with its trackable status, so telemetry
// starts and stops purely as a side effect of what the server reports.
type LoadAssignmentCommandHandler struct {
	backend ports.Backend
	cache   ports.AssignmentCache
	tracker ports.Tracker
}

// NewLoadAssignmentCommandHandler creates a handler for assignment loads.
func NewLoadAssignmentCommandHandler(
	backend ports.Backend,
	cache ports.AssignmentCache,
	tracker ports.Tracker,
) LoadAssignmentCommandHandler {
	return LoadAssignmentCommandHandler{
		backend: backend,
		cache:   cache,
		tracker: tracker,
	}
}

// Handle fetches the assignment, caches it, and reconciles tracking.
// On any fetch failure the cache is left untouched.
func (h LoadAssignmentCommandHandler) Handle(ctx context.Context, cmd LoadAssignmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	loaded, err := h.backend.GetAssignment(ctx, cmd.AssignmentID())
	if err != nil {
		return err
	}

	h.cache.Put(loaded)

	return h.tracker.Reconcile(ctx, loaded.ID(), loaded.IsTrackable())
}

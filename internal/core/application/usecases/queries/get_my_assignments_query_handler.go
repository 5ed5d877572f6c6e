package queries

import (
	"context"

	"courieragent/internal/core/domain/model/assignment"
	"courieragent/internal/core/ports"
)

// GetMyAssignmentsQueryHandler serves the courier's assignment list.
// A successful fetch replaces the cached set wholesale; on failure the cache
// is left untouched and the error surfaces to the caller.
type GetMyAssignmentsQueryHandler struct {
	backend ports.Backend
	cache   ports.AssignmentCache
}

// NewGetMyAssignmentsQueryHandler creates a handler for assignment list reads.
func NewGetMyAssignmentsQueryHandler(
	backend ports.Backend,
	cache ports.AssignmentCache,
) GetMyAssignmentsQueryHandler {
	return GetMyAssignmentsQueryHandler{backend: backend, cache: cache}
}

// Handle fetches the assignment list and refreshes the cache.
func (h GetMyAssignmentsQueryHandler) Handle(
	ctx context.Context,
	query GetMyAssignmentsQuery,
) ([]*assignment.Assignment, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	assignments, err := h.backend.GetMyAssignments(ctx)
	if err != nil {
		return nil, err
	}

	h.cache.ReplaceAll(assignments)
	return assignments, nil
}

// Package queries contains read operations for retrieving agent state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"

	"courieragent/internal/pkg/guard"
)

var ErrGetMyAssignmentsQueryIsNotConstructed = errors.New(
	"GetMyAssignmentsQuery must be created via NewGetMyAssignmentsQuery constructor",
)

// GetMyAssignmentsQuery retrieves the courier's assignment list from the
// backend and refreshes the local cache with it.
//
// Example:
//
//	query := NewGetMyAssignmentsQuery()
//	handler := NewGetMyAssignmentsQueryHandler(backend, cache)
//
//	assignments, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve assignments: %w", err)
//	}
//
//	for _, a := range assignments {
//	    fmt.Printf("Assignment %s is %s\n", a.ID(), a.Status())
//	}
type GetMyAssignmentsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetMyAssignmentsQuery creates a query for the courier's assignment list.
func NewGetMyAssignmentsQuery() GetMyAssignmentsQuery {
	return GetMyAssignmentsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetMyAssignmentsQuery) Validate() error {
	return q.guard.Validate(ErrGetMyAssignmentsQueryIsNotConstructed)
}

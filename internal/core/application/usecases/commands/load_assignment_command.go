package commands

import (
	"errors"

	"courieragent/internal/core/domain/model/kernel"
	"courieragent/internal/pkg/guard"
)

var ErrLoadAssignmentCommandIsNotConstructed = errors.New(
	"LoadAssignmentCommand must be created via NewLoadAssignmentCommand constructor",
)

// LoadAssignmentCommand represents a request to adopt the server's current
// view of one assignment: fetch it, cache it, and align the tracking session
// with its status.
//
// Example:
//
//	cmd, err := NewLoadAssignmentCommand(assignmentID)
//	if err != nil {
//	    return fmt.Errorf("invalid assignment ID: %w", err)
//	}
//
//	handler := NewLoadAssignmentCommandHandler(backend, cache, tracker)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to load assignment: %w", err)
//	}
type LoadAssignmentCommand struct { //nolint:recvcheck //using for validation
	assignmentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewLoadAssignmentCommand creates a command to load one assignment.
// Validates that the assignment ID is a constructed UUID.
func NewLoadAssignmentCommand(assignmentID kernel.UUID) (LoadAssignmentCommand, error) {
	if err := assignmentID.Validate(); err != nil {
		return LoadAssignmentCommand{}, err
	}

	return LoadAssignmentCommand{
		assignmentID: assignmentID,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c LoadAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrLoadAssignmentCommandIsNotConstructed)
}

// AssignmentID returns the identifier of the assignment to load.
func (c LoadAssignmentCommand) AssignmentID() kernel.UUID {
	return c.assignmentID
}

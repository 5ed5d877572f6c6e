package commands

import (
	"errors"

	"courieragent/internal/core/domain/model/evidence"
	"courieragent/internal/core/domain/model/kernel"
	"courieragent/internal/pkg/guard"
)

var ErrRequestTransitionCommandIsNotConstructed = errors.New(
	"RequestTransitionCommand must be created via NewRequestTransitionCommand constructor",
)

// RequestTransitionCommand represents a request for a verification-gated
// status transition: pickup (assigned to in-progress) or dropoff
// (in-progress to completed). The command carries the raw capture inputs;
// the evidence record itself is assembled per attempt by the handler and
// never reused.
//
// Example:
//
//	cmd, err := NewRequestTransitionCommand(
//	    assignmentID, evidence.Dropoff, photo, "Jamie Doe", "")
//	if err != nil {
//	    return fmt.Errorf("invalid transition request: %w", err)
//	}
//
//	handler := NewRequestTransitionCommandHandler(backend, cache, tracker, source)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("transition rejected: %w", err)
//	}
type RequestTransitionCommand struct { //nolint:recvcheck //using for validation
	assignmentID  kernel.UUID
	kind          evidence.Kind
	photo         evidence.Photo
	recipientName string
	notes         string

	guard guard.ConstructorGuard
}

// NewRequestTransitionCommand creates a transition request.
// Validates the assignment ID and the evidence kind; photo and recipient
// requirements are enforced when the evidence record is assembled.
func NewRequestTransitionCommand(
	assignmentID kernel.UUID,
	kind evidence.Kind,
	photo evidence.Photo,
	recipientName string,
	notes string,
) (RequestTransitionCommand, error) {
	if err := errors.Join(assignmentID.Validate(), kind.Validate()); err != nil {
		return RequestTransitionCommand{}, err
	}

	return RequestTransitionCommand{
		assignmentID:  assignmentID,
		kind:          kind,
		photo:         photo,
		recipientName: recipientName,
		notes:         notes,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestTransitionCommand) Validate() error {
	return c.guard.Validate(ErrRequestTransitionCommandIsNotConstructed)
}

// AssignmentID returns the assignment the transition is requested for.
func (c RequestTransitionCommand) AssignmentID() kernel.UUID {
	return c.assignmentID
}

// Kind returns whether this is a pickup or dropoff transition.
func (c RequestTransitionCommand) Kind() evidence.Kind {
	return c.kind
}

// Photo returns the captured verification photo.
func (c RequestTransitionCommand) Photo() evidence.Photo {
	return c.photo
}

// RecipientName returns the receiving party's name (dropoff only).
func (c RequestTransitionCommand) RecipientName() string {
	return c.recipientName
}

// Notes returns the operator's notes, if any.
func (c RequestTransitionCommand) Notes() string {
	return c.notes
}

package ports

import (
	"context"

	"courieragent/internal/core/domain/model/assignment"
	"courieragent/internal/core/domain/model/evidence"
	"courieragent/internal/core/domain/model/kernel"
	"courieragent/internal/core/domain/model/tracking"
)

// Backend defines the remote contract with the dispatch server.
// The server is the single authority over assignment state: the agent never
// mutates an assignment locally, it only requests transitions and re-reads
// the adjudicated result.
type Backend interface {
	// GetMyAssignments retrieves every assignment currently belonging to the
	// authenticated courier, in the order the server returns them.
	GetMyAssignments(ctx context.Context) ([]*assignment.Assignment, error)

	// GetAssignment retrieves a single assignment by its unique identifier.
	// Returns errs.ErrObjectNotFound if the server does not know the id.
	GetAssignment(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error)

	// SubmitPickup requests the assigned-to-in-progress transition, carrying
	// the photo and current position as proof of presence. The server decides;
	// a rejection is returned verbatim as errs.ErrServerRejected.
	SubmitPickup(ctx context.Context, ev evidence.VerificationEvidence, fix tracking.Fix) error

	// SubmitDropoff requests the in-progress-to-completed transition, carrying
	// the photo, the recipient name and current position.
	SubmitDropoff(ctx context.Context, ev evidence.VerificationEvidence, fix tracking.Fix) error

	// PushLocation reports a single location sample for an active assignment.
	// Failures are transient from the caller's point of view: the sampling
	// session must survive them.
	PushLocation(ctx context.Context, sample tracking.LocationSample) error
}

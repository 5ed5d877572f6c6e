package assignment

import (
	"errors"
	"time"

	"courieragent/internal/core/domain/model/kernel"
)

var (
	// ErrAssignmentIsNotConstructed is returned when an Assignment instance was not created
	// through the NewAssignment factory method. This ensures all assignments are properly validated.
	ErrAssignmentIsNotConstructed = errors.New("Assignment must be created via NewAssignment constructor")
)

// Details carries the descriptive attributes of an assignment that are not
// part of its identity or lifecycle: the monetary amount (absent for pure
// item transfers), the due date, who assigned it, the manifest, free-form
// notes, and the backend timestamps.
type Details struct {
	Amount         *float64
	DueDate        time.Time
	AssignedByName string
	Items          []Item
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Assignment represents one unit of delivery work: pick something up at the
// origin, deliver it to the destination, with a backend-owned lifecycle
// status.
//
// The backend owns every attribute. The agent holds a read-mostly copy that
// is replaced wholesale after each successful load or verified transition;
// nothing here is ever mutated in place, which is why the aggregate exposes
// no state-changing methods.
//
// Assignment follows these invariants:
//   - Must have a valid unique identifier
//   - Must have a valid kind and status
//   - Must have a named origin and destination
//   - Can only be created through the NewAssignment constructor
type Assignment struct {
	id          kernel.UUID
	kind        Kind
	status      Status
	origin      Waypoint
	destination Waypoint
	details     Details

	// isConstructed ensures the assignment was created via NewAssignment
	isConstructed bool
}

// NewAssignment creates a new Assignment instance with validation. This is
// the only way to create a valid Assignment; it is called by the backend
// adapter's normalization step, never with locally invented state.
//
// Parameters:
//   - id: Unique identifier (must be a valid UUID)
//   - kind: What the assignment moves (must be a valid Kind)
//   - status: Backend-reported lifecycle status (must be a valid Status)
//   - origin: Pickup waypoint
//   - destination: Dropoff waypoint
//   - details: Descriptive attributes (amount, due date, manifest, ...)
//
// Returns:
//   - *Assignment: The created assignment if all validations pass
//   - error: Validation error if any parameter is invalid
func NewAssignment(
	id kernel.UUID,
	kind Kind,
	status Status,
	origin Waypoint,
	destination Waypoint,
	details Details,
) (*Assignment, error) {
	if err := errors.Join(
		id.Validate(),
		kind.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	return &Assignment{
		id:            id,
		kind:          kind,
		status:        status,
		origin:        origin,
		destination:   destination,
		details:       details,
		isConstructed: true,
	}, nil
}

// Validate ensures the Assignment instance was properly constructed through
// NewAssignment. This prevents bypassing validation by directly instantiating
// the struct.
//
// Returns:
//   - nil if the assignment is valid
//   - ErrAssignmentIsNotConstructed otherwise
func (a *Assignment) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAssignmentIsNotConstructed
	}
	return nil
}

// IsEqual compares two assignments by their unique identifiers.
func (a *Assignment) IsEqual(other *Assignment) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// ID returns the assignment's unique identifier.
func (a *Assignment) ID() kernel.UUID {
	return a.id
}

// Kind returns what the assignment moves.
func (a *Assignment) Kind() Kind {
	return a.kind
}

// Status returns the backend-reported lifecycle status.
func (a *Assignment) Status() Status {
	return a.status
}

// Origin returns the pickup waypoint.
func (a *Assignment) Origin() Waypoint {
	return a.origin
}

// Destination returns the dropoff waypoint.
func (a *Assignment) Destination() Waypoint {
	return a.destination
}

// Details returns the descriptive attributes of the assignment.
func (a *Assignment) Details() Details {
	return a.details
}

// IsTrackable reports whether location telemetry should run for this
// assignment given its current status.
func (a *Assignment) IsTrackable() bool {
	return a.status.IsTrackable()
}

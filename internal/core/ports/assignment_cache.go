package ports

import (
	"courieragent/internal/core/domain/model/assignment"
	"courieragent/internal/core/domain/model/kernel"
)

// AssignmentCache holds the last server-adjudicated view of the courier's
// assignments. It is a read model only: entries are replaced wholesale after
// each successful backend read and are never mutated in place.
type AssignmentCache interface {
	// ReplaceAll swaps the cached set for the given one.
	ReplaceAll(assignments []*assignment.Assignment)

	// Put stores or replaces a single assignment.
	Put(a *assignment.Assignment)

	// Get retrieves a cached assignment by id.
	// Returns errs.ErrObjectNotFound when the id is not cached.
	Get(id kernel.UUID) (*assignment.Assignment, error)

	// All returns the cached assignments in insertion order.
	All() []*assignment.Assignment
}

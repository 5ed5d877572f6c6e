// Package memcache provides the in-memory implementation of the assignment
// cache. The agent holds no durable state: the cache lives for the process
// and is rebuilt from the backend on every load.
package memcache

import (
	"sync"

	"courieragent/internal/core/domain/model/assignment"
	"courieragent/internal/core/domain/model/kernel"
	"courieragent/internal/core/ports"
	"courieragent/internal/pkg/errs"
)

var _ ports.AssignmentCache = (*AssignmentCache)(nil)

// AssignmentCache is a thread-safe in-memory assignment store.
type AssignmentCache struct {
	mu    sync.RWMutex
	byID  map[kernel.UUID]*assignment.Assignment
	order []kernel.UUID
}

// NewAssignmentCache creates an empty cache.
func NewAssignmentCache() *AssignmentCache {
	return &AssignmentCache{
		byID: make(map[kernel.UUID]*assignment.Assignment),
	}
}

// ReplaceAll swaps the cached set for the given one, preserving the given order.
func (c *AssignmentCache) ReplaceAll(assignments []*assignment.Assignment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byID = make(map[kernel.UUID]*assignment.Assignment, len(assignments))
	c.order = c.order[:0]

	for _, a := range assignments {
		if a == nil {
			continue
		}
		if _, ok := c.byID[a.ID()]; !ok {
			c.order = append(c.order, a.ID())
		}
		c.byID[a.ID()] = a
	}
}

// Put stores or replaces a single assignment.
func (c *AssignmentCache) Put(a *assignment.Assignment) {
	if a == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byID[a.ID()]; !ok {
		c.order = append(c.order, a.ID())
	}
	c.byID[a.ID()] = a
}

// Get retrieves a cached assignment by id.
func (c *AssignmentCache) Get(id kernel.UUID) (*assignment.Assignment, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	a, ok := c.byID[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("assignmentID", id)
	}
	return a, nil
}

// All returns the cached assignments in insertion order.
func (c *AssignmentCache) All() []*assignment.Assignment {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*assignment.Assignment, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

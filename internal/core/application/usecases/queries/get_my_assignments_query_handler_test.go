package queries_test

import (
	"context"
	"sync"
	"testing"

	"courieragent/internal/core/application/usecases/queries"
	"courieragent/internal/core/domain/model/assignment"
	"courieragent/internal/core/domain/model/evidence"
	"courieragent/internal/core/domain/model/kernel"
	"courieragent/internal/core/domain/model/tracking"
	"courieragent/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBackend struct{ mock.Mock }

func (m *MockBackend) GetMyAssignments(ctx context.Context) ([]*assignment.Assignment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*assignment.Assignment), args.Error(1)
}

func (m *MockBackend) GetAssignment(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.Assignment), args.Error(1)
}

func (m *MockBackend) SubmitPickup(ctx context.Context, ev evidence.VerificationEvidence, fix tracking.Fix) error {
	args := m.Called(ctx, ev, fix)
	return args.Error(0)
}

func (m *MockBackend) SubmitDropoff(ctx context.Context, ev evidence.VerificationEvidence, fix tracking.Fix) error {
	args := m.Called(ctx, ev, fix)
	return args.Error(0)
}

func (m *MockBackend) PushLocation(ctx context.Context, sample tracking.LocationSample) error {
	args := m.Called(ctx, sample)
	return args.Error(0)
}

type recordingCache struct {
	mu       sync.Mutex
	replaced [][]*assignment.Assignment
}

func (c *recordingCache) ReplaceAll(assignments []*assignment.Assignment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replaced = append(c.replaced, assignments)
}

func (c *recordingCache) Put(*assignment.Assignment) {}

func (c *recordingCache) Get(id kernel.UUID) (*assignment.Assignment, error) {
	return nil, errs.NewObjectNotFoundError("assignmentID", id)
}

func (c *recordingCache) All() []*assignment.Assignment { return nil }

func buildAssignment(t *testing.T, status assignment.Status) *assignment.Assignment {
	t.Helper()

	origin, err := assignment.NewWaypoint("branch", "Warehouse 4", "", nil, "")
	require.NoError(t, err)
	destination, err := assignment.NewWaypoint("branch", "Customer", "", nil, "")
	require.NoError(t, err)
	a, err := assignment.NewAssignment(
		kernel.NewUUID(), assignment.ItemTransfer, status, origin, destination, assignment.Details{})
	require.NoError(t, err)
	return a
}

func TestGetMyAssignmentsQueryHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the list and refreshes the cache", func(t *testing.T) {
		list := []*assignment.Assignment{
			buildAssignment(t, assignment.Assigned),
			buildAssignment(t, assignment.Pending),
		}
		backend := &MockBackend{}
		backend.On("GetMyAssignments", ctx).Return(list, nil)
		cache := &recordingCache{}

		handler := queries.NewGetMyAssignmentsQueryHandler(backend, cache)
		got, err := handler.Handle(ctx, queries.NewGetMyAssignmentsQuery())

		require.NoError(t, err)
		assert.Equal(t, list, got)
		require.Len(t, cache.replaced, 1)
		assert.Equal(t, list, cache.replaced[0])
	})

	t.Run("a failed fetch leaves the cache untouched", func(t *testing.T) {
		backend := &MockBackend{}
		backend.On("GetMyAssignments", ctx).
			Return(nil, errs.NewTransientNetworkError("get assignments"))
		cache := &recordingCache{}

		handler := queries.NewGetMyAssignmentsQueryHandler(backend, cache)
		_, err := handler.Handle(ctx, queries.NewGetMyAssignmentsQuery())

		assert.ErrorIs(t, err, errs.ErrTransientNetwork)
		assert.Empty(t, cache.replaced)
	})

	t.Run("rejects an unconstructed query", func(t *testing.T) {
		handler := queries.NewGetMyAssignmentsQueryHandler(&MockBackend{}, &recordingCache{})

		_, err := handler.Handle(ctx, queries.GetMyAssignmentsQuery{})

		assert.ErrorIs(t, err, queries.ErrGetMyAssignmentsQueryIsNotConstructed)
	})
}

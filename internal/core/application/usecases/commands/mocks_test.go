package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"courieragent/internal/core/domain/model/assignment"
	"courieragent/internal/core/domain/model/evidence"
	"courieragent/internal/core/domain/model/kernel"
	"courieragent/internal/core/domain/model/tracking"
	"courieragent/internal/core/ports"
	"courieragent/internal/pkg/errs"

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

type MockTracker struct{ mock.Mock }

func (m *MockTracker) Start(ctx context.Context, assignmentID kernel.UUID) error {
	args := m.Called(ctx, assignmentID)
	return args.Error(0)
}

func (m *MockTracker) Stop(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTracker) Reconcile(ctx context.Context, assignmentID kernel.UUID, trackable bool) error {
	args := m.Called(ctx, assignmentID, trackable)
	return args.Error(0)
}

func (m *MockTracker) Snapshot() tracking.SessionSnapshot {
	args := m.Called()
	return args.Get(0).(tracking.SessionSnapshot)
}

type MockPositionSource struct{ mock.Mock }

func (m *MockPositionSource) RequestForegroundAccess(ctx context.Context) (ports.AccessStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(ports.AccessStatus), args.Error(1)
}

func (m *MockPositionSource) RequestBackgroundAccess(ctx context.Context) (ports.AccessStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(ports.AccessStatus), args.Error(1)
}

func (m *MockPositionSource) CurrentFix(ctx context.Context, timeout time.Duration) (tracking.Fix, error) {
	args := m.Called(ctx, timeout)
	return args.Get(0).(tracking.Fix), args.Error(1)
}

func (m *MockPositionSource) Subscribe(ctx context.Context, filter tracking.SubscriptionFilter) (ports.Subscription, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.Subscription), args.Error(1)
}

func (m *MockPositionSource) SupportsStreaming() bool {
	args := m.Called()
	return args.Bool(0)
}

// fakeCache is a plain map-backed assignment cache; transition tests need
// the cached status to evolve across submissions, which a call-programmed
// mock expresses poorly.
type fakeCache struct {
	mu   sync.Mutex
	byID map[kernel.UUID]*assignment.Assignment
}

func newFakeCache() *fakeCache {
	return &fakeCache{byID: make(map[kernel.UUID]*assignment.Assignment)}
}

func (c *fakeCache) ReplaceAll(assignments []*assignment.Assignment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID = make(map[kernel.UUID]*assignment.Assignment, len(assignments))
	for _, a := range assignments {
		c.byID[a.ID()] = a
	}
}

func (c *fakeCache) Put(a *assignment.Assignment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID[a.ID()] = a
}

func (c *fakeCache) Get(id kernel.UUID) (*assignment.Assignment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.byID[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("assignmentID", id)
	}
	return a, nil
}

func (c *fakeCache) All() []*assignment.Assignment {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*assignment.Assignment, 0, len(c.byID))
	for _, a := range c.byID {
		out = append(out, a)
	}
	return out
}

func buildAssignment(t *testing.T, id kernel.UUID, status assignment.Status) *assignment.Assignment {
	t.Helper()

	origin, err := assignment.NewWaypoint("branch", "Warehouse 4", "12 Dock Rd", nil, "")
	require.NoError(t, err)
	destination, err := assignment.NewWaypoint("branch", "Customer", "7 Hill St", nil, "")
	require.NoError(t, err)

	a, err := assignment.NewAssignment(
		id, assignment.ItemTransfer, status, origin, destination, assignment.Details{})
	require.NoError(t, err)
	return a
}

func buildFix(t *testing.T) tracking.Fix {
	t.Helper()

	point, err := kernel.NewGeoPoint(14.5995, 120.9842)
	require.NoError(t, err)
	fix, err := tracking.NewFix(point, 5, 0, 0, time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return fix
}

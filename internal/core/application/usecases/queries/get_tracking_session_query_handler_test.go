package queries_test

import (
	"context"
	"testing"
	"time"

	"courieragent/internal/connectivity"
	"courieragent/internal/core/application/usecases/queries"
	"courieragent/internal/core/domain/model/kernel"
	"courieragent/internal/core/domain/model/tracking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTracker struct {
	snapshot tracking.SessionSnapshot
}

func (s *stubTracker) Start(context.Context, kernel.UUID) error            { return nil }
func (s *stubTracker) Stop(context.Context) error                          { return nil }
func (s *stubTracker) Reconcile(context.Context, kernel.UUID, bool) error  { return nil }
func (s *stubTracker) Snapshot() tracking.SessionSnapshot                  { return s.snapshot }

type stubNetwork struct {
	status connectivity.Status
}

func (s *stubNetwork) Current() connectivity.Status { return s.status }

func TestGetTrackingSessionQueryHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("assembles the session and connectivity read model", func(t *testing.T) {
		sampledAt := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
		tracker := &stubTracker{snapshot: tracking.SessionSnapshot{
			AssignmentID: "a-1",
			Mode:         tracking.EventDriven,
			State:        tracking.Sampling,
			LastSampleAt: sampledAt,
		}}

		handler := queries.NewGetTrackingSessionQueryHandler(
			tracker, &stubNetwork{status: connectivity.Connected})
		got, err := handler.Handle(ctx, queries.NewGetTrackingSessionQuery())

		require.NoError(t, err)
		assert.Equal(t, "a-1", got.AssignmentID)
		assert.Equal(t, "EventDriven", got.Mode)
		assert.Equal(t, "Sampling", got.State)
		assert.Equal(t, sampledAt, got.LastSampleAt)
		assert.Equal(t, "connected", got.Connectivity)
	})

	t.Run("connectivity reads unknown without a monitor", func(t *testing.T) {
		handler := queries.NewGetTrackingSessionQueryHandler(&stubTracker{}, nil)

		got, err := handler.Handle(ctx, queries.NewGetTrackingSessionQuery())

		require.NoError(t, err)
		assert.Equal(t, "unknown", got.Connectivity)
	})

	t.Run("rejects an unconstructed query", func(t *testing.T) {
		handler := queries.NewGetTrackingSessionQueryHandler(&stubTracker{}, nil)

		_, err := handler.Handle(ctx, queries.GetTrackingSessionQuery{})

		assert.ErrorIs(t, err, queries.ErrGetTrackingSessionQueryIsNotConstructed)
	})
}

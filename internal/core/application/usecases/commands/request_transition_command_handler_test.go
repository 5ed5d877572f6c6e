package commands_test

import (
	"context"
	"testing"
	"time"

	"courieragent/internal/core/application/usecases/commands"
	"courieragent/internal/core/domain/model/assignment"
	"courieragent/internal/core/domain/model/evidence"
	"courieragent/internal/core/domain/model/kernel"
	"courieragent/internal/core/domain/model/tracking"
	"courieragent/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pickupCommand(t *testing.T, id kernel.UUID) commands.RequestTransitionCommand {
	t.Helper()

	cmd, err := commands.NewRequestTransitionCommand(
		id, evidence.Pickup, evidence.Photo{Data: []byte{0xFF, 0xD8}}, "", "")
	require.NoError(t, err)
	return cmd
}

func dropoffCommand(t *testing.T, id kernel.UUID, recipient string) commands.RequestTransitionCommand {
	t.Helper()

	cmd, err := commands.NewRequestTransitionCommand(
		id, evidence.Dropoff, evidence.Photo{Data: []byte{0xFF, 0xD8}}, recipient, "")
	require.NoError(t, err)
	return cmd
}

func TestRequestTransitionCommandHandler_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("dropoff without a recipient fails before any network call", func(t *testing.T) {
		id := kernel.NewUUID()
		backend := &MockBackend{}
		source := &MockPositionSource{}
		cache := newFakeCache()
		cache.Put(buildAssignment(t, id, assignment.InProgress))

		handler := commands.NewRequestTransitionCommandHandler(backend, cache, &MockTracker{}, source)
		err := handler.Handle(ctx, dropoffCommand(t, id, "   "))

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		backend.AssertNotCalled(t, "SubmitDropoff", mock.Anything, mock.Anything, mock.Anything)
		source.AssertNotCalled(t, "CurrentFix", mock.Anything, mock.Anything)
	})

	t.Run("missing photo fails before any network call", func(t *testing.T) {
		id := kernel.NewUUID()
		backend := &MockBackend{}
		cmd, err := commands.NewRequestTransitionCommand(id, evidence.Pickup, evidence.Photo{}, "", "")
		require.NoError(t, err)

		handler := commands.NewRequestTransitionCommandHandler(
			backend, newFakeCache(), &MockTracker{}, &MockPositionSource{})
		err = handler.Handle(ctx, cmd)

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		backend.AssertNotCalled(t, "SubmitPickup", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects an unconstructed command", func(t *testing.T) {
		handler := commands.NewRequestTransitionCommandHandler(
			&MockBackend{}, newFakeCache(), &MockTracker{}, &MockPositionSource{})

		err := handler.Handle(ctx, commands.RequestTransitionCommand{})

		assert.ErrorIs(t, err, commands.ErrRequestTransitionCommandIsNotConstructed)
	})
}

func TestRequestTransitionCommandHandler_Gate(t *testing.T) {
	ctx := context.Background()

	t.Run("pickup from pending is refused locally", func(t *testing.T) {
		id := kernel.NewUUID()
		backend := &MockBackend{}
		cache := newFakeCache()
		cache.Put(buildAssignment(t, id, assignment.Pending))

		handler := commands.NewRequestTransitionCommandHandler(
			backend, cache, &MockTracker{}, &MockPositionSource{})
		err := handler.Handle(ctx, pickupCommand(t, id))

		assert.ErrorIs(t, err, commands.ErrTransitionNotAllowed)
		backend.AssertNotCalled(t, "SubmitPickup", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("dropoff from assigned is refused locally", func(t *testing.T) {
		id := kernel.NewUUID()
		cache := newFakeCache()
		cache.Put(buildAssignment(t, id, assignment.Assigned))

		handler := commands.NewRequestTransitionCommandHandler(
			&MockBackend{}, cache, &MockTracker{}, &MockPositionSource{})
		err := handler.Handle(ctx, dropoffCommand(t, id, "Jamie Doe"))

		assert.ErrorIs(t, err, commands.ErrTransitionNotAllowed)
	})

	t.Run("an unknown assignment is refused", func(t *testing.T) {
		id := kernel.NewUUID()

		handler := commands.NewRequestTransitionCommandHandler(
			&MockBackend{}, newFakeCache(), &MockTracker{}, &MockPositionSource{})
		err := handler.Handle(ctx, pickupCommand(t, id))

		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestRequestTransitionCommandHandler_Submission(t *testing.T) {
	ctx := context.Background()

	t.Run("an unavailable fix aborts before submission", func(t *testing.T) {
		id := kernel.NewUUID()
		backend := &MockBackend{}
		source := &MockPositionSource{}
		source.On("CurrentFix", ctx, mock.Anything).
			Return(tracking.Fix{}, errs.NewLocationUnavailableError(10*time.Second))
		cache := newFakeCache()
		cache.Put(buildAssignment(t, id, assignment.Assigned))

		handler := commands.NewRequestTransitionCommandHandler(backend, cache, &MockTracker{}, source)
		err := handler.Handle(ctx, pickupCommand(t, id))

		assert.ErrorIs(t, err, errs.ErrLocationUnavailable)
		backend.AssertNotCalled(t, "SubmitPickup", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a successful pickup adopts the server's new status", func(t *testing.T) {
		id := kernel.NewUUID()
		fix := buildFix(t)

		backend := &MockBackend{}
		backend.On("SubmitPickup", ctx, mock.Anything, fix).Return(nil)
		backend.On("GetAssignment", ctx, id).
			Return(buildAssignment(t, id, assignment.InProgress), nil)
		source := &MockPositionSource{}
		source.On("CurrentFix", ctx, mock.Anything).Return(fix, nil)
		tracker := &MockTracker{}
		tracker.On("Reconcile", ctx, id, true).Return(nil)
		cache := newFakeCache()
		cache.Put(buildAssignment(t, id, assignment.Assigned))

		handler := commands.NewRequestTransitionCommandHandler(backend, cache, tracker, source)
		require.NoError(t, handler.Handle(ctx, pickupCommand(t, id)))

		cached, err := cache.Get(id)
		require.NoError(t, err)
		assert.Equal(t, assignment.InProgress, cached.Status())
		backend.AssertExpectations(t)
		tracker.AssertExpectations(t)
	})

	t.Run("a server rejection leaves the cache untouched", func(t *testing.T) {
		id := kernel.NewUUID()
		fix := buildFix(t)

		backend := &MockBackend{}
		backend.On("SubmitPickup", ctx, mock.Anything, fix).
			Return(errs.NewServerRejectedError(409, "assignment is not assigned to you"))
		source := &MockPositionSource{}
		source.On("CurrentFix", ctx, mock.Anything).Return(fix, nil)
		cache := newFakeCache()
		cache.Put(buildAssignment(t, id, assignment.Assigned))

		handler := commands.NewRequestTransitionCommandHandler(backend, cache, &MockTracker{}, source)
		err := handler.Handle(ctx, pickupCommand(t, id))

		require.ErrorIs(t, err, errs.ErrServerRejected)
		cached, cacheErr := cache.Get(id)
		require.NoError(t, cacheErr)
		assert.Equal(t, assignment.Assigned, cached.Status())
		backend.AssertNotCalled(t, "GetAssignment", mock.Anything, mock.Anything)
	})

	t.Run("a concurrent second attempt is rejected", func(t *testing.T) {
		id := kernel.NewUUID()
		fix := buildFix(t)

		backend := &MockBackend{}
		source := &MockPositionSource{}
		source.On("CurrentFix", ctx, mock.Anything).Return(fix, nil)
		tracker := &MockTracker{}
		tracker.On("Reconcile", ctx, id, true).Return(nil)
		cache := newFakeCache()
		cache.Put(buildAssignment(t, id, assignment.Assigned))

		handler := commands.NewRequestTransitionCommandHandler(backend, cache, tracker, source)

		backend.On("SubmitPickup", ctx, mock.Anything, fix).
			Run(func(mock.Arguments) {
				err := handler.Handle(ctx, pickupCommand(t, id))
				assert.ErrorIs(t, err, commands.ErrSubmissionInFlight)
			}).
			Return(nil)
		backend.On("GetAssignment", ctx, id).
			Return(buildAssignment(t, id, assignment.InProgress), nil)

		require.NoError(t, handler.Handle(ctx, pickupCommand(t, id)))
	})

	t.Run("pickup then dropoff completes the assignment", func(t *testing.T) {
		id := kernel.NewUUID()
		fix := buildFix(t)

		backend := &MockBackend{}
		backend.On("SubmitPickup", ctx, mock.Anything, fix).Return(nil).Once()
		backend.On("GetAssignment", ctx, id).
			Return(buildAssignment(t, id, assignment.InProgress), nil).Once()
		backend.On("SubmitDropoff", ctx, mock.Anything, fix).Return(nil).Once()
		backend.On("GetAssignment", ctx, id).
			Return(buildAssignment(t, id, assignment.Completed), nil).Once()
		source := &MockPositionSource{}
		source.On("CurrentFix", ctx, mock.Anything).Return(fix, nil)
		tracker := &MockTracker{}
		tracker.On("Reconcile", ctx, id, true).Return(nil).Once()
		tracker.On("Reconcile", ctx, id, false).Return(nil).Once()
		cache := newFakeCache()
		cache.Put(buildAssignment(t, id, assignment.Assigned))

		handler := commands.NewRequestTransitionCommandHandler(backend, cache, tracker, source)

		require.NoError(t, handler.Handle(ctx, pickupCommand(t, id)))
		require.NoError(t, handler.Handle(ctx, dropoffCommand(t, id, "Jamie Doe")))

		cached, err := cache.Get(id)
		require.NoError(t, err)
		assert.Equal(t, assignment.Completed, cached.Status())
		assert.True(t, cached.Status().IsTerminal())
		backend.AssertExpectations(t)
		tracker.AssertExpectations(t)
	})
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"courieragent/internal/core/domain/model/assignment"
	"courieragent/internal/core/domain/model/evidence"
	"courieragent/internal/core/domain/model/kernel"
	"courieragent/internal/core/ports"
)

var (
	// ErrSubmissionInFlight means a transition for the same assignment is
	// already being submitted; the second attempt is rejected, not queued.
	ErrSubmissionInFlight = errors.New("a submission for this assignment is already in flight")

	// ErrTransitionNotAllowed means the cached status does not admit the
	// requested transition. The backend is never consulted in this case.
	ErrTransitionNotAllowed = errors.New("transition is not allowed from the current status")
)

const transitionFixTimeout = 10 * time.Second

// RequestTransitionCommandHandler drives a verification-gated transition end
// to end: pre-validate against the cached status, assemble fresh evidence,
// acquire a one-shot fix, submit, and re-adopt the server's adjudicated
// status. A failed attempt leaves the cache untouched; the caller re-invokes
// with a fresh photo and fix, evidence is never reused.
type RequestTransitionCommandHandler struct {
	backend    ports.Backend
	cache      ports.AssignmentCache
	tracker    ports.Tracker
	source     ports.PositionSource
	fixTimeout time.Duration

	mu       sync.Mutex
	inFlight map[kernel.UUID]struct{}
}

// NewRequestTransitionCommandHandler creates a handler for transition requests.
func NewRequestTransitionCommandHandler(
	backend ports.Backend,
	cache ports.AssignmentCache,
	tracker ports.Tracker,
	source ports.PositionSource,
) *RequestTransitionCommandHandler {
	return &RequestTransitionCommandHandler{
		backend:    backend,
		cache:      cache,
		tracker:    tracker,
		source:     source,
		fixTimeout: transitionFixTimeout,
		inFlight:   make(map[kernel.UUID]struct{}),
	}
}

// Handle processes one transition attempt, blocking the caller until the
// request settles. Validation failures and gate rejections issue zero
// network calls.
func (h *RequestTransitionCommandHandler) Handle(ctx context.Context, cmd RequestTransitionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	// Evidence assembly enforces the capture requirements (photo present,
	// recipient for dropoff) before anything leaves the device.
	ev, err := evidence.NewVerificationEvidence(
		cmd.AssignmentID(), cmd.Kind(), cmd.Photo(), cmd.RecipientName(), cmd.Notes())
	if err != nil {
		return err
	}

	if err := h.acquire(cmd.AssignmentID()); err != nil {
		return err
	}
	defer h.release(cmd.AssignmentID())

	cached, err := h.cache.Get(cmd.AssignmentID())
	if err != nil {
		return err
	}
	if err := h.gate(cached.Status(), cmd.Kind()); err != nil {
		return err
	}

	fix, err := h.source.CurrentFix(ctx, h.fixTimeout)
	if err != nil {
		return err
	}

	switch cmd.Kind() {
	case evidence.Pickup:
		err = h.backend.SubmitPickup(ctx, ev, fix)
	case evidence.Dropoff:
		err = h.backend.SubmitDropoff(ctx, ev, fix)
	default:
		return fmt.Errorf("%w: %s", ErrTransitionNotAllowed, cmd.Kind())
	}
	if err != nil {
		return err
	}

	// The server adjudicated the transition; re-adopt its reported state.
	adopted, err := h.backend.GetAssignment(ctx, cmd.AssignmentID())
	if err != nil {
		return err
	}
	h.cache.Put(adopted)

	return h.tracker.Reconcile(ctx, adopted.ID(), adopted.IsTrackable())
}

func (h *RequestTransitionCommandHandler) gate(status assignment.Status, kind evidence.Kind) error {
	var gateErr error
	switch kind {
	case evidence.Pickup:
		gateErr = status.ValidateRequestPickup()
	case evidence.Dropoff:
		gateErr = status.ValidateRequestDropoff()
	}
	if gateErr != nil {
		return fmt.Errorf("%w: current status is %s", ErrTransitionNotAllowed, status)
	}
	return nil
}

func (h *RequestTransitionCommandHandler) acquire(id kernel.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, busy := h.inFlight[id]; busy {
		return ErrSubmissionInFlight
	}
	h.inFlight[id] = struct{}{}
	return nil
}

func (h *RequestTransitionCommandHandler) release(id kernel.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.inFlight, id)
}

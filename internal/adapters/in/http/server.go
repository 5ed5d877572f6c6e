// Package http exposes the agent's local control API. It is the boundary the
// display layer talks to: cached assignment reads, verification-gated
// transition submissions with multipart photo intake, and tracking state,
// including a websocket stream of session snapshots.
package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"courieragent/internal/connectivity"
	"courieragent/internal/core/application/usecases/commands"
	"courieragent/internal/core/application/usecases/queries"
	"courieragent/internal/core/domain/model/evidence"
	"courieragent/internal/core/domain/model/kernel"
	"courieragent/internal/core/ports"
	"courieragent/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const maxPhotoBytes = 10 << 20

// Validator adapts go-playground/validator to echo's Validator interface.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates the request validator.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate checks the struct tags of the bound request.
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// ConnectivityStream surfaces connectivity changes so the websocket stream
// can push a fresh snapshot as soon as the classification flips.
type ConnectivityStream interface {
	Subscribe() (<-chan connectivity.Status, func())
}

// Server coordinates between the control API and the application use cases.
type Server struct {
	loadAssignmentHandler     commands.LoadAssignmentCommandHandler
	requestTransitionHandler  *commands.RequestTransitionCommandHandler
	getMyAssignmentsHandler   queries.GetMyAssignmentsQueryHandler
	getTrackingSessionHandler queries.GetTrackingSessionQueryHandler
	cache                     ports.AssignmentCache
	network                   ConnectivityStream
	logger                    *slog.Logger
}

// NewServer creates the control API server with the required handlers.
// The connectivity stream may be nil; the websocket stream then pushes on
// the snapshot interval only.
func NewServer(
	loadAssignmentHandler commands.LoadAssignmentCommandHandler,
	requestTransitionHandler *commands.RequestTransitionCommandHandler,
	getMyAssignmentsHandler queries.GetMyAssignmentsQueryHandler,
	getTrackingSessionHandler queries.GetTrackingSessionQueryHandler,
	cache ports.AssignmentCache,
	network ConnectivityStream,
	logger *slog.Logger,
) *Server {
	return &Server{
		loadAssignmentHandler:     loadAssignmentHandler,
		requestTransitionHandler:  requestTransitionHandler,
		getMyAssignmentsHandler:   getMyAssignmentsHandler,
		getTrackingSessionHandler: getTrackingSessionHandler,
		cache:                     cache,
		network:                   network,
		logger:                    logger.With("component", "control_api"),
	}
}

// Register wires the routes and the request validator into the echo instance.
func (s *Server) Register(e *echo.Echo) {
	e.Validator = NewValidator()

	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.GET("/assignments", s.ListAssignments)
	api.GET("/assignments/:id", s.LoadAssignment)
	api.POST("/assignments/:id/pickup", s.SubmitPickup)
	api.POST("/assignments/:id/dropoff", s.SubmitDropoff)
	api.GET("/tracking", s.GetTracking)
	api.GET("/tracking/ws", s.StreamTracking)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ListAssignments handles GET /api/v1/assignments - refreshes and returns the
// courier's assignment list.
func (s *Server) ListAssignments(ctx echo.Context) error {
	assignments, err := s.getMyAssignmentsHandler.Handle(
		ctx.Request().Context(), queries.NewGetMyAssignmentsQuery())
	if err != nil {
		return s.renderError(ctx, err)
	}

	response := make([]AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		response = append(response, toAssignmentResponse(a))
	}
	return ctx.JSON(http.StatusOK, response)
}

// LoadAssignment handles GET /api/v1/assignments/:id - adopts the server's
// view of the assignment and reconciles tracking with it.
func (s *Server) LoadAssignment(ctx echo.Context) error {
	id, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.renderError(ctx, errs.NewValueIsInvalidErrorWithCause("assignment id is invalid", err))
	}

	cmd, err := commands.NewLoadAssignmentCommand(id)
	if err != nil {
		return s.renderError(ctx, err)
	}
	if err := s.loadAssignmentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.renderError(ctx, err)
	}

	loaded, err := s.cache.Get(id)
	if err != nil {
		return s.renderError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toAssignmentResponse(loaded))
}

// SubmitPickup handles POST /api/v1/assignments/:id/pickup.
func (s *Server) SubmitPickup(ctx echo.Context) error {
	return s.submitTransition(ctx, evidence.Pickup, "", ctx.FormValue("notes"))
}

// SubmitDropoff handles POST /api/v1/assignments/:id/dropoff.
func (s *Server) SubmitDropoff(ctx echo.Context) error {
	form := dropoffForm{
		RecipientName: ctx.FormValue("recipientName"),
		Notes:         ctx.FormValue("notes"),
	}
	if err := ctx.Validate(&form); err != nil {
		return err
	}

	return s.submitTransition(ctx, evidence.Dropoff, form.RecipientName, form.Notes)
}

// GetTracking handles GET /api/v1/tracking.
func (s *Server) GetTracking(ctx echo.Context) error {
	session, err := s.getTrackingSessionHandler.Handle(
		ctx.Request().Context(), queries.NewGetTrackingSessionQuery())
	if err != nil {
		return s.renderError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toTrackingResponse(session))
}

func (s *Server) submitTransition(ctx echo.Context, kind evidence.Kind, recipientName, notes string) error {
	id, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.renderError(ctx, errs.NewValueIsInvalidErrorWithCause("assignment id is invalid", err))
	}

	photo, err := s.readPhoto(ctx)
	if err != nil {
		return s.renderError(ctx, err)
	}

	cmd, err := commands.NewRequestTransitionCommand(id, kind, photo, recipientName, notes)
	if err != nil {
		return s.renderError(ctx, err)
	}
	if err := s.requestTransitionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.renderError(ctx, err)
	}

	adopted, err := s.cache.Get(id)
	if err != nil {
		return s.renderError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, TransitionResponse{Status: adopted.Status().String()})
}

// readPhoto extracts the multipart photo. A missing file part is not an
// error here; the capture requirement surfaces as a validation failure when
// the evidence record is assembled.
func (s *Server) readPhoto(ctx echo.Context) (evidence.Photo, error) {
	header, err := ctx.FormFile("file")
	if err != nil {
		return evidence.Photo{}, nil
	}
	if header.Size > maxPhotoBytes {
		return evidence.Photo{}, errs.NewValueIsInvalidErrorWithCause("photo is invalid",
			errors.New("photo exceeds the size limit"))
	}

	file, err := header.Open()
	if err != nil {
		return evidence.Photo{}, errs.NewValueIsInvalidErrorWithCause("photo is invalid", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return evidence.Photo{}, errs.NewValueIsInvalidErrorWithCause("photo is invalid", err)
	}

	return evidence.Photo{
		Data:     data,
		MIMEType: header.Header.Get("Content-Type"),
		Filename: header.Filename,
	}, nil
}

// renderError maps application errors onto control API status codes.
func (s *Server) renderError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError

	var rejected errs.ServerRejectedError
	switch {
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, commands.ErrSubmissionInFlight),
		errors.Is(err, commands.ErrTransitionNotAllowed):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, errs.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, errs.ErrLocationUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrTransientNetwork),
		errors.Is(err, errs.ErrUploadFailed):
		status = http.StatusBadGateway
	case errors.As(err, &rejected):
		status = rejected.StatusCode
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("Control API request failed", "error", err)
	}
	return ctx.JSON(status, ErrorResponse{Code: status, Message: err.Error()})
}

func toTrackingResponse(session queries.GetTrackingSessionQueryResponse) TrackingResponse {
	resp := TrackingResponse{
		AssignmentID: session.AssignmentID,
		Mode:         session.Mode,
		State:        session.State,
		LastError:    session.LastError,
		Connectivity: session.Connectivity,
	}
	if !session.LastSampleAt.IsZero() {
		at := session.LastSampleAt
		resp.LastSampleAt = &at
	}
	return resp
}

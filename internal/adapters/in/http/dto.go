package http

import (
	"time"

	"courieragent/internal/core/domain/model/assignment"
)

// ErrorResponse is the error body served by the control API.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// WaypointResponse describes one end of an assignment.
type WaypointResponse struct {
	LocationType string   `json:"locationType,omitempty"`
	Name         string   `json:"name"`
	Address      string   `json:"address,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Contact      string   `json:"contact,omitempty"`
}

// ItemResponse is one manifest line.
type ItemResponse struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// AssignmentResponse is the control API's view of a cached assignment.
type AssignmentResponse struct {
	ID             string           `json:"id"`
	Type           string           `json:"type"`
	Status         string           `json:"status"`
	Trackable      bool             `json:"trackable"`
	Origin         WaypointResponse `json:"origin"`
	Destination    WaypointResponse `json:"destination"`
	Amount         *float64         `json:"amount,omitempty"`
	DueDate        *time.Time       `json:"dueDate,omitempty"`
	AssignedByName string           `json:"assignedByName,omitempty"`
	Items          []ItemResponse   `json:"items,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	CreatedAt      *time.Time       `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time       `json:"updatedAt,omitempty"`
}

// TransitionResponse reports the adjudicated status after a transition.
type TransitionResponse struct {
	Status string `json:"status"`
}

// TrackingResponse is the tracking screen's read model.
type TrackingResponse struct {
	AssignmentID string     `json:"assignmentId,omitempty"`
	Mode         string     `json:"mode"`
	State        string     `json:"state"`
	LastSampleAt *time.Time `json:"lastSampleAt,omitempty"`
	LastError    string     `json:"lastError,omitempty"`
	Connectivity string     `json:"connectivity"`
}

// dropoffForm carries the dropoff multipart fields subject to validation.
type dropoffForm struct {
	RecipientName string `form:"recipientName" validate:"required"`
	Notes         string `form:"notes"`
}

func toWaypointResponse(w assignment.Waypoint) WaypointResponse {
	resp := WaypointResponse{
		LocationType: w.LocationType(),
		Name:         w.Name(),
		Address:      w.Address(),
		Contact:      w.Contact(),
	}
	if point := w.Point(); point != nil {
		lat := point.Latitude()
		lng := point.Longitude()
		resp.Latitude = &lat
		resp.Longitude = &lng
	}
	return resp
}

func toAssignmentResponse(a *assignment.Assignment) AssignmentResponse {
	details := a.Details()

	items := make([]ItemResponse, 0, len(details.Items))
	for _, item := range details.Items {
		items = append(items, ItemResponse{Name: item.Name(), Quantity: item.Quantity()})
	}

	resp := AssignmentResponse{
		ID:             a.ID().String(),
		Type:           a.Kind().String(),
		Status:         a.Status().String(),
		Trackable:      a.IsTrackable(),
		Origin:         toWaypointResponse(a.Origin()),
		Destination:    toWaypointResponse(a.Destination()),
		Amount:         details.Amount,
		AssignedByName: details.AssignedByName,
		Items:          items,
		Notes:          details.Notes,
	}
	if !details.DueDate.IsZero() {
		due := details.DueDate
		resp.DueDate = &due
	}
	if !details.CreatedAt.IsZero() {
		created := details.CreatedAt
		resp.CreatedAt = &created
	}
	if !details.UpdatedAt.IsZero() {
		updated := details.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}

package backendapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"courieragent/internal/core/domain/model/assignment"
	"courieragent/internal/core/domain/model/kernel"
	"courieragent/internal/pkg/errs"
)

// flexFloat tolerates the backend sending numbers either as JSON numbers
// or as quoted strings ("1500.00").
type flexFloat struct {
	value float64
	set   bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		return nil
	}
	s = strings.Trim(s, `"`)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric value %q: %w", s, err)
	}
	f.value = v
	f.set = true
	return nil
}

type itemDTO struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// assignmentDTO mirrors the flat snake_case assignment payload the dispatch
// backend serves.
type assignmentDTO struct {
	AssignmentID   string    `json:"assignment_id"`
	AssignmentType string    `json:"assignment_type"`
	Status         string    `json:"status"`
	Amount         flexFloat `json:"amount"`
	DueDate        string    `json:"due_date"`
	AssignedByName string    `json:"assigned_by_name"`

	FromLocationType string    `json:"from_location_type"`
	FromBranchName   string    `json:"from_branch_name"`
	FromBranchAddr   string    `json:"from_branch_address"`
	FromBranchLat    flexFloat `json:"from_branch_lat"`
	FromBranchLng    flexFloat `json:"from_branch_lng"`
	FromBranchPhone  string    `json:"from_branch_contact"`

	ToLocationType string    `json:"to_location_type"`
	ToBranchName   string    `json:"to_branch_name"`
	ToBranchAddr   string    `json:"to_branch_address"`
	ToBranchLat    flexFloat `json:"to_branch_lat"`
	ToBranchLng    flexFloat `json:"to_branch_lng"`
	ToBranchPhone  string    `json:"to_branch_contact"`

	Items     []itemDTO `json:"items"`
	Notes     string    `json:"notes"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

// decodeAssignmentList normalizes the list shapes the backend has been seen
// to serve: a bare array, `{"data": [...]}` or `{"assignments": [...]}`.
// Anything else fails closed.
func decodeAssignmentList(body []byte) ([]assignmentDTO, error) {
	var bare []assignmentDTO
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}

	var wrapped struct {
		Data        []assignmentDTO `json:"data"`
		Assignments []assignmentDTO `json:"assignments"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("unrecognized assignment list shape: %w", err)
	}
	if wrapped.Data != nil {
		return wrapped.Data, nil
	}
	if wrapped.Assignments != nil {
		return wrapped.Assignments, nil
	}

	return nil, fmt.Errorf("unrecognized assignment list shape")
}

// toDomain maps the wire payload into the assignment aggregate, failing
// closed on anything the domain model rejects.
func (d assignmentDTO) toDomain() (*assignment.Assignment, error) {
	id, err := kernel.UUIDFromString(d.AssignmentID)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("assignment_id is invalid", err)
	}

	kind, err := assignment.KindFromString(d.AssignmentType)
	if err != nil {
		return nil, err
	}

	status, err := assignment.StatusFromString(d.Status)
	if err != nil {
		return nil, err
	}

	origin, err := waypointFromDTO(d.FromLocationType, d.FromBranchName, d.FromBranchAddr,
		d.FromBranchLat, d.FromBranchLng, d.FromBranchPhone)
	if err != nil {
		return nil, err
	}

	destination, err := waypointFromDTO(d.ToLocationType, d.ToBranchName, d.ToBranchAddr,
		d.ToBranchLat, d.ToBranchLng, d.ToBranchPhone)
	if err != nil {
		return nil, err
	}

	items := make([]assignment.Item, 0, len(d.Items))
	for _, it := range d.Items {
		quantity := it.Quantity
		if quantity == 0 {
			quantity = 1
		}
		item, err := assignment.NewItem(it.Name, quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	details := assignment.Details{
		DueDate:        parseTime(d.DueDate),
		AssignedByName: d.AssignedByName,
		Items:          items,
		Notes:          d.Notes,
		CreatedAt:      parseTime(d.CreatedAt),
		UpdatedAt:      parseTime(d.UpdatedAt),
	}
	if d.Amount.set {
		amount := d.Amount.value
		details.Amount = &amount
	}

	return assignment.NewAssignment(id, kind, status, origin, destination, details)
}

func waypointFromDTO(locationType, name, address string, lat, lng flexFloat, contact string) (assignment.Waypoint, error) {
	// The backend omits branch names for head-office waypoints.
	if name == "" {
		name = "Office"
	}

	var point *kernel.GeoPoint
	if lat.set && lng.set {
		p, err := kernel.NewGeoPoint(lat.value, lng.value)
		if err != nil {
			return assignment.Waypoint{}, err
		}
		point = &p
	}

	return assignment.NewWaypoint(locationType, name, address, point, contact)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

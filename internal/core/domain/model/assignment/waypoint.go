package assignment

import (
	"fmt"

	"courieragent/internal/core/domain/model/kernel"
	"courieragent/internal/pkg/errs"
)

// Waypoint describes one end of a delivery: the origin or the destination.
// The backend owns the location vocabulary (warehouse, branch, customer, ...),
// so LocationType is carried as an opaque string. Point is optional because
// not every backend location record carries coordinates.
type Waypoint struct {
	locationType string
	name         string
	address      string
	point        *kernel.GeoPoint
	contact      string
}

// NewWaypoint creates a Waypoint. A name is required; the coordinate, when
// present, must be a properly constructed GeoPoint.
func NewWaypoint(
	locationType string,
	name string,
	address string,
	point *kernel.GeoPoint,
	contact string,
) (Waypoint, error) {
	if name == "" {
		return Waypoint{}, errs.NewValueIsRequiredError("waypoint name")
	}
	if point != nil {
		if err := point.Validate(); err != nil {
			return Waypoint{}, err
		}
	}

	return Waypoint{
		locationType: locationType,
		name:         name,
		address:      address,
		point:        point,
		contact:      contact,
	}, nil
}

// LocationType returns the backend's location category for this waypoint.
func (w Waypoint) LocationType() string {
	return w.locationType
}

// Name returns the display name of the waypoint.
func (w Waypoint) Name() string {
	return w.name
}

// Address returns the street address, which may be empty.
func (w Waypoint) Address() string {
	return w.address
}

// Point returns the waypoint coordinate, or nil when the backend did not
// provide one.
func (w Waypoint) Point() *kernel.GeoPoint {
	return w.point
}

// Contact returns the contact line for the waypoint, which may be empty.
func (w Waypoint) Contact() string {
	return w.contact
}

// Item is one line of an assignment's manifest.
type Item struct {
	name     string
	quantity int
}

// NewItem creates a manifest line. The name is required and the quantity
// must be positive.
func NewItem(name string, quantity int) (Item, error) {
	if name == "" {
		return Item{}, errs.NewValueIsRequiredError("item name")
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("item quantity is invalid",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	return Item{name: name, quantity: quantity}, nil
}

// Name returns the item's display name.
func (i Item) Name() string {
	return i.name
}

// Quantity returns how many units the line covers.
func (i Item) Quantity() int {
	return i.quantity
}

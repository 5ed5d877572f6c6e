package tracking

import (
	"errors"
	"time"

	"courieragent/internal/core/domain/model/kernel"
	"courieragent/internal/pkg/errs"
)

// Fix is a single position measurement without assignment context.
// Heading is in degrees from true north, speed in meters per second,
// accuracy is the estimated horizontal error in meters. Negative accuracy,
// heading or speed means the source did not report that field.
type Fix struct {
	Point          kernel.GeoPoint
	AccuracyMeters float64
	HeadingDegrees float64
	SpeedMPS       float64
	CapturedAt     time.Time
}

// NewFix creates a Fix after validating the point and capture time.
func NewFix(
	point kernel.GeoPoint,
	accuracyMeters float64,
	headingDegrees float64,
	speedMPS float64,
	capturedAt time.Time,
) (Fix, error) {
	if err := point.Validate(); err != nil {
		return Fix{}, err
	}
	if capturedAt.IsZero() {
		return Fix{}, errs.NewValueIsRequiredError("capturedAt")
	}

	return Fix{
		Point:          point,
		AccuracyMeters: accuracyMeters,
		HeadingDegrees: headingDegrees,
		SpeedMPS:       speedMPS,
		CapturedAt:     capturedAt,
	}, nil
}

// Validate checks that the fix carries a constructed point and a capture time.
func (f Fix) Validate() error {
	if err := f.Point.Validate(); err != nil {
		return err
	}
	if f.CapturedAt.IsZero() {
		return errs.NewValueIsRequiredError("capturedAt")
	}
	return nil
}

// LocationSample binds a Fix to the assignment it was sampled for.
// Samples are consumed immediately by the telemetry agent and are not
// retained after the transmission attempt.
type LocationSample struct {
	AssignmentID kernel.UUID
	Fix          Fix
}

// NewLocationSample creates a LocationSample for the given assignment.
func NewLocationSample(assignmentID kernel.UUID, fix Fix) (LocationSample, error) {
	if err := errors.Join(assignmentID.Validate(), fix.Validate()); err != nil {
		return LocationSample{}, err
	}

	return LocationSample{AssignmentID: assignmentID, Fix: fix}, nil
}

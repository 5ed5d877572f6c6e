package evidence

import (
	"fmt"
	"strings"

	"courieragent/internal/core/domain/model/kernel"
	"courieragent/internal/pkg/errs"
)

const (
	defaultPickupNotes  = "Pickup verified with photo"
	defaultDropoffNotes = "Dropoff verified"
	defaultPhotoMIME    = "image/jpeg"
)

// Kind identifies which transition a piece of evidence justifies.
type Kind int

const (
	// KindUnknown represents an invalid or undefined evidence kind.
	KindUnknown Kind = iota

	// Pickup evidence requests the Assigned -> InProgress transition.
	Pickup

	// Dropoff evidence requests the InProgress -> Completed transition.
	Dropoff
)

func getKindStrings() map[Kind]string {
	return map[Kind]string{
		KindUnknown: "Unknown",
		Pickup:      "Pickup",
		Dropoff:     "Dropoff",
	}
}

// Validate checks if the Kind value is valid.
func (k Kind) Validate() error {
	if k != Pickup && k != Dropoff {
		return errs.NewValueIsInvalidErrorWithCause("evidence kind is invalid",
			fmt.Errorf("%d is not a valid evidence kind", k))
	}
	return nil
}

// String returns the human-readable name of the evidence kind.
func (k Kind) String() string {
	if str, ok := getKindStrings()[k]; ok {
		return str
	}
	return "Unknown"
}

// Photo is the captured verification image. The agent never writes it to
// disk; it lives only for the duration of one submission attempt.
type Photo struct {
	Data     []byte
	MIMEType string
	Filename string
}

// VerificationEvidence is the record submitted to justify a status
// transition. It is assembled per attempt and destroyed after the attempt
// settles; the geolocation fix is acquired separately at submission time so
// that every attempt carries a fresh position.
//
// Required fields are enforced at construction so that an incomplete record
// fails before any network call is made:
//   - A photo is always required
//   - A recipient name (non-empty after trimming) is required for Dropoff
//
// Notes, photo MIME type and filename receive kind-specific defaults when
// omitted, matching what the backend expects.
type VerificationEvidence struct {
	assignmentID  kernel.UUID
	kind          Kind
	photo         Photo
	recipientName string
	notes         string

	isConstructed bool
}

// NewVerificationEvidence creates a validated evidence record.
//
// Parameters:
//   - assignmentID: The assignment the evidence belongs to
//   - kind: Pickup or Dropoff
//   - photo: The captured image (data is required)
//   - recipientName: Who received the delivery; required for Dropoff,
//     ignored for Pickup
//   - notes: Free-form notes; defaulted per kind when empty
//
// Returns:
//   - VerificationEvidence: The validated record
//   - error: errs.ValueIsRequiredError for any missing required field
func NewVerificationEvidence(
	assignmentID kernel.UUID,
	kind Kind,
	photo Photo,
	recipientName string,
	notes string,
) (VerificationEvidence, error) {
	if err := assignmentID.Validate(); err != nil {
		return VerificationEvidence{}, err
	}
	if err := kind.Validate(); err != nil {
		return VerificationEvidence{}, err
	}
	if len(photo.Data) == 0 {
		return VerificationEvidence{}, errs.NewValueIsRequiredError("photo")
	}

	recipientName = strings.TrimSpace(recipientName)
	switch kind {
	case Pickup:
		recipientName = ""
	case Dropoff:
		if recipientName == "" {
			return VerificationEvidence{}, errs.NewValueIsRequiredError("recipientName")
		}
	}

	if photo.MIMEType == "" {
		photo.MIMEType = defaultPhotoMIME
	}
	if photo.Filename == "" {
		photo.Filename = defaultFilename(kind)
	}
	if strings.TrimSpace(notes) == "" {
		notes = defaultNotes(kind)
	}

	return VerificationEvidence{
		assignmentID:  assignmentID,
		kind:          kind,
		photo:         photo,
		recipientName: recipientName,
		notes:         notes,
		isConstructed: true,
	}, nil
}

// Validate ensures the evidence was created through NewVerificationEvidence.
func (e VerificationEvidence) Validate() error {
	if !e.isConstructed {
		return errs.NewValueIsRequiredError(
			"evidence must be created via NewVerificationEvidence constructor")
	}
	return nil
}

// AssignmentID returns the assignment the evidence belongs to.
func (e VerificationEvidence) AssignmentID() kernel.UUID {
	return e.assignmentID
}

// Kind returns whether the evidence verifies a pickup or a dropoff.
func (e VerificationEvidence) Kind() Kind {
	return e.kind
}

// Photo returns the captured verification image.
func (e VerificationEvidence) Photo() Photo {
	return e.photo
}

// RecipientName returns the trimmed recipient name. Empty for Pickup.
func (e VerificationEvidence) RecipientName() string {
	return e.recipientName
}

// Notes returns the submission notes, defaulted per kind when none were given.
func (e VerificationEvidence) Notes() string {
	return e.notes
}

func defaultNotes(kind Kind) string {
	if kind == Dropoff {
		return defaultDropoffNotes
	}
	return defaultPickupNotes
}

func defaultFilename(kind Kind) string {
	if kind == Dropoff {
		return "dropoff.jpg"
	}
	return "pickup.jpg"
}

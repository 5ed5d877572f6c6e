// Package backendapi implements the dispatch backend contract over REST.
// Reads return the server's adjudicated assignment state; evidence
// submissions are multipart uploads; location pushes are fire-and-forget
// JSON posts. Failures are classified into the agent's error taxonomy so
// callers never see raw transport errors.
package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"courieragent/internal/core/domain/model/assignment"
	"courieragent/internal/core/domain/model/evidence"
	"courieragent/internal/core/domain/model/kernel"
	"courieragent/internal/core/domain/model/tracking"
	"courieragent/internal/core/ports"
	"courieragent/internal/pkg/errs"
)

const (
	defaultTimeout            = 30 * time.Second
	errorBodyReadLimit  int64 = 4096
	multipartFieldFile        = "file"
	multipartFieldPoint       = "location"
)

var _ ports.Backend = (*Client)(nil)

// Client talks to the dispatch backend on behalf of one courier session.
type Client struct {
	httpClient *http.Client
	baseURL    string
	session    ports.Session
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds a backend client for the given base URL and session.
func NewClient(baseURL string, session ports.Session, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errs.NewValueIsRequiredError("backend base URL")
	}
	if session == nil {
		return nil, errs.NewValueIsRequiredError("session")
	}

	client := &Client{
		baseURL:    trimmed,
		session:    session,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// GetMyAssignments retrieves the courier's assignments from the backend.
func (c *Client) GetMyAssignments(ctx context.Context) ([]*assignment.Assignment, error) {
	body, err := c.read(ctx, "/assignments/mine")
	if err != nil {
		return nil, err
	}

	dtos, err := decodeAssignmentList(body)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("assignment list is invalid", err)
	}

	assignments := make([]*assignment.Assignment, 0, len(dtos))
	for _, dto := range dtos {
		a, err := dto.toDomain()
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}

// GetAssignment retrieves one assignment by id.
func (c *Client) GetAssignment(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	body, err := c.read(ctx, "/assignments/"+id.String())
	if err != nil {
		return nil, err
	}

	var dto assignmentDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("assignment payload is invalid", err)
	}
	return dto.toDomain()
}

// SubmitPickup uploads pickup evidence for the assigned-to-in-progress transition.
func (c *Client) SubmitPickup(ctx context.Context, ev evidence.VerificationEvidence, fix tracking.Fix) error {
	return c.submitEvidence(ctx, "pickup", ev, fix)
}

// SubmitDropoff uploads dropoff evidence for the in-progress-to-completed transition.
func (c *Client) SubmitDropoff(ctx context.Context, ev evidence.VerificationEvidence, fix tracking.Fix) error {
	return c.submitEvidence(ctx, "dropoff", ev, fix)
}

// PushLocation reports one location sample for an active assignment.
func (c *Client) PushLocation(ctx context.Context, sample tracking.LocationSample) error {
	if err := sample.Fix.Validate(); err != nil {
		return err
	}
	if err := sample.AssignmentID.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]any{
		"latitude":  sample.Fix.Point.Latitude(),
		"longitude": sample.Fix.Point.Longitude(),
		"accuracy":  sample.Fix.AccuracyMeters,
		"heading":   sample.Fix.HeadingDegrees,
		"speed":     sample.Fix.SpeedMPS,
		"timestamp": sample.Fix.CapturedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("location payload is invalid", err)
	}

	endpoint := fmt.Sprintf("%s/assignments/%s/location", c.baseURL, sample.AssignmentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return errs.NewTransientNetworkErrorWithCause("push location", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.NewTransientNetworkErrorWithCause("push location", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return c.classifyWrite(resp, "push location", false)
}

func (c *Client) submitEvidence(ctx context.Context, action string, ev evidence.VerificationEvidence, fix tracking.Fix) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	if err := fix.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	photo := ev.Photo()
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, multipartFieldFile, photo.Filename))
	header.Set("Content-Type", photo.MIMEType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return errs.NewUploadFailedErrorWithCause(action, err)
	}
	if _, err = part.Write(photo.Data); err != nil {
		return errs.NewUploadFailedErrorWithCause(action, err)
	}

	point, err := json.Marshal(map[string]float64{
		"lat": fix.Point.Latitude(),
		"lng": fix.Point.Longitude(),
	})
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("location payload is invalid", err)
	}
	if err = writer.WriteField(multipartFieldPoint, string(point)); err != nil {
		return errs.NewUploadFailedErrorWithCause(action, err)
	}
	if err = writer.WriteField("notes", ev.Notes()); err != nil {
		return errs.NewUploadFailedErrorWithCause(action, err)
	}
	if ev.Kind() == evidence.Dropoff {
		if err = writer.WriteField("recipientName", ev.RecipientName()); err != nil {
			return errs.NewUploadFailedErrorWithCause(action, err)
		}
	}
	if err = writer.Close(); err != nil {
		return errs.NewUploadFailedErrorWithCause(action, err)
	}

	endpoint := fmt.Sprintf("%s/assignments/%s/%s", c.baseURL, ev.AssignmentID(), action)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return errs.NewUploadFailedErrorWithCause(action, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.NewUploadFailedErrorWithCause(action, err)
	}
	defer func() { _ = resp.Body.Close() }()

	return c.classifyWrite(resp, action, true)
}

func (c *Client) read(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, errs.NewTransientNetworkErrorWithCause("get "+path, err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.NewTransientNetworkErrorWithCause("get "+path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, errs.NewUnauthorizedError()
	case resp.StatusCode == http.StatusNotFound:
		return nil, errs.NewObjectNotFoundError("path", path)
	case resp.StatusCode >= 500:
		return nil, errs.NewTransientNetworkErrorWithCause("get "+path,
			fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return nil, errs.NewServerRejectedError(resp.StatusCode, readErrorMessage(resp.Body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.NewTransientNetworkErrorWithCause("get "+path, err)
	}
	return body, nil
}

// classifyWrite maps a write response status into the error taxonomy.
// Evidence uploads classify transport-level failures as UploadFailed,
// location pushes as TransientNetwork.
func (c *Client) classifyWrite(resp *http.Response, operation string, upload bool) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errs.NewUnauthorizedError()
	case resp.StatusCode >= 500:
		cause := fmt.Errorf("status %d", resp.StatusCode)
		if upload {
			return errs.NewUploadFailedErrorWithCause(operation, cause)
		}
		return errs.NewTransientNetworkErrorWithCause(operation, cause)
	default:
		return errs.NewServerRejectedError(resp.StatusCode, readErrorMessage(resp.Body))
	}
}

// readErrorMessage extracts the backend's message from an error body,
// falling back to the raw body text.
func readErrorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, errorBodyReadLimit))
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return trimmed
}

func (c *Client) authorize(req *http.Request) {
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

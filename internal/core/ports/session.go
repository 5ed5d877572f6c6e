// Package ports defines the contracts between the agent core and infrastructure.
// These interfaces establish the boundaries toward the backend, the positioning
// hardware, and the local assignment cache, enabling dependency inversion and
// testability.
package ports

// Session provides the credentials of the authenticated courier.
// All backend calls are made on behalf of the session's courier; the token
// is attached as a bearer credential to every request.
type Session interface {
	// Token returns the current access token.
	// Implementations may refresh the token internally; callers must not cache it.
	Token() string

	// CourierID returns the identifier of the authenticated courier.
	CourierID() string
}

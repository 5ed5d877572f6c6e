// Package tracking provides the domain model for location telemetry:
// position fixes, location samples, tracking-session states and modes,
// and the admission filter applied to streamed fixes.
//
// All of these types are ephemeral by design. A LocationSample is produced,
// transmitted once, and discarded; nothing in this package is ever persisted.
package tracking

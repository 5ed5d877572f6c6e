// Package evidence provides the verification record that accompanies every
// requested status transition: a photo plus a fresh geolocation fix, and for
// dropoffs the recipient's name.
//
// Evidence is deliberately ephemeral. A record exists for exactly one
// submission attempt; it is never persisted, and a failed attempt cannot be
// resubmitted - the operator re-invokes the flow with a fresh photo and a
// fresh fix.
package evidence

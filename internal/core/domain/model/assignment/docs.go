// Package assignment provides domain entities and business logic for delivery
// assignments in the courier agent. It implements the Assignment aggregate
// root together with its server-adjudicated lifecycle status.
//
// The package includes:
//   - Assignment: The aggregate root carrying identity, waypoints, and details
//   - Status: The lifecycle state with request-gate validation
//   - Kind: Classification of what an assignment moves
//   - Waypoint / Item: Value objects for the route ends and the manifest
//
// Key business rules:
//   - Status transitions are owned by the backend; the agent adopts reported
//     statuses wholesale and never computes one locally
//   - Pickup evidence may only be requested while Assigned; dropoff evidence
//     only while InProgress
//   - Location telemetry runs exactly while the status is Assigned or
//     InProgress
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package assignment

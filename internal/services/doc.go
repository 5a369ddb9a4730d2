// Package services defines the shared error taxonomy and context annotations
// used across the authentication engine.
//
// Component operations return explicit failure signals tagged with one of the
// exported sentinel errors; the flow engine is the single place that turns
// those signals into user-visible outcomes. Recoverable distinguishes
// "try again" failures from terminal ones (lockout, persistence, busy).
package services

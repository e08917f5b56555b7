// Package coordinator consumes the event bus and starts a flow for every
// trigger event it has a handler for.
//
// Triggers are handled take-every: each consumed trigger runs its handler
// in its own goroutine to completion, concurrently with earlier runs.
// Registered sub-flows run alongside the bus consumer for the lifetime of Run.
package coordinator

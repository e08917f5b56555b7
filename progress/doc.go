// Package progress keeps aggregated flow counters (queued triggers,
// started, running, completed and failed flows) for a coordinator.
package progress

// Package tracing wraps OpenTelemetry so that flows and the coordinator can
// open spans without importing the SDK directly. Until Init or
// InitWithExporter is called spans are no-ops.
package tracing

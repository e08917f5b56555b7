// Package messaging defines the queue abstraction backing the event bus.
package messaging

import (
	"context"
)

// Vendor represents the name of a messaging vendor
type Vendor string

const (
	// VendorMemory keeps messages in a buffered channel.
	VendorMemory Vendor = "memory"
	// VendorFs persists messages as JSON files through afs.
	VendorFs Vendor = "fs"
)

// Queue represents an abstract message queue for any payload type
type Queue[T any] interface {
	// Publish adds a new message with payload to the queue
	Publish(ctx context.Context, t *T) error

	// Consume retrieves a single message from the queue. Implementations that
	// poll may return a nil message with a nil error when nothing is pending.
	Consume(ctx context.Context) (Message[T], error)
}

// Message represents a message retrieved from a queue
type Message[T any] interface {
	// T returns the payload of this message
	T() *T

	// Ack acknowledges successful processing of this message
	Ack() error

	// Nack marks the message as failed. Bus messages are not redelivered.
	Nack(err error) error
}

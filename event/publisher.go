package event

import (
	"context"

	"github.com/viant/settingsflow/internal/clock"
	"github.com/viant/settingsflow/messaging"
)

type Publisher[T any] struct {
	queue messaging.Queue[Event[T]]
}

func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{
		queue: queue,
	}
}

func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = clock.Now()
	}
	return p.queue.Publish(ctx, event)
}

// Delivery is a consumed event whose bus message is settled by the consumer.
type Delivery[T any] struct {
	Event   *Event[T]
	message messaging.Message[Event[T]]
}

// Ack settles the message as processed.
func (d *Delivery[T]) Ack() error {
	return d.message.Ack()
}

// Nack settles the message as failed with err.
func (d *Delivery[T]) Nack(err error) error {
	return d.message.Nack(err)
}

// Receive returns the next event without settling its message. A nil
// delivery with a nil error means the queue had nothing pending.
func (p *Publisher[T]) Receive(ctx context.Context) (*Delivery[T], error) {
	msg, err := p.queue.Consume(ctx)
	if err != nil || msg == nil {
		return nil, err
	}
	return &Delivery[T]{Event: msg.T(), message: msg}, nil
}

// Consume returns the next event, acknowledging its message. A nil event with
// a nil error means the queue had nothing pending.
func (p *Publisher[T]) Consume(ctx context.Context) (*Event[T], error) {
	msg, err := p.queue.Consume(ctx)
	if err != nil || msg == nil {
		return nil, err
	}
	if err = msg.Ack(); err != nil {
		return nil, err
	}
	return msg.T(), nil
}

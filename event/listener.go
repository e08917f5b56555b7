package event

import (
	"context"
	"time"

	"github.com/viant/settingsflow/internal/clock"
	"go.uber.org/zap"
)

// ListenerOption customises a Listener.
type ListenerOption func(l *listenerConfig)

type listenerConfig struct {
	pollInterval time.Duration
	logger       *zap.Logger
}

// WithPollInterval sets the wait used when a polling queue has nothing pending.
func WithPollInterval(d time.Duration) ListenerOption {
	return func(l *listenerConfig) { l.pollInterval = d }
}

// WithListenerLogger sets the logger used to report consume errors.
func WithListenerLogger(logger *zap.Logger) ListenerOption {
	return func(l *listenerConfig) { l.logger = logger }
}

// Listener feeds every delivery received from a publisher to a handler, in
// order. The handler settles each delivery.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(context.Context, *Delivery[T])
	config    listenerConfig
}

func NewListener[T any](publisher *Publisher[T], handler func(context.Context, *Delivery[T]), opts ...ListenerOption) *Listener[T] {
	ret := &Listener[T]{
		publisher: publisher,
		handler:   handler,
		config:    listenerConfig{pollInterval: 50 * time.Millisecond, logger: zap.NewNop()},
	}
	for _, opt := range opts {
		opt(&ret.config)
	}
	return ret
}

// Run consumes until ctx is done and returns the context error.
func (l *Listener[T]) Run(ctx context.Context) error {
	for {
		delivery, err := l.publisher.Receive(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			l.config.logger.Warn("event consume failed", zap.Error(err))
		}
		if delivery == nil {
			if err := clock.Sleep(ctx, l.config.pollInterval); err != nil {
				return err
			}
			continue
		}
		l.handler(ctx, delivery)
	}
}

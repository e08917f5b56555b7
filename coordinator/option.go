package coordinator

import (
	"context"
	"time"

	"github.com/viant/settingsflow/event"
	"github.com/viant/settingsflow/progress"
	"go.uber.org/zap"
)

type Option func(s *Service)

// WithHandler registers the flow started for eventType triggers.
func WithHandler(eventType event.Type, handler Handler) Option {
	return func(s *Service) { s.handlers[eventType] = handler }
}

// WithHandlers registers a dispatch table.
func WithHandlers[H ~func(context.Context, *event.Event[any]) error](handlers map[event.Type]H) Option {
	return func(s *Service) {
		for eventType, handler := range handlers {
			s.handlers[eventType] = Handler(handler)
		}
	}
}

// WithSubFlow runs fn for the lifetime of the coordinator.
func WithSubFlow(name string, fn SubFlow) Option {
	return func(s *Service) { s.subFlows = append(s.subFlows, namedSubFlow{name: name, run: fn}) }
}

func WithProgress(p *progress.Progress) Option {
	return func(s *Service) { s.progress = p }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithOnError receives every error propagated out of a flow.
func WithOnError(fn func(trigger *event.Event[any], err error)) Option {
	return func(s *Service) { s.onError = fn }
}

// WithFailFast stops Run on the first propagated flow error.
func WithFailFast(failFast bool) Option {
	return func(s *Service) { s.failFast = failFast }
}

func WithPollInterval(d time.Duration) Option {
	return func(s *Service) { s.pollInterval = d }
}

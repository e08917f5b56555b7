// Package store holds the account-settings state. Every dispatched event is
// reduced and then published, under one lock, on the event bus.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/settingsflow/event"
)

// Listener observes each applied event together with the resulting state.
// Listeners run under the store lock and must not dispatch.
type Listener func(state State, e *event.Event[any])

type Option func(s *Store)

// WithBus publishes every applied event on bus.
func WithBus(bus *event.Publisher[any]) Option {
	return func(s *Store) { s.bus = bus }
}

// WithListener registers a state listener.
func WithListener(listener Listener) Option {
	return func(s *Store) { s.listeners = append(s.listeners, listener) }
}

type Store struct {
	mu        sync.Mutex
	state     State
	bus       *event.Publisher[any]
	listeners []Listener
}

func New(initial State, opts ...Option) *Store {
	ret := &Store{state: initial}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// State returns the current state snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a listener after construction.
func (s *Store) Subscribe(listener Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, listener)
	s.mu.Unlock()
}

// Dispatch applies e and forwards it to the bus and listeners.
func (s *Store) Dispatch(ctx context.Context, e *event.Event[any]) error {
	if e == nil || e.Context == nil {
		return fmt.Errorf("store: cannot dispatch %w", event.ErrNilEvent)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Reduce(s.state, e)
	if err != nil {
		return fmt.Errorf("store: failed to reduce %s: %w", e.Type(), err)
	}
	s.state = next
	for _, listener := range s.listeners {
		listener(next, e)
	}
	if s.bus != nil {
		if err = s.bus.Publish(ctx, e); err != nil {
			return fmt.Errorf("store: failed to publish %s: %w", e.Type(), err)
		}
	}
	return nil
}

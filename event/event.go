// Package event defines the envelope carried on the settings event bus and
// the publisher/listener pair that moves it through a messaging queue.
package event

import (
	"time"

	"github.com/viant/settingsflow/internal/clock"
	"github.com/viant/settingsflow/internal/idgen"
)

// Type identifies an event, for example ACCOUNT_SETTINGS__SAVE_SETTINGS__BEGIN.
type Type string

type Context struct {
	ID        string `json:"id"`
	EventType Type   `json:"eventType"`
	FlowID    string `json:"flowID,omitempty"`
}

type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}

// Type returns the event type or an empty type for a nil event.
func (e *Event[T]) Type() Type {
	if e == nil || e.Context == nil {
		return ""
	}
	return e.Context.EventType
}

// WithFlowID tags the event with the flow invocation that emitted it.
func (e *Event[T]) WithFlowID(flowID string) *Event[T] {
	if e != nil && e.Context != nil {
		e.Context.FlowID = flowID
	}
	return e
}

func NewEvent[T any](eventType Type, data T) *Event[T] {
	return &Event[T]{
		Context:   &Context{ID: idgen.New(), EventType: eventType},
		CreatedAt: clock.Now(),
		Data:      data,
	}
}

// New creates an untyped event as carried by the bus.
func New(eventType Type, data interface{}) *Event[any] {
	return NewEvent[any](eventType, data)
}

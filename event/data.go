package event

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNilEvent is returned when a nil event is decoded.
	ErrNilEvent = errors.New("event: nil event")
	// ErrInvalidData is wrapped by DataAs when the payload does not decode as the requested type.
	ErrInvalidData = errors.New("event: invalid payload")
)

// DataAs returns the event payload as T. Payloads that crossed a persistent
// queue arrive as generic JSON values and are re-decoded into T.
func DataAs[T any](e *Event[any]) (T, error) {
	var ret T
	if e == nil {
		return ret, ErrNilEvent
	}
	switch actual := e.Data.(type) {
	case nil:
		return ret, nil
	case T:
		return actual, nil
	case *T:
		if actual != nil {
			return *actual, nil
		}
		return ret, nil
	}
	data, err := json.Marshal(e.Data)
	if err != nil {
		return ret, fmt.Errorf("%w: failed to encode %s payload: %w", ErrInvalidData, e.Type(), err)
	}
	if err = json.Unmarshal(data, &ret); err != nil {
		return ret, fmt.Errorf("%w: failed to decode %s payload as %T: %w", ErrInvalidData, e.Type(), ret, err)
	}
	return ret, nil
}

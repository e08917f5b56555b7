package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/viant/settingsflow"
	"github.com/viant/settingsflow/event"
	"github.com/viant/settingsflow/internal/clock"
	"github.com/viant/settingsflow/store"
)

// trigger is one stdin line: {"type": "...", "data": {...}}.
type trigger struct {
	Type event.Type  `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// output is one stdout line.
type output struct {
	Type   event.Type  `json:"type"`
	FlowID string      `json:"flowId,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	State  store.State `json:"state"`
}

type printer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func newPrinter(w io.Writer) *printer {
	return &printer{enc: json.NewEncoder(w)}
}

func (p *printer) print(state store.State, e *event.Event[any]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.enc.Encode(output{Type: e.Type(), FlowID: e.Context.FlowID, Data: e.Data, State: state})
}

// serve dispatches the triggers read from in and returns once in is
// exhausted and no flow is running, once the coordinator stops, or once ctx
// is done.
func serve(ctx context.Context, srv *settingsflow.Service, in io.Reader, idleCheck time.Duration) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- srv.Run(runCtx) }()

	dispatched := make(chan error, 1)
	go func() { dispatched <- dispatchAll(runCtx, srv, in) }()
	select {
	case err := <-done:
		return err
	case err := <-dispatched:
		if err != nil {
			cancel()
			<-done
			return err
		}
	}
	for !srv.Idle() {
		if err := clock.Sleep(runCtx, idleCheck); err != nil {
			break
		}
		select {
		case err := <-done:
			return err
		default:
		}
	}
	cancel()
	return <-done
}

func dispatchAll(ctx context.Context, srv *settingsflow.Service, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var t trigger
		if err := json.Unmarshal([]byte(text), &t); err != nil {
			return fmt.Errorf("line %d: invalid trigger: %w", line, err)
		}
		if t.Type == "" {
			return fmt.Errorf("line %d: %w", line, errMissingType)
		}
		if err := srv.Dispatch(ctx, event.New(t.Type, t.Data)); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return scanner.Err()
}

var errMissingType = errors.New("trigger type is required")

package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/viant/settingsflow/event"
	"github.com/viant/settingsflow/progress"
	"github.com/viant/settingsflow/store"
	"github.com/viant/settingsflow/tracing"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoHandler is returned by Handle for event types without a registered flow.
	ErrNoHandler = errors.New("coordinator: no handler registered")
	// ErrBusRequired is returned by New without a bus.
	ErrBusRequired = errors.New("coordinator: bus is required")
)

// Handler runs one flow invocation for a trigger.
type Handler func(ctx context.Context, e *event.Event[any]) error

// SubFlow is an externally provided routine run for the coordinator lifetime.
type SubFlow func(ctx context.Context) error

type namedSubFlow struct {
	name string
	run  SubFlow
}

type Service struct {
	bus          *event.Publisher[any]
	handlers     map[event.Type]Handler
	subFlows     []namedSubFlow
	progress     *progress.Progress
	logger       *zap.Logger
	onError      func(trigger *event.Event[any], err error)
	failFast     bool
	pollInterval time.Duration
	wg           sync.WaitGroup
}

func New(bus *event.Publisher[any], opts ...Option) (*Service, error) {
	ret := &Service{
		bus:          bus,
		handlers:     map[event.Type]Handler{},
		logger:       zap.NewNop(),
		pollInterval: 50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.bus == nil {
		return nil, ErrBusRequired
	}
	if ret.progress == nil {
		ret.progress = progress.New(nil)
	}
	return ret, nil
}

// Progress returns the flow counters.
func (s *Service) Progress() *progress.Progress {
	return s.progress
}

// Handles reports whether eventType starts a flow.
func (s *Service) Handles(eventType event.Type) bool {
	_, ok := s.handlers[eventType]
	return ok
}

// Observe counts triggers as they are applied; register it as a store listener.
func (s *Service) Observe(_ store.State, e *event.Event[any]) {
	if s.Handles(e.Type()) {
		s.progress.Update(progress.Queued())
	}
}

// Run consumes the bus and runs the sub-flows until ctx is done. It returns
// nil on cancellation of ctx, the first sub-flow error, or, with fail-fast,
// the first flow error. Flows still running are given the cancelled context
// and awaited before Run returns.
func (s *Service) Run(ctx context.Context) error {
	runCtx, abort := context.WithCancelCause(ctx)
	defer abort(nil)

	group, groupCtx := errgroup.WithContext(runCtx)
	for _, subFlow := range s.subFlows {
		group.Go(func() error {
			s.logger.Debug("sub-flow started", zap.String("subFlow", subFlow.name))
			if err := subFlow.run(groupCtx); err != nil && groupCtx.Err() == nil {
				return fmt.Errorf("coordinator: sub-flow %s failed: %w", subFlow.name, err)
			}
			return nil
		})
	}
	group.Go(func() error {
		listener := event.NewListener(s.bus, func(ctx context.Context, d *event.Delivery[any]) {
			s.start(ctx, d, abort)
		}, event.WithPollInterval(s.pollInterval), event.WithListenerLogger(s.logger))
		return listener.Run(groupCtx)
	})

	err := group.Wait()
	s.wg.Wait()
	if cause := context.Cause(runCtx); cause != nil && !isDone(cause) {
		return cause
	}
	if err != nil && !isDone(err) {
		return err
	}
	return nil
}

func isDone(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Handle runs the flow registered for e and waits for it to finish.
func (s *Service) Handle(ctx context.Context, e *event.Event[any]) error {
	return s.handle(ctx, e, progress.Delta{Total: 1, Running: 1})
}

func (s *Service) handle(ctx context.Context, e *event.Event[any], started progress.Delta) error {
	handler, ok := s.handlers[e.Type()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoHandler, e.Type())
	}
	s.progress.Update(started)
	err := s.invoke(ctx, handler, e)
	s.progress.Update(progress.Finished(err))
	return err
}

// start runs the flow of a consumed trigger in its own goroutine. The bus
// message is settled when the flow ends: triggers whose payload cannot be
// decoded are nacked, everything else is acked.
func (s *Service) start(ctx context.Context, d *event.Delivery[any], abort context.CancelCauseFunc) {
	e := d.Event
	if !s.Handles(e.Type()) {
		s.settle(d, nil)
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := s.handle(ctx, e, progress.Started())
		s.settle(d, err)
		if err == nil {
			return
		}
		s.logger.Error("flow failed",
			zap.String("eventType", string(e.Type())),
			zap.String("flowID", e.Context.ID),
			zap.Error(err))
		if s.onError != nil {
			s.onError(e, err)
		}
		if s.failFast {
			abort(fmt.Errorf("coordinator: flow %s failed: %w", e.Type(), err))
		}
	}()
}

func (s *Service) settle(d *event.Delivery[any], err error) {
	var settleErr error
	if errors.Is(err, event.ErrInvalidData) {
		settleErr = d.Nack(err)
	} else {
		settleErr = d.Ack()
	}
	if settleErr != nil {
		s.logger.Warn("failed to settle bus message", zap.String("eventType", string(d.Event.Type())), zap.Error(settleErr))
	}
}

func (s *Service) invoke(ctx context.Context, handler Handler, e *event.Event[any]) (err error) {
	ctx, span := tracing.StartSpan(ctx, "coordinator."+string(e.Type()))
	span.WithAttributes(map[string]string{"flow.id": e.Context.ID})
	defer func() { tracing.EndSpan(span, err) }()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("coordinator: flow %s panicked: %v", e.Type(), r)
		}
	}()

	s.logger.Debug("flow started", zap.String("eventType", string(e.Type())), zap.String("flowID", e.Context.ID))
	err = handler(ctx, e)
	s.logger.Debug("flow finished", zap.String("eventType", string(e.Type())), zap.String("flowID", e.Context.ID), zap.Bool("failed", err != nil))
	return err
}

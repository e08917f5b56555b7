package progress

import (
	"sync"
	"time"

	"github.com/viant/settingsflow/internal/clock"
)

// Delta is a signed counter change.
type Delta struct {
	Queued    int
	Total     int
	Running   int
	Completed int
	Failed    int
}

// Queued is the delta of one trigger waiting on the bus.
func Queued() Delta { return Delta{Queued: 1} }

// Started is the delta of one queued trigger starting its flow.
func Started() Delta { return Delta{Queued: -1, Total: 1, Running: 1} }

// Finished is the delta of one flow invocation ending, failed when err != nil.
func Finished(err error) Delta {
	if err != nil {
		return Delta{Running: -1, Failed: 1}
	}
	return Delta{Running: -1, Completed: 1}
}

// Progress keeps flow counters.
type Progress struct {
	StartedAt time.Time
	UpdatedAt time.Time

	QueuedTriggers int
	TotalFlows     int
	RunningFlows   int
	CompletedFlows int
	FailedFlows    int

	mu       sync.Mutex
	onChange func(Progress)
}

// New creates a tracker; onChange, when set, receives a copy after every update.
func New(onChange func(Progress)) *Progress {
	now := clock.Now()
	return &Progress{StartedAt: now, UpdatedAt: now, onChange: onChange}
}

// Update applies d. The callback runs outside the lock.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.QueuedTriggers += d.Queued
	p.TotalFlows += d.Total
	p.RunningFlows += d.Running
	p.CompletedFlows += d.Completed
	p.FailedFlows += d.Failed
	p.UpdatedAt = clock.Now()
	snapshot := p.copyLocked()
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the counters.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.copyLocked()
}

// Idle reports whether no flow is running and no trigger is waiting.
func (p *Progress) Idle() bool {
	snapshot := p.Snapshot()
	return snapshot.RunningFlows == 0 && snapshot.QueuedTriggers <= 0
}

func (p *Progress) copyLocked() Progress {
	return Progress{
		StartedAt:      p.StartedAt,
		UpdatedAt:      p.UpdatedAt,
		QueuedTriggers: p.QueuedTriggers,
		TotalFlows:     p.TotalFlows,
		RunningFlows:   p.RunningFlows,
		CompletedFlows: p.CompletedFlows,
		FailedFlows:    p.FailedFlows,
	}
}

package clock

import (
	"context"
	"time"
)

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// AfterFunc returns a channel firing after d. Override in tests to skip real waits.
var AfterFunc = time.After

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Sleep blocks for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-AfterFunc(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package backoff

import (
	"context"
	"time"
)

// Clock supplies the current time. Implementations must never go backward.
type Clock interface {
	Now() time.Time
}

// Sleeper waits between attempts.
// Sleep returns early with ctx.Err() when ctx is done before d elapses.
// Any error ends the retry sequence.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemClock implements Clock and Sleeper using the standard time package.
// time.Now carries a monotonic reading, so elapsed time is immune to wall clock jumps.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Sleep pauses the calling goroutine for d or until ctx is done.
func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	}
}

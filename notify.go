package backoff

import (
	"fmt"
	"log/slog"
	"time"
)

// Notify observes a failed attempt before the loop waits d.
// It cannot influence the retry sequence.
type Notify func(err error, d time.Duration)

// LogNotify returns a Notify that logs each retry at warn level.
func LogNotify(logger *slog.Logger) Notify {
	return func(err error, d time.Duration) {
		logger.Warn("retrying", "error", err, "delay", d)
	}
}

// notifyRetry runs the hook and contains its panics.
func (c *config) notifyRetry(err error, d time.Duration) {
	if c.notify == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("notify hook panicked", "panic", fmt.Sprint(r), "error", err, "delay", d)
		}
	}()
	c.notify(err, d)
}

package backoff

import (
	"context"
	"time"
)

// Operation is a retryable operation.
//
// A nil error ends the sequence with the returned value. An error wrapped with
// Permanent ends it with that error. Any other error is retried.
type Operation[T any] func() (T, error)

// Retry runs op until it succeeds, returns a permanent error, or b stops.
// It resets b first and blocks the calling goroutine between attempts.
//
// On exhaustion the error of the last attempt is returned unchanged. The same
// happens when the Sleeper fails, since no further attempt can be paced.
func Retry[T any](b Backoff, op Operation[T], opts ...Option) (T, error) {
	return execute(b, op, newConfig(opts))
}

// RetryNotify is Retry with a hook called before each wait.
func RetryNotify[T any](b Backoff, op Operation[T], notify Notify, opts ...Option) (T, error) {
	cfg := newConfig(opts)
	cfg.notify = notify
	return execute(b, op, cfg)
}

func execute[T any](b Backoff, op Operation[T], cfg config) (T, error) {
	b.Reset()

	for {
		v, err := op()
		if err == nil {
			return v, nil
		}

		inner, wait, stop := step(b, err)
		if stop {
			var zero T
			return zero, inner
		}

		cfg.notifyRetry(inner, wait)
		if err := cfg.sleeper.Sleep(context.Background(), wait); err != nil {
			var zero T
			return zero, inner
		}
	}
}

// step decides what follows a failed attempt. It returns the caller's error,
// the wait before the next attempt, and whether the sequence is over.
func step(b Backoff, err error) (inner error, wait time.Duration, stop bool) {
	inner, permanent, hint := classify(err)
	if permanent {
		return inner, 0, true
	}
	d, ok := b.NextBackOff()
	if !ok {
		return inner, 0, true
	}
	return inner, max(d, hint), false
}

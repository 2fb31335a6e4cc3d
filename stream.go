package backoff

import (
	"context"
	"iter"
)

// Stream paces a fallible sequence with b.
//
// Values pass through unchanged and reset b. Each error is yielded with the
// zero value and the stream then waits for the next backoff before pulling
// from seq again. The stream ends after a permanent error, once b stops, or
// when ctx ends a wait. In the last case a *CanceledError is yielded first.
//
// Errors are yielded unwrapped, the same way the retry loops return them.
func Stream[T any](ctx context.Context, b Backoff, seq iter.Seq2[T, error], opts ...Option) iter.Seq2[T, error] {
	cfg := newConfig(opts)

	return func(yield func(T, error) bool) {
		var zero T

		b.Reset()

		for v, err := range seq {
			if err == nil {
				b.Reset()
				if !yield(v, nil) {
					return
				}
				continue
			}

			inner, wait, stop := step(b, err)
			if !yield(zero, inner) || stop {
				return
			}

			cfg.notifyRetry(inner, wait)
			if err := cfg.sleeper.Sleep(ctx, wait); err != nil {
				yield(zero, canceled(ctx, inner))
				return
			}
		}
	}
}

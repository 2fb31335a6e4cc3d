package backoff

import "context"

// OperationContext is a retryable operation that observes cancellation.
// Its errors follow the same rules as Operation.
type OperationContext[T any] func(ctx context.Context) (T, error)

// RetryContext runs op until it succeeds, returns a permanent error, b stops,
// or ctx is done. Waits end early when ctx is done.
//
// Cancellation is reported as a *CanceledError, which matches ErrCanceled
// and ctx.Err() with errors.Is. No attempt starts after ctx is done. A
// transient failure returned after ctx is done is reported as cancellation
// without consulting b or calling the notify hook.
func RetryContext[T any](ctx context.Context, b Backoff, op OperationContext[T], opts ...Option) (T, error) {
	return executeContext(ctx, b, op, newConfig(opts))
}

// RetryNotifyContext is RetryContext with a hook called before each wait.
func RetryNotifyContext[T any](ctx context.Context, b Backoff, op OperationContext[T], notify Notify, opts ...Option) (T, error) {
	cfg := newConfig(opts)
	cfg.notify = notify
	return executeContext(ctx, b, op, cfg)
}

func executeContext[T any](ctx context.Context, b Backoff, op OperationContext[T], cfg config) (T, error) {
	var zero T
	var lastErr error

	b.Reset()

	for {
		if ctx.Err() != nil {
			return zero, canceled(ctx, lastErr)
		}

		v, err := op(ctx)
		if err == nil {
			return v, nil
		}

		if ctx.Err() != nil {
			inner, permanent, _ := classify(err)
			if permanent {
				return zero, inner
			}
			return zero, canceled(ctx, inner)
		}

		inner, wait, stop := step(b, err)
		if stop {
			return zero, inner
		}
		lastErr = inner

		cfg.notifyRetry(inner, wait)
		if err := cfg.sleeper.Sleep(ctx, wait); err != nil {
			return zero, canceled(ctx, lastErr)
		}
	}
}

func canceled(ctx context.Context, last error) error {
	err := ctx.Err()
	if err == nil {
		// the sleeper failed on its own; treat it as cancellation
		err = context.Canceled
	}
	cause := context.Cause(ctx)
	if cause == nil {
		cause = err
	}
	return &CanceledError{Err: err, Cause: cause, Last: last}
}

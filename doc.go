// Package backoff retries fallible operations according to a backoff policy.
//
// It provides:
//
//   - Backoff Policies: ExponentialBackoff with jitter, Constant, FixedNumber, Zero, Stop
//   - Error Classification: Permanent, Transient and RetryAfter wrappers
//   - Blocking and Context-Aware Loops: Retry and RetryContext share one state machine
//   - Background Tasks: Start runs a retry sequence on its own goroutine
//   - Stream Pacing: Stream waits after each error of a fallible iter.Seq2
//   - Injectable Clock, Sleeper and RandomSource: deterministic tests without real sleeps
//
// # Quick Start
//
//	b := backoff.DefaultExponential()
//	user, err := backoff.Retry(b, func() (*User, error) {
//	    return client.GetUser(id)
//	})
//
// With cancellation:
//
//	user, err := backoff.RetryContext(ctx, b, func(ctx context.Context) (*User, error) {
//	    return client.GetUser(ctx, id)
//	})
//	if errors.Is(err, backoff.ErrCanceled) {
//	    // ctx ended before the sequence did
//	}
//
// # Error Classification
//
// Every non-nil error is transient unless wrapped with Permanent:
//
//	user, err := db.Get(ctx, id)
//	if errors.Is(err, sql.ErrNoRows) {
//	    return nil, backoff.Permanent(ErrNotFound) // don't retry "not found"
//	}
//	return user, err // retried
//
// A server-provided hint becomes a lower bound on the next wait:
//
//	if resp.StatusCode == http.StatusTooManyRequests {
//	    return nil, backoff.RetryAfter(errRateLimited, parseRetryAfter(resp))
//	}
//
// The loop returns the wrapped error, never the wrapper. When the policy gives
// up, the error of the last attempt is returned unchanged.
//
// # Exponential Backoff
//
// For interval c and randomization factor r each wait is drawn uniformly from
// [c*(1-r), c*(1+r)], then c grows by Multiplier up to MaxInterval:
//
//	b, err := backoff.NewExponential(
//	    backoff.WithInitialInterval(100*time.Millisecond),
//	    backoff.WithMultiplier(2),
//	    backoff.WithMaxInterval(10*time.Second),
//	    backoff.WithMaxElapsedTime(time.Minute),
//	)
//
// A policy is stateful. Create one per retry sequence; the loop resets it
// before the first attempt.
//
// # Observability
//
// A Notify hook sees each error and the wait that follows it:
//
//	_, err := backoff.RetryNotify(b, op, backoff.LogNotify(slog.Default()))
//
// # Testing
//
// Inject a fake clock into the policy and a fake sleeper into the loop:
//
//	type fakeClock struct{ now time.Time }
//
//	func (c *fakeClock) Now() time.Time { return c.now }
//	func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
//	    c.now = c.now.Add(d)
//	    return ctx.Err()
//	}
//
//	clock := &fakeClock{now: time.Now()}
//	b, _ := backoff.NewExponential(backoff.WithClock(clock), backoff.WithRandomizationFactor(0))
//	_, err := backoff.Retry(b, op, backoff.WithSleeper(clock))
package backoff

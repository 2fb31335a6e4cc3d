package backoff

import "context"

// Task is a retry sequence running on its own goroutine.
type Task[T any] struct {
	cancel context.CancelFunc
	done   chan struct{}
	value  T
	err    error
}

// Start runs RetryContext on a new goroutine and returns immediately.
// b must not be used by anything else until the task is done.
func Start[T any](ctx context.Context, b Backoff, op OperationContext[T], opts ...Option) *Task[T] {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task[T]{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	cfg := newConfig(opts)
	go func() {
		defer close(t.done)
		defer cancel()
		t.value, t.err = executeContext(ctx, b, op, cfg)
	}()
	return t
}

// Done is closed when the sequence has finished.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the sequence has finished and returns its outcome.
func (t *Task[T]) Wait() (T, error) {
	<-t.done
	return t.value, t.err
}

// Cancel stops the sequence. An attempt in progress sees its context canceled;
// no new attempt starts. Cancel does not wait for the task to finish.
func (t *Task[T]) Cancel() {
	t.cancel()
}

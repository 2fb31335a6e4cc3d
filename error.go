package backoff

import (
	"errors"
	"time"
)

var (
	// ErrInvalidConfig is returned when a policy configuration cannot be used.
	ErrInvalidConfig = errors.New("backoff: invalid config")

	// ErrCanceled is matched by the error a context-aware retry returns when
	// its context ends before the sequence finishes.
	ErrCanceled = errors.New("backoff: retry canceled")
)

// Permanent wraps err to signal that it should not be retried.
// The retry loop immediately returns the unwrapped error.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// Transient wraps err to signal that it should be retried according to the
// backoff policy. Unwrapped errors are treated the same way.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// RetryAfter wraps err as transient with a minimum wait of d before the next
// attempt, for example from a rate-limit response.
func RetryAfter(err error, d time.Duration) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err, RetryAfter: d}
}

// PermanentError is an error that stops the retry sequence.
type PermanentError struct {
	Err error
}

// Error returns the wrapped error's message.
func (e *PermanentError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *PermanentError) Unwrap() error {
	return e.Err
}

// TransientError is an error that may succeed if retried.
type TransientError struct {
	Err error
	// RetryAfter is a lower bound on the next wait; 0 means no hint.
	RetryAfter time.Duration
}

// Error returns the wrapped error's message.
func (e *TransientError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *TransientError) Unwrap() error {
	return e.Err
}

// CanceledError reports that a context-aware retry ended because its context
// was done. It matches ErrCanceled and the context's cause with errors.Is.
type CanceledError struct {
	// Err is ctx.Err() of the canceled context.
	Err error
	// Cause is context.Cause of the canceled context. It equals Err unless
	// the context was canceled with a cause.
	Cause error
	// Last is the error of the most recent attempt, nil if none ran.
	Last error
}

// Error reports the cause and, when an attempt ran, its last error.
func (e *CanceledError) Error() string {
	if e.Last == nil {
		return ErrCanceled.Error() + ": " + e.Cause.Error()
	}
	return ErrCanceled.Error() + ": " + e.Cause.Error() + " (last error: " + e.Last.Error() + ")"
}

// Is reports whether target is ErrCanceled.
func (e *CanceledError) Is(target error) bool {
	return target == ErrCanceled
}

// Unwrap returns the context error and, when it differs, the cause.
func (e *CanceledError) Unwrap() []error {
	if e.Cause == nil || e.Cause == e.Err {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// classify reports the inner error, whether it is permanent and any retry-after hint.
func classify(err error) (inner error, permanent bool, hint time.Duration) {
	var perm *PermanentError
	if errors.As(err, &perm) {
		return perm.Err, true, 0
	}
	var trans *TransientError
	if errors.As(err, &trans) {
		return trans.Err, false, trans.RetryAfter
	}
	return err, false, 0
}

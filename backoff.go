package backoff

import "time"

// Backoff produces the wait before each retry.
//
// A Backoff is stateful and belongs to a single retry sequence; it is not
// safe for concurrent use.
type Backoff interface {
	// NextBackOff is called once per failed attempt. It returns the duration
	// to wait before the next attempt, or ok == false when no further attempt
	// should be made. Once it reports false it keeps doing so until Reset.
	NextBackOff() (d time.Duration, ok bool)

	// Reset returns the policy to its just-constructed state.
	Reset()
}

// Zero retries immediately, forever.
type Zero struct{}

// NextBackOff implements Backoff.
func (Zero) NextBackOff() (time.Duration, bool) { return 0, true }

// Reset implements Backoff.
func (Zero) Reset() {}

// Stop never retries.
type Stop struct{}

// NextBackOff implements Backoff.
func (Stop) NextBackOff() (time.Duration, bool) { return 0, false }

// Reset implements Backoff.
func (Stop) Reset() {}

// ConstantBackoff always waits the same interval and never stops.
type ConstantBackoff struct {
	Interval time.Duration
}

// Constant returns a backoff that always waits d.
func Constant(d time.Duration) *ConstantBackoff {
	return &ConstantBackoff{Interval: d}
}

// NextBackOff implements Backoff.
func (b *ConstantBackoff) NextBackOff() (time.Duration, bool) {
	return b.Interval, true
}

// Reset implements Backoff.
func (b *ConstantBackoff) Reset() {}

// FixedNumberBackoff allows a fixed number of attempts with a constant interval.
type FixedNumberBackoff struct {
	interval    time.Duration
	maxAttempts int
	attempt     int
}

// FixedNumber returns a backoff that permits maxAttempts attempts in total,
// that is maxAttempts-1 waits of interval. maxAttempts <= 1 never retries.
func FixedNumber(interval time.Duration, maxAttempts int) *FixedNumberBackoff {
	return &FixedNumberBackoff{interval: interval, maxAttempts: maxAttempts}
}

// NextBackOff implements Backoff.
func (b *FixedNumberBackoff) NextBackOff() (time.Duration, bool) {
	if b.attempt >= b.maxAttempts-1 {
		return 0, false
	}
	b.attempt++
	return b.interval, true
}

// Reset implements Backoff.
func (b *FixedNumberBackoff) Reset() {
	b.attempt = 0
}

// maxRetries caps the number of retries granted by another policy.
type maxRetries struct {
	b       Backoff
	max     int
	retries int
}

// WithMaxRetries wraps b and stops after n retries, whichever of b's own stop
// condition and the count comes first.
func WithMaxRetries(b Backoff, n int) Backoff {
	return &maxRetries{b: b, max: n}
}

func (m *maxRetries) NextBackOff() (time.Duration, bool) {
	if m.retries >= m.max {
		return 0, false
	}
	d, ok := m.b.NextBackOff()
	if !ok {
		// pin the counter so later calls keep stopping without consulting b
		m.retries = m.max
		return 0, false
	}
	m.retries++
	return d, true
}

func (m *maxRetries) Reset() {
	m.retries = 0
	m.b.Reset()
}

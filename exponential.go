package backoff

import (
	"fmt"
	"math"
	"time"
)

// Default values for ExponentialBackoff.
const (
	DefaultInitialInterval     = 500 * time.Millisecond
	DefaultRandomizationFactor = 0.5
	DefaultMultiplier          = 1.5
	DefaultMaxInterval         = 60 * time.Second
	DefaultMaxElapsedTime      = 15 * time.Minute
)

// ExponentialBackoff grows the wait geometrically and randomizes each value.
//
// For a randomization factor r and current interval c, each wait is drawn
// uniformly from [c*(1-r), c*(1+r)]. After each call c becomes
// min(c*Multiplier, MaxInterval). Once MaxElapsedTime has passed since the
// first NextBackOff call, the policy stops.
//
// The configuration fields must not change while a retry sequence is running.
type ExponentialBackoff struct {
	InitialInterval     time.Duration
	RandomizationFactor float64
	Multiplier          float64
	MaxInterval         time.Duration
	MaxElapsedTime      time.Duration // 0 never stops

	Clock  Clock
	Random RandomSource

	currentInterval time.Duration
	startTime       time.Time
	started         bool
	stopped         bool
}

// ExponentialOption configures an ExponentialBackoff.
type ExponentialOption func(*ExponentialBackoff)

// WithInitialInterval sets the first wait.
func WithInitialInterval(d time.Duration) ExponentialOption {
	return func(b *ExponentialBackoff) {
		b.InitialInterval = d
	}
}

// WithRandomizationFactor sets the jitter factor. 0 disables jitter.
func WithRandomizationFactor(f float64) ExponentialOption {
	return func(b *ExponentialBackoff) {
		b.RandomizationFactor = f
	}
}

// WithMultiplier sets the growth factor. 1 yields constant intervals.
func WithMultiplier(m float64) ExponentialOption {
	return func(b *ExponentialBackoff) {
		b.Multiplier = m
	}
}

// WithMaxInterval caps the pre-jitter interval.
func WithMaxInterval(d time.Duration) ExponentialOption {
	return func(b *ExponentialBackoff) {
		b.MaxInterval = d
	}
}

// WithMaxElapsedTime sets the total time budget. 0 means unbounded.
func WithMaxElapsedTime(d time.Duration) ExponentialOption {
	return func(b *ExponentialBackoff) {
		b.MaxElapsedTime = d
	}
}

// WithClock sets the clock used for elapsed-time accounting. Useful for testing.
func WithClock(c Clock) ExponentialOption {
	return func(b *ExponentialBackoff) {
		b.Clock = c
	}
}

// WithRandom sets the jitter source. Useful for reproducible sequences.
func WithRandom(r RandomSource) ExponentialOption {
	return func(b *ExponentialBackoff) {
		b.Random = r
	}
}

// NewExponential creates an ExponentialBackoff from the defaults and opts.
// It returns an error wrapping ErrInvalidConfig when the result fails Validate.
func NewExponential(opts ...ExponentialOption) (*ExponentialBackoff, error) {
	b := DefaultExponential()
	for _, opt := range opts {
		opt(b)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	b.Reset()
	return b, nil
}

// DefaultExponential returns a policy with the default configuration.
func DefaultExponential() *ExponentialBackoff {
	b := &ExponentialBackoff{
		InitialInterval:     DefaultInitialInterval,
		RandomizationFactor: DefaultRandomizationFactor,
		Multiplier:          DefaultMultiplier,
		MaxInterval:         DefaultMaxInterval,
		MaxElapsedTime:      DefaultMaxElapsedTime,
		Clock:               SystemClock{},
		Random:              globalRandom{},
	}
	b.Reset()
	return b
}

// Validate reports whether the configuration can drive a retry sequence.
func (b *ExponentialBackoff) Validate() error {
	switch {
	case b.InitialInterval <= 0:
		return fmt.Errorf("%w: initial interval must be positive, got %v", ErrInvalidConfig, b.InitialInterval)
	case math.IsNaN(b.RandomizationFactor) || b.RandomizationFactor < 0 || b.RandomizationFactor > 1:
		return fmt.Errorf("%w: randomization factor must be in [0, 1], got %v", ErrInvalidConfig, b.RandomizationFactor)
	case math.IsNaN(b.Multiplier) || b.Multiplier < 1:
		return fmt.Errorf("%w: multiplier must be >= 1, got %v", ErrInvalidConfig, b.Multiplier)
	case b.MaxInterval < b.InitialInterval:
		return fmt.Errorf("%w: max interval %v is below initial interval %v", ErrInvalidConfig, b.MaxInterval, b.InitialInterval)
	case b.MaxElapsedTime < 0:
		return fmt.Errorf("%w: max elapsed time must not be negative, got %v", ErrInvalidConfig, b.MaxElapsedTime)
	}
	return nil
}

// Reset implements Backoff.
func (b *ExponentialBackoff) Reset() {
	b.currentInterval = b.InitialInterval
	b.startTime = time.Time{}
	b.started = false
	b.stopped = false
}

// CurrentInterval returns the pre-jitter interval the next call will use.
func (b *ExponentialBackoff) CurrentInterval() time.Duration {
	if !b.started && b.currentInterval == 0 {
		return b.InitialInterval
	}
	return b.currentInterval
}

// Elapsed returns the time since the first NextBackOff call of the current
// sequence, or 0 before it.
func (b *ExponentialBackoff) Elapsed() time.Duration {
	if !b.started {
		return 0
	}
	return b.clock().Now().Sub(b.startTime)
}

// NextBackOff implements Backoff.
func (b *ExponentialBackoff) NextBackOff() (time.Duration, bool) {
	if b.stopped {
		return 0, false
	}

	now := b.clock().Now()
	if !b.started {
		if b.currentInterval == 0 {
			b.currentInterval = b.InitialInterval
		}
		b.startTime = now
		b.started = true
	}

	if b.MaxElapsedTime > 0 && now.Sub(b.startTime) > b.MaxElapsedTime {
		b.stopped = true
		return 0, false
	}

	d := randomize(b.RandomizationFactor, b.random().Float64(), b.currentInterval)
	b.currentInterval = b.grow()
	return d, true
}

func (b *ExponentialBackoff) grow() time.Duration {
	cur := float64(b.currentInterval)
	limit := float64(b.MaxInterval)
	// dividing first keeps the product from overflowing
	if cur >= limit/b.Multiplier {
		return b.MaxInterval
	}
	return time.Duration(cur * b.Multiplier)
}

func (b *ExponentialBackoff) clock() Clock {
	if b.Clock == nil {
		return SystemClock{}
	}
	return b.Clock
}

func (b *ExponentialBackoff) random() RandomSource {
	if b.Random == nil {
		return globalRandom{}
	}
	return b.Random
}

// randomize picks a value from [interval-delta, interval+delta] where
// delta = factor*interval. The +1 gives the upper bound the same weight as
// every other integral nanosecond in the range.
func randomize(factor, random float64, interval time.Duration) time.Duration {
	if factor == 0 {
		return interval
	}
	cur := float64(interval)
	delta := factor * cur
	lo := cur - delta
	hi := cur + delta
	n := lo + random*(hi-lo+1)
	if n >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(n)
}

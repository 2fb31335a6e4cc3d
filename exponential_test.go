package backoff_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/backoff"
)

// fixedRandom always draws the same value.
type fixedRandom float64

func (r fixedRandom) Float64() float64 { return float64(r) }

func mustExponential(t *testing.T, opts ...backoff.ExponentialOption) *backoff.ExponentialBackoff {
	t.Helper()
	b, err := backoff.NewExponential(opts...)
	require.NoError(t, err)
	return b
}

func TestNewExponential_defaults(t *testing.T) {
	b := mustExponential(t)

	assert.Equal(t, backoff.DefaultInitialInterval, b.InitialInterval)
	assert.Equal(t, backoff.DefaultRandomizationFactor, b.RandomizationFactor)
	assert.Equal(t, backoff.DefaultMultiplier, b.Multiplier)
	assert.Equal(t, backoff.DefaultMaxInterval, b.MaxInterval)
	assert.Equal(t, backoff.DefaultMaxElapsedTime, b.MaxElapsedTime)
	assert.Equal(t, backoff.DefaultInitialInterval, b.CurrentInterval())
	assert.Zero(t, b.Elapsed())
}

func TestNewExponential_invalid(t *testing.T) {
	cases := []struct {
		name string
		opt  backoff.ExponentialOption
	}{
		{"zero initial interval", backoff.WithInitialInterval(0)},
		{"negative initial interval", backoff.WithInitialInterval(-time.Second)},
		{"negative randomization factor", backoff.WithRandomizationFactor(-0.1)},
		{"randomization factor above one", backoff.WithRandomizationFactor(1.1)},
		{"NaN randomization factor", backoff.WithRandomizationFactor(math.NaN())},
		{"multiplier below one", backoff.WithMultiplier(0.5)},
		{"max interval below initial", backoff.WithMaxInterval(time.Millisecond)},
		{"negative max elapsed time", backoff.WithMaxElapsedTime(-time.Second)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := backoff.NewExponential(tc.opt)
			require.ErrorIs(t, err, backoff.ErrInvalidConfig)
			require.Nil(t, b)
		})
	}
}

func TestExponential_deterministicSequence(t *testing.T) {
	b := mustExponential(t,
		backoff.WithInitialInterval(100*time.Millisecond),
		backoff.WithMultiplier(2),
		backoff.WithRandomizationFactor(0),
		backoff.WithMaxInterval(time.Second),
		backoff.WithMaxElapsedTime(0),
	)

	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		time.Second,
		time.Second,
		time.Second,
	}
	for i, w := range want {
		d, ok := b.NextBackOff()
		require.True(t, ok)
		assert.Equal(t, w, d, "call %d", i+1)
	}
}

func TestExponential_currentIntervalGrowth(t *testing.T) {
	b := mustExponential(t,
		backoff.WithInitialInterval(500*time.Millisecond),
		backoff.WithRandomizationFactor(0.1),
		backoff.WithMultiplier(2),
		backoff.WithMaxInterval(5*time.Second),
		backoff.WithMaxElapsedTime(16*time.Minute),
	)

	wantMillis := []int{500, 1000, 2000, 4000, 5000, 5000, 5000, 5000, 5000, 5000}
	for _, ms := range wantMillis {
		assert.Equal(t, time.Duration(ms)*time.Millisecond, b.CurrentInterval())
		_, ok := b.NextBackOff()
		require.True(t, ok)
	}
}

func TestExponential_constantInterval(t *testing.T) {
	b := mustExponential(t,
		backoff.WithInitialInterval(250*time.Millisecond),
		backoff.WithMultiplier(1),
		backoff.WithRandomizationFactor(0),
		backoff.WithMaxElapsedTime(0),
	)

	for range 10 {
		d, ok := b.NextBackOff()
		require.True(t, ok)
		require.Equal(t, 250*time.Millisecond, d)
	}
}

func TestExponential_jitterBounds(t *testing.T) {
	for _, factor := range []float64{0.25, 0.5, 1} {
		b := mustExponential(t,
			backoff.WithInitialInterval(100*time.Millisecond),
			backoff.WithMultiplier(2),
			backoff.WithRandomizationFactor(factor),
			backoff.WithMaxInterval(800*time.Millisecond),
			backoff.WithMaxElapsedTime(0),
			backoff.WithRandom(backoff.NewRandomSource(7)),
		)

		for range 500 {
			cur := float64(b.CurrentInterval())
			lo := time.Duration(cur * (1 - factor))
			hi := time.Duration(cur * (1 + factor))

			d, ok := b.NextBackOff()
			require.True(t, ok)
			require.GreaterOrEqual(t, d, lo, "factor %v", factor)
			require.LessOrEqual(t, d, hi, "factor %v", factor)
		}
	}
}

func TestExponential_randomizedValue(t *testing.T) {
	// interval 2ns with factor 0.5 spans [1ns, 3ns], each a third of the draws
	cases := []struct {
		random float64
		want   time.Duration
	}{
		{0, 1},
		{0.33, 1},
		{0.34, 2},
		{0.66, 2},
		{0.67, 3},
		{0.99, 3},
	}

	for _, tc := range cases {
		b := mustExponential(t,
			backoff.WithInitialInterval(2),
			backoff.WithMaxInterval(2),
			backoff.WithMultiplier(1),
			backoff.WithRandomizationFactor(0.5),
			backoff.WithRandom(fixedRandom(tc.random)),
		)
		d, ok := b.NextBackOff()
		require.True(t, ok)
		assert.Equal(t, tc.want, d, "random %v", tc.random)
	}
}

func TestExponential_maxElapsedTime(t *testing.T) {
	clock := newFakeClock()
	b := mustExponential(t,
		backoff.WithInitialInterval(time.Second),
		backoff.WithMultiplier(1),
		backoff.WithRandomizationFactor(0),
		backoff.WithMaxElapsedTime(5*time.Second),
		backoff.WithClock(clock),
	)

	// time before the first call does not count
	clock.Advance(time.Hour)

	_, ok := b.NextBackOff()
	require.True(t, ok)

	clock.Advance(5 * time.Second)
	_, ok = b.NextBackOff()
	require.True(t, ok, "elapsed equal to the budget is still allowed")
	assert.Equal(t, 5*time.Second, b.Elapsed())

	clock.Advance(time.Nanosecond)
	_, ok = b.NextBackOff()
	require.False(t, ok)

	t.Run("stop is sticky", func(t *testing.T) {
		_, ok := b.NextBackOff()
		require.False(t, ok)
	})

	t.Run("reset clears the budget", func(t *testing.T) {
		b.Reset()
		assert.Zero(t, b.Elapsed())
		d, ok := b.NextBackOff()
		require.True(t, ok)
		require.Equal(t, time.Second, d)
	})
}

func TestExponential_unboundedNeverStops(t *testing.T) {
	clock := newFakeClock()
	b := mustExponential(t,
		backoff.WithInitialInterval(time.Second),
		backoff.WithMaxInterval(time.Minute),
		backoff.WithMaxElapsedTime(0),
		backoff.WithClock(clock),
	)

	for range 1000 {
		_, ok := b.NextBackOff()
		require.True(t, ok)
		clock.Advance(24 * time.Hour)
	}
}

func TestExponential_resetReproducesSequence(t *testing.T) {
	opts := []backoff.ExponentialOption{
		backoff.WithInitialInterval(50 * time.Millisecond),
		backoff.WithMultiplier(1.5),
		backoff.WithRandomizationFactor(0.5),
		backoff.WithMaxInterval(time.Second),
	}
	draw := func(b *backoff.ExponentialBackoff) []time.Duration {
		var out []time.Duration
		for range 8 {
			d, ok := b.NextBackOff()
			require.True(t, ok)
			out = append(out, d)
		}
		return out
	}

	fresh := mustExponential(t, append(opts, backoff.WithRandom(backoff.NewRandomSource(42)))...)
	want := draw(fresh)

	reused := mustExponential(t, append(opts, backoff.WithRandom(backoff.NewRandomSource(42)))...)
	draw(reused)
	reused.Reset()
	reused.Random = backoff.NewRandomSource(42)

	assert.Equal(t, want, draw(reused))
}

func TestExponential_overflow(t *testing.T) {
	b := mustExponential(t,
		backoff.WithInitialInterval(time.Hour),
		backoff.WithMultiplier(1e10),
		backoff.WithRandomizationFactor(0),
		backoff.WithMaxInterval(time.Duration(math.MaxInt64)),
		backoff.WithMaxElapsedTime(0),
	)

	for range 5 {
		d, ok := b.NextBackOff()
		require.True(t, ok)
		require.Positive(t, d)
	}
	assert.Equal(t, time.Duration(math.MaxInt64), b.CurrentInterval())
}

func TestExponential_literal(t *testing.T) {
	b := &backoff.ExponentialBackoff{
		InitialInterval: 10 * time.Millisecond,
		Multiplier:      3,
		MaxInterval:     time.Second,
	}

	want := []time.Duration{10 * time.Millisecond, 30 * time.Millisecond, 90 * time.Millisecond}
	for _, w := range want {
		d, ok := b.NextBackOff()
		require.True(t, ok)
		require.Equal(t, w, d)
	}
}

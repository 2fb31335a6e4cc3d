package backoff

import "math/rand/v2"

// RandomSource draws jitter. Float64 returns a value in [0.0, 1.0).
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Float64() float64
}

// globalRandom uses the runtime-seeded generator of math/rand/v2,
// which is safe for concurrent use.
type globalRandom struct{}

func (globalRandom) Float64() float64 {
	return rand.Float64()
}

// NewRandomSource returns a deterministic source seeded with seed.
// Two sources built from the same seed produce the same sequence.
// The result is not safe for concurrent use.
func NewRandomSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed))
}

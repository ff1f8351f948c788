package bmsast

import "math/rand/v2"

// DefaultRandomSource wraps math/rand/v2, the stdlib's current generator
// family, behind the RandomSource seam. Grounded on original_source's
// rng.rs, whose Rng trait is likewise a thin indirection over an injected
// generator rather than a library dependency; spec.md §4.2 requires the
// evaluator to accept an injected source rather than own one, so the
// default implementation stays deliberately minimal.
type DefaultRandomSource struct {
	rng *rand.Rand
}

// NewDefaultRandomSource seeds rand/v2's PCG generator from two uint64
// seed halves.
func NewDefaultRandomSource(seed1, seed2 uint64) *DefaultRandomSource {
	return &DefaultRandomSource{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

func (d *DefaultRandomSource) Generate(min, max int64) int64 {
	if max <= min {
		return min
	}
	return min + d.rng.Int64N(max-min+1)
}

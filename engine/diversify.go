package engine

import (
	"math"
	"math/rand"
)

// Diversify reshuffles the low-confidence tail of a ranked list so a user
// does not see the exact same ordering on every refresh while the clearly
// better matches stay on top. The head of size max(1, ⌊n·(1−factor)⌋) keeps
// its scored order; the rest is shuffled with the injected rng, which makes
// the behavior reproducible under test.
//
// randomFactor outside [0, 1] is clamped rather than rejected.
func Diversify[T any](ranked []T, randomFactor float64, rng *rand.Rand) []T {
	if len(ranked) == 0 {
		return []T{}
	}

	factor := randomFactor
	if factor < 0 {
		factor = 0
	} else if factor > 1 {
		factor = 1
	}

	head := int(math.Floor(float64(len(ranked)) * (1 - factor)))
	if head < 1 {
		head = 1
	}

	out := make([]T, len(ranked))
	copy(out, ranked)
	tail := out[head:]
	rng.Shuffle(len(tail), func(i, j int) {
		tail[i], tail[j] = tail[j], tail[i]
	})
	return out
}

package dataset

import (
	"math"
	"math/rand"
)

// Split shuffles paths with a seeded PRNG and moves the first
// round(len*validFraction) of them into the validation set. A zero fraction
// returns paths untouched as the training set.
func Split(paths []string, validFraction float64, seed int64) (train, valid []string) {
	if validFraction <= 0 || len(paths) == 0 {
		return append([]string(nil), paths...), nil
	}
	shuffled := append([]string(nil), paths...)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	n := int(math.Round(float64(len(shuffled)) * validFraction))
	if n >= len(shuffled) {
		n = len(shuffled) - 1
	}
	return shuffled[n:], shuffled[:n]
}

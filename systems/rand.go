package systems

import (
	"math/rand"
	"time"
)

// Rand is the random source used for placement and force jitter.
// Float64 must return values in [0, 1). *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// NewRand returns a seeded generator. A zero seed picks a time-based one.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

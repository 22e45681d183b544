// Package randutil derives reproducible math/rand/v2 sources for decks and bots.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed. Both PCG
// words are derived from the one value so that a room or bot can be replayed
// from the seed it logs.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(splitmix(u), splitmix(u+goldenRatio64)))
}

// Resolve returns a source for the given seed, or for a time-derived seed
// when none is set. The seed used is returned so it can be logged.
func Resolve(seed *int64) (*rand.Rand, int64) {
	s := time.Now().UnixNano()
	if seed != nil {
		s = *seed
	}
	return New(s), s
}

// Derive returns a child source from parent, used to give every room its own
// stream while keeping the server reproducible from a single seed.
func Derive(parent *rand.Rand) *rand.Rand {
	return New(parent.Int64())
}

func splitmix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

package rng

import (
	"math/rand/v2"
)

// Generator provides a simple random number
type Generator interface {
	// Intn will return a random number up to but not including n
	Intn(n int) int
}

// Seeded returns a deterministic Generator keyed by a 32 byte seed
// Shorter seeds are zero padded and longer seeds are truncated. The same seed always
// produces the same sequence.
func Seeded(seed []byte) Generator {
	var key [32]byte
	copy(key[:], seed)

	return seeded{r: rand.New(rand.NewChaCha8(key))} // nolint:gosec
}

type seeded struct {
	r *rand.Rand
}

// Intn will return a random number up to but not including n
func (s seeded) Intn(n int) int {
	return s.r.IntN(n)
}

package randomutil

import (
	"math/rand"
)

// RandomGenerator draws integers in [0, n). Implementations must be safe for concurrent use.
type RandomGenerator interface {
	Intn(n int) int
}

// RandomNumberGenerator uses the process-wide math/rand source, which is seeded at startup
// and safe for concurrent use.
type RandomNumberGenerator struct{}

func (RandomNumberGenerator) Intn(n int) int {
	return rand.Intn(n)
}

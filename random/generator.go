// Package random holds the bounded random number generator: a single mutable maximum and
// draws from [0, maximum).
package random

import (
	"math"
	"sync"

	"github.com/week8/rpnserver/errortypes"
	"github.com/week8/rpnserver/logger"
	"github.com/week8/rpnserver/util/randomutil"
)

// DefaultMaximum is the bound a Generator starts with unless configured otherwise.
const DefaultMaximum = 10

// Generator draws random integers below a mutable, strictly positive bound.
type Generator struct {
	mu      sync.Mutex
	maximum int
	source  randomutil.RandomGenerator
}

// NewGenerator returns a Generator bounded by maximum. A nil source falls back to math/rand.
func NewGenerator(maximum int, source randomutil.RandomGenerator) *Generator {
	if source == nil {
		source = randomutil.RandomNumberGenerator{}
	}
	return &Generator{
		maximum: maximum,
		source:  source,
	}
}

// Maximum returns the current bound.
func (g *Generator) Maximum() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.maximum
}

// SetMaximum replaces the bound. The candidate must be a whole number greater than zero
// that fits in an int; anything else returns a BadInput error and keeps the old bound.
func (g *Generator) SetMaximum(candidate float64) (int, error) {
	if !isPositiveInt(candidate) {
		return 0, &errortypes.BadInput{Message: "invalid maximum value"}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.maximum = int(candidate)
	logger.Infof("setting maximum to %d", g.maximum)
	return g.maximum, nil
}

// Draw returns a uniformly distributed integer in [0, maximum).
func (g *Generator) Draw() (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.maximum <= 0 {
		return 0, &errortypes.PreconditionFailed{Message: "maximum not set"}
	}

	r := g.source.Intn(g.maximum)
	logger.Infof("sending random: %d", r)
	return r, nil
}

func isPositiveInt(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return false
	}
	return v > 0 && v < math.MaxInt
}

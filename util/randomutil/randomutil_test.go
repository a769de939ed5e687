package randomutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomNumberGeneratorStaysInRange(t *testing.T) {
	var generator RandomGenerator = RandomNumberGenerator{}

	for i := 0; i < 1000; i++ {
		n := generator.Intn(7)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 7)
	}
}

package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeededIsReproducible(t *testing.T) {
	a, b := NewSeeded(7), NewSeeded(7)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.Intn(50), b.Intn(50))
	}
}

func TestSequenceCycles(t *testing.T) {
	s := NewSequence(0.1, 0.9)
	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 0.9, s.Float64())
	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 3, s.Draws())
	assert.Equal(t, 9, s.Intn(10))
	assert.Equal(t, 0.0, s.NormFloat64())
}

func TestShuffleKeepsElements(t *testing.T) {
	xs := []int{1, 2, 3, 4, 5}
	Shuffle(NewSeeded(1), len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5}, xs)
}

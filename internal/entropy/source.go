// Package entropy provides the single random source every stochastic
// decision in the simulation draws from. A career runs on a seeded source so
// a day can be replayed; tests script exact sequences.
package entropy

import mrand "math/rand"

// Source is the injectable random number source.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n). n must be > 0.
	Intn(n int) int
	// NormFloat64 returns a standard normal sample.
	NormFloat64() float64
}

// Seeded wraps math/rand with a fixed seed.
type Seeded struct {
	rng *mrand.Rand
}

// NewSeeded creates a reproducible source.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: mrand.New(mrand.NewSource(seed))}
}

func (s *Seeded) Float64() float64     { return s.rng.Float64() }
func (s *Seeded) Intn(n int) int       { return s.rng.Intn(n) }
func (s *Seeded) NormFloat64() float64 { return s.rng.NormFloat64() }

// Shuffle permutes n elements in place using src (Fisher-Yates).
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		swap(i, j)
	}
}

// Chance reports whether an event with probability p happens.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	return src.Float64() < p
}

// Between returns a uniform float in [lo, hi).
func Between(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Package rng abstracts the engine's source of randomness so tests can
// substitute deterministic sequences.
package rng

import (
	"math/rand"
	"time"
)

// Source supplies the random draws used by the simulation. Implementations
// are not required to be safe for concurrent use; the engine performs all
// draws from the tick goroutine.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n). Panics if n <= 0.
	IntN(n int) int
	// Range returns a value in [lo, hi).
	Range(lo, hi float64) float64
}

type mathSource struct {
	r *rand.Rand
}

// New returns a Source seeded with the given value.
func New(seed int64) Source {
	return &mathSource{r: rand.New(rand.NewSource(seed))}
}

// Default returns a time-seeded Source.
func Default() Source {
	return New(time.Now().UnixNano())
}

func (s *mathSource) Float64() float64 { return s.r.Float64() }

func (s *mathSource) IntN(n int) int { return s.r.Intn(n) }

func (s *mathSource) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*s.r.Float64()
}

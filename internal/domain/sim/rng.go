package sim

import (
	"math/rand/v2"
)

// pcgStream is the fixed second PCG word; the seed picks the sequence.
const pcgStream = 0x9e3779b97f4a7c15

// Source is the randomness handle threaded through the engine.
type Source interface {
	Float64() float64 // [0, 1)
}

type ambientSource struct{}

func (ambientSource) Float64() float64 { return rand.Float64() }

// DefaultSource draws from the process-wide generator.
func DefaultSource() Source { return ambientSource{} }

// Reproducible source for replay and tests. Not safe for concurrent use.
type seededSource struct{ r *rand.Rand }

// NewSeededSource returns a deterministic PCG-backed Source.
func NewSeededSource(seed uint64) Source {
	return &seededSource{r: rand.New(rand.NewPCG(seed, pcgStream))}
}

func (s *seededSource) Float64() float64 { return s.r.Float64() }

// uniform draws from [lo, hi).
func uniform(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}

// chance reports true with probability p.
func chance(src Source, p float64) bool {
	return src.Float64() < p
}

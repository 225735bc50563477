package sim

import "math/rand/v2"

// RandomSource yields uniform floats in [0, 1) for frame jitter.
type RandomSource interface {
	Float64() float64
}

// globalSource draws from math/rand/v2's auto-seeded generator; runs using
// it cannot be replayed.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// NewSeededRNG returns a PCG source, so one seed always replays the same
// frame lengths.
func NewSeededRNG(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, 0))
}

// sourceFor picks the seeded source unless seed is 0.
func sourceFor(seed uint64) RandomSource {
	if seed == 0 {
		return globalSource{}
	}
	return NewSeededRNG(seed)
}

// frameLength scales nominal seconds by a uniform factor in
// [1-jitter, 1+jitter].
func frameLength(src RandomSource, nominal, jitter float64) float64 {
	return nominal * (1 + jitter*(2*src.Float64()-1))
}

// Package rng wraps math/rand/v2 behind the small surface the simulation
// core actually needs: uniform draws for event and reaction selection,
// exponential draws for unimolecular lifetimes, and Gaussian draws for
// diffusion displacement. Centralizing it here means a run seeded with the
// same value reproduces bit-identical molecule trajectories regardless of
// which package consumes randomness.
package rng

import "math/rand/v2"

// Source is a seeded random source for one simulation run.
type Source struct {
	r *rand.Rand
}

// New returns a Source seeded deterministically from seed. Two Sources
// created with the same seed draw the same sequence.
func New(seed uint64) *Source {
	return &Source{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Float64 returns a uniform draw in [0, 1).
func (s *Source) Float64() float64 {
	return s.r.Float64()
}

// IntN returns a uniform draw in [0, n).
func (s *Source) IntN(n int) int {
	return s.r.IntN(n)
}

// NormalFloat64 returns a standard-normal draw (mean 0, variance 1).
func (s *Source) NormalFloat64() float64 {
	return s.r.NormFloat64()
}

// Exponential returns a draw from the exponential distribution with rate
// lambda (mean 1/lambda), used for unimolecular reaction lifetimes.
// lambda must be > 0.
func (s *Source) Exponential(lambda float64) float64 {
	return s.r.ExpFloat64() / lambda
}

// Gaussian3 returns three independent standard-normal draws scaled by
// sigma, the per-axis displacement used by the diffusion step.
func (s *Source) Gaussian3(sigma float64) (x, y, z float64) {
	return s.r.NormFloat64() * sigma, s.r.NormFloat64() * sigma, s.r.NormFloat64() * sigma
}

// Pick returns an index into a weighted list of n non-negative weights
// summing to total, selected proportionally to weight. Reaction pathway
// selection does not go through Pick; reaction.Class.Select does its own
// walk. It panics if total <= 0.
func (s *Source) Pick(weights []float64, total float64) int {
	if total <= 0 {
		panic("rng: Pick called with non-positive total weight")
	}
	draw := s.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if draw < acc {
			return i
		}
	}
	return len(weights) - 1
}

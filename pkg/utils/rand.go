package utils

import (
	"math/rand"
	"time"
)

// RandSource is a seeded pseudo-random generator handle. All perturbation
// randomness in the search engine flows through an explicitly injected
// RandSource, so a fixed seed replays a search deterministically. A zero
// seed draws a fresh one from the clock.
type RandSource struct {
	rng *rand.Rand
}

// NewRandSource creates a new random source with the given seed.
func NewRandSource(seed int64) *RandSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandSource{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Float64 returns a random float64 in [0.0, 1.0).
func (r *RandSource) Float64() float64 {
	return r.rng.Float64()
}

// Int63 returns a non-negative random int64, usable as a derived seed.
func (r *RandSource) Int63() int64 {
	return r.rng.Int63()
}

// NormFloat64 returns a normally distributed random number with the given
// mean and standard deviation.
func (r *RandSource) NormFloat64(mean, stddev float64) float64 {
	return r.rng.NormFloat64()*stddev + mean
}

// UniformFloat64 returns a uniformly distributed random number in
// [min, max).
func (r *RandSource) UniformFloat64(min, max float64) float64 {
	return min + r.rng.Float64()*(max-min)
}

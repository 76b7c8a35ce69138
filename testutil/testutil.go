package testutil

import (
	"math"
	"math/rand/v2"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewPCG(seed, seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewPCG(r.seed, r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// IntN returns a non-negative pseudo-random number in [0,n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// NormFloat64 returns a standard normal pseudo-random number.
func (r *RNG) NormFloat64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.NormFloat64()
}

// Perm returns a pseudo-random permutation of [0,n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// UniformColumn generates n values uniformly distributed in [lo, hi).
// Locks only once per call (preferred over calling Float64 in a loop).
func (r *RNG) UniformColumn(n int, lo, hi float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := hi - lo
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + r.rand.Float64()*span
	}

	return out
}

// GaussianColumn generates n values from a normal distribution with the
// given mean and standard deviation.
func (r *RNG) GaussianColumn(n int, mean, sd float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]float64, n)
	for i := range out {
		out[i] = mean + r.rand.NormFloat64()*sd
	}

	return out
}

// CorrelatedPair generates two standard normal columns of length n with the
// given correlation coefficient. Useful for testing conditional imputation,
// which only has signal when predictors actually carry information.
func (r *RNG) CorrelatedPair(n int, corr float64) (x, y []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	x = make([]float64, n)
	y = make([]float64, n)
	residual := math.Sqrt(1 - corr*corr)

	for i := range x {
		x[i] = r.rand.NormFloat64()
		y[i] = corr*x[i] + residual*r.rand.NormFloat64()
	}

	return x, y
}

// LinearColumn generates y = intercept + slope*x + noise for each x,
// with Gaussian noise of the given standard deviation.
func (r *RNG) LinearColumn(x []float64, intercept, slope, noiseSD float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = intercept + slope*v + r.rand.NormFloat64()*noiseSD
	}

	return out
}

// PunchHoles returns a copy of values with each entry independently set to
// NaN with probability rate, plus the hole positions. The holes are missing
// completely at random, so strategy tests can compare imputed values against
// the originals without conditioning effects.
func (r *RNG) PunchHoles(values []float64, rate float64) ([]float64, []bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]float64, len(values))
	holes := make([]bool, len(values))
	copy(out, values)

	for i := range out {
		if r.rand.Float64() < rate {
			out[i] = math.NaN()
			holes[i] = true
		}
	}

	return out, holes
}

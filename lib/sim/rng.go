package sim

import (
	"math"
)

var (
	xorshiftMaxUint = float64(math.MaxUint32)
)

// RNG is an xorshift random number generator. It is not thread safe; each
// chunk of particles gets its own.
type RNG struct {
	w, x, y, z uint32
}

// NewRNG creates an RNG. Seeds that differ in either half give different
// streams.
func NewRNG(seed uint64) *RNG {
	gen := &RNG{ uint32(seed) ^ uint32(seed >> 32), 123456789, 362436069,
		521288629 }
	// The first few outputs are strongly correlated with the seed.
	for i := 0; i < 16; i++ { gen.next() }
	return gen
}

func (gen *RNG) next() uint32 {
	t := gen.x ^ (gen.x << 11)
	gen.x, gen.y, gen.z = gen.y, gen.z, gen.w
	gen.w = gen.w ^ (gen.w >> 19) ^ (t ^ (t >> 8))
	return gen.w
}

// Uniform generates a single random number in the range [0, 1).
func (gen *RNG) Uniform() float64 {
	for {
		res := float64(math.MaxUint32 - gen.next()) / xorshiftMaxUint
		if res != 1.0 { return res }
	}
}

// UniformSequence fills target with random numbers in the range [0, 1).
func (gen *RNG) UniformSequence(target []float64) {
	for i := range target {
		target[i] = gen.Uniform()
	}
}

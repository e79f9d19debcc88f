// Package rng provides the deterministic generator used by the sampling
// service. Two generators with the same seed produce identical sequences;
// the stream is reproducible, not cryptographic.
package rng

const (
	multiplier = 9301
	increment  = 49297
	modulus    = 233280
)

// Source is a linear-congruential generator over a 32-bit seed
type Source struct {
	state uint32
}

// New creates a generator from an integer seed
func New(seed int32) *Source {
	return &Source{state: uint32(seed) % modulus}
}

// Float64 returns the next value, uniformly distributed in [0, 1)
func (s *Source) Float64() float64 {
	s.state = (s.state*multiplier + increment) % modulus
	return float64(s.state) / modulus
}

// Seq returns the next n values
func (s *Source) Seq(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = s.Float64()
	}
	return out
}

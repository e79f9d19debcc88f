package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat64Deterministic(t *testing.T) {
	a := New(42)
	b := New(42)

	for i := 0; i < 1000; i++ {
		require.Equal(t, a.Float64(), b.Float64(), "draw %d diverged", i)
	}
}

func TestFloat64Range(t *testing.T) {
	src := New(7)
	for i := 0; i < 10000; i++ {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestSeedsDiverge(t *testing.T) {
	a := New(1).Seq(10)
	b := New(2).Seq(10)
	assert.NotEqual(t, a, b)
}

func TestSeqMatchesRepeatedDraws(t *testing.T) {
	a := New(99)
	b := New(99)

	seq := a.Seq(25)
	for i, v := range seq {
		assert.Equal(t, b.Float64(), v, "position %d", i)
	}
}

func TestKnownSequence(t *testing.T) {
	// First draw from seed 42: state = (42*9301 + 49297) mod 233280
	src := New(42)
	assert.InDelta(t, float64((42*9301+49297)%233280)/233280, src.Float64(), 1e-15)
}

package jitter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration_WithinBounds(t *testing.T) {
	base := time.Second

	for i := 0; i < 100; i++ {
		d := Duration(base, DefaultJitter)
		assert.GreaterOrEqual(t, d, base)
		assert.LessOrEqual(t, d, base+base/2)
	}
}

func TestDuration_ZeroJitter(t *testing.T) {
	assert.Equal(t, time.Second, Duration(time.Second, 0))
}

func TestExponentialBackoff_Doubles(t *testing.T) {
	assert.Equal(t, 1*time.Second, ExponentialBackoff(time.Second, time.Minute, 0, 0))
	assert.Equal(t, 2*time.Second, ExponentialBackoff(time.Second, time.Minute, 1, 0))
	assert.Equal(t, 8*time.Second, ExponentialBackoff(time.Second, time.Minute, 3, 0))
}

func TestExponentialBackoff_CapsAtMax(t *testing.T) {
	assert.Equal(t, 30*time.Second, ExponentialBackoff(time.Second, 30*time.Second, 10, 0))
}

package easing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestLinear verifies the identity curve.
func TestLinear(t *testing.T) {
	assert.Equal(t, 0.0, Linear(0))
	assert.Equal(t, 0.25, Linear(0.25))
	assert.Equal(t, 1.0, Linear(1))
}

// TestSmooth verifies endpoints and midpoint of smoothstep.
func TestSmooth(t *testing.T) {
	assert.Equal(t, 0.0, Smooth(0))
	assert.Equal(t, 1.0, Smooth(1))
	assert.InDelta(t, 0.5, Smooth(0.5), 1e-9)

	// Slow start: eased progress lags raw progress in the first half.
	assert.Less(t, Smooth(0.25), 0.25)
	assert.Greater(t, Smooth(0.75), 0.75)
}

// TestEaseOut verifies endpoints and the fast-start shape.
func TestEaseOut(t *testing.T) {
	assert.Equal(t, 0.0, EaseOut(0))
	assert.Equal(t, 1.0, EaseOut(1))
	assert.InDelta(t, 0.75, EaseOut(0.5), 1e-9)

	// Fast start: eased progress leads raw progress everywhere inside (0,1).
	assert.Greater(t, EaseOut(0.25), 0.25)
}

// TestClampsOutOfRangeInput verifies out-of-range t is clamped, not extrapolated.
func TestClampsOutOfRangeInput(t *testing.T) {
	for _, fn := range []Func{Linear, Smooth, EaseOut} {
		assert.Equal(t, 0.0, fn(-1))
		assert.Equal(t, 1.0, fn(2))
	}
}

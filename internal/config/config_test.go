package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults verifies documented defaults with a clean environment.
func TestLoad_Defaults(t *testing.T) {
	o, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 2.0, o.ZoomValue)
	assert.Equal(t, 0.25, o.FollowSpeed)
	assert.Equal(t, 16, o.TickIntervalMs)
	assert.Equal(t, 8, o.PointerCacheMs)
	assert.Equal(t, 3, o.PointerDeadzone)
	assert.Equal(t, 2, o.CropThreshold)
	assert.Equal(t, 5, o.CropEdgeLimit)
	assert.Equal(t, 300, o.ZoomInMs)
	assert.Equal(t, 500, o.ZoomOutMs)
	assert.Equal(t, 1920, o.FallbackWidth)
	assert.False(t, o.Debug)
}

// TestLoad_EnvOverride verifies a ZOOMFOLLOW_* variable wins over defaults.
func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ZOOMFOLLOW_ZOOM_VALUE", "3.5")
	t.Setenv("ZOOMFOLLOW_TICK_INTERVAL_MS", "32")

	o, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 3.5, o.ZoomValue)
	assert.Equal(t, 32, o.TickIntervalMs)
}

// TestNormalize_ClampsOutOfRange verifies out-of-range values are clamped
// into the documented ranges rather than rejected.
func TestNormalize_ClampsOutOfRange(t *testing.T) {
	o := Options{
		ZoomValue:         10,
		ZoomSpeed:         0,
		FollowSpeed:       2,
		TickIntervalMs:    1,
		PointerCacheMs:    100,
		PointerDeadzone:   0,
		CropThreshold:     50,
		CropEdgeLimit:     50,
		ZoomInMs:          5,
		ZoomOutMs:         9999,
		SceneTransitionMs: 0,
	}

	o.Normalize()

	assert.Equal(t, 5.0, o.ZoomValue)
	assert.Equal(t, 0.01, o.ZoomSpeed)
	assert.Equal(t, 1.0, o.FollowSpeed)
	assert.Equal(t, 8, o.TickIntervalMs)
	assert.Equal(t, 32, o.PointerCacheMs)
	assert.Equal(t, 1, o.PointerDeadzone)
	assert.Equal(t, 10, o.CropThreshold)
	assert.Equal(t, 20, o.CropEdgeLimit)
	assert.Equal(t, 100, o.ZoomInMs)
	assert.Equal(t, 1000, o.ZoomOutMs)
	assert.Equal(t, 100, o.SceneTransitionMs)
	assert.Equal(t, 1920, o.FallbackWidth)
	assert.Equal(t, 1080, o.FallbackHeight)
}

// TestDurations verifies the millisecond-to-duration helpers.
func TestDurations(t *testing.T) {
	o := Options{TickIntervalMs: 16, PointerCacheMs: 8}

	assert.Equal(t, int64(16), o.TickInterval().Milliseconds())
	assert.Equal(t, int64(8), o.PointerCache().Milliseconds())
}

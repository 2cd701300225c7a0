// Package config binds the user-facing option surface from the environment
// and clamps every option into its documented range.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Options is the full recognized option surface. Values outside the
// documented ranges are clamped by Normalize rather than rejected, so a
// half-edited environment still yields a usable session.
type Options struct {
	// Zoom factor 1.1-5.0; zoom and follow speeds 0.01-1.0.
	ZoomValue   float64 `envconfig:"ZOOM_VALUE" default:"2.0"`
	ZoomSpeed   float64 `envconfig:"ZOOM_SPEED" default:"1.0"`
	FollowSpeed float64 `envconfig:"FOLLOW_SPEED" default:"0.25"`

	// Tick interval 8-100 ms; pointer cache 4-32 ms.
	TickIntervalMs int `envconfig:"TICK_INTERVAL_MS" default:"16"`
	PointerCacheMs int `envconfig:"POINTER_CACHE_MS" default:"8"`

	// Deadzone and crop threshold 1-10 px; edge threshold 1-20 px.
	PointerDeadzone int `envconfig:"POINTER_DEADZONE" default:"3"`
	CropThreshold   int `envconfig:"CROP_THRESHOLD" default:"2"`
	CropEdgeLimit   int `envconfig:"CROP_EDGE_THRESHOLD" default:"5"`

	// Ramp durations 100-1000 ms each.
	ZoomInMs          int `envconfig:"ZOOM_IN_MS" default:"300"`
	ZoomOutMs         int `envconfig:"ZOOM_OUT_MS" default:"500"`
	SceneTransitionMs int `envconfig:"SCENE_TRANSITION_MS" default:"300"`

	// Fallback monitor size used when enumeration is unavailable.
	FallbackWidth  int `envconfig:"FALLBACK_WIDTH" default:"1920"`
	FallbackHeight int `envconfig:"FALLBACK_HEIGHT" default:"1080"`

	// Key chords for the two user actions, keys joined with '+'.
	ZoomHotkey   string `envconfig:"ZOOM_HOTKEY" default:"ctrl+alt+z"`
	FollowHotkey string `envconfig:"FOLLOW_HOTKEY" default:"ctrl+alt+f"`

	Debug bool `envconfig:"DEBUG" default:"false"`
}

// Load reads ZOOMFOLLOW_* environment variables and normalizes the result.
func Load() (Options, error) {
	var o Options
	if err := envconfig.Process("zoomfollow", &o); err != nil {
		return Options{}, err
	}
	o.Normalize()
	return o, nil
}

// Normalize clamps every option into its documented range.
func (o *Options) Normalize() {
	o.ZoomValue = clampF(o.ZoomValue, 1.1, 5.0)
	o.ZoomSpeed = clampF(o.ZoomSpeed, 0.01, 1.0)
	o.FollowSpeed = clampF(o.FollowSpeed, 0.01, 1.0)

	o.TickIntervalMs = clampI(o.TickIntervalMs, 8, 100)
	o.PointerCacheMs = clampI(o.PointerCacheMs, 4, 32)
	o.PointerDeadzone = clampI(o.PointerDeadzone, 1, 10)
	o.CropThreshold = clampI(o.CropThreshold, 1, 10)
	o.CropEdgeLimit = clampI(o.CropEdgeLimit, 1, 20)
	o.ZoomInMs = clampI(o.ZoomInMs, 100, 1000)
	o.ZoomOutMs = clampI(o.ZoomOutMs, 100, 1000)
	o.SceneTransitionMs = clampI(o.SceneTransitionMs, 100, 1000)

	if o.FallbackWidth <= 0 {
		o.FallbackWidth = 1920
	}
	if o.FallbackHeight <= 0 {
		o.FallbackHeight = 1080
	}
}

// TickInterval returns the tick interval as a duration.
func (o Options) TickInterval() time.Duration {
	return time.Duration(o.TickIntervalMs) * time.Millisecond
}

// PointerCache returns the pointer cache duration.
func (o Options) PointerCache() time.Duration {
	return time.Duration(o.PointerCacheMs) * time.Millisecond
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

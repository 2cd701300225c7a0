// Package anim provides the single interpolation primitive behind the zoom-in
// ramp, the zoom-out ramp and the scene-transition ramp. Each ramp is an
// independent instantiation with its own duration and easing; the primitive
// itself holds no state.
package anim

import (
	"time"

	"github.com/openkast/zoomfollow/internal/easing"
)

// Advance computes the value of one animation at the given elapsed time.
// progress is min(elapsed/duration, 1); done when progress reaches 1.
// A non-positive duration completes immediately at the target value.
func Advance(start, target float64, elapsed, duration time.Duration, fn easing.Func) (value, progress float64, done bool) {
	if duration <= 0 {
		return target, 1, true
	}
	progress = float64(elapsed) / float64(duration)
	if progress >= 1 {
		progress = 1
	}
	if progress < 0 {
		progress = 0
	}
	value = start + (target-start)*fn(progress)
	return value, progress, progress >= 1
}

// Damp scales the distance a zoom value has travelled from 1.0 by the user's
// zoom speed: 1 + (value-1)*speed. With speed < 1 the zoom intentionally never
// reaches its target within one duration window; the damping rides on top of
// the time-based ease.
func Damp(value, speed float64) float64 {
	return 1 + (value-1)*speed
}

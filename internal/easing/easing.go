// Package easing provides the time-to-progress curves used by the animation
// engine. All curves map t in [0,1] to eased progress in [0,1] and are pure.
package easing

// Func maps raw progress to eased progress.
type Func func(t float64) float64

// Linear returns t unchanged.
func Linear(t float64) float64 {
	return clamp(t)
}

// Smooth is the smoothstep curve t*t*(3-2t), with zero first derivative at
// both ends.
func Smooth(t float64) float64 {
	t = clamp(t)
	return t * t * (3 - 2*t)
}

// EaseOut is 1-(1-t)^2: fast start, slow settle.
func EaseOut(t float64) float64 {
	t = clamp(t)
	u := 1 - t
	return 1 - u*u
}

func clamp(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

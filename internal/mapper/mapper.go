// Package mapper converts pointer positions into crop rectangles.
// Both functions are pure so they can be exercised in isolation.
package mapper

import (
	"github.com/openkast/zoomfollow/internal/domain"
)

// MonitorAt selects the monitor containing the pointer. Falls back to the
// first known monitor, then to the supplied default rectangle - the degraded
// path when the pointer provider fails.
func MonitorAt(monitors []domain.MonitorRect, x, y float64, fallback domain.MonitorRect) domain.MonitorRect {
	for _, m := range monitors {
		if m.Contains(x, y) {
			return m
		}
	}
	if len(monitors) > 0 {
		return monitors[0]
	}
	return fallback
}

// ComputeCrop maps a pointer position on a monitor into the crop margins that
// center a source_w/zoom x source_h/zoom window on the pointer, clamped so the
// window stays fully inside the source.
//
// The mapping is a flat affine scale from monitor space to source space and
// assumes the source fills the monitor at 1:1 aspect (fit-to-canvas). A
// projective mapping handling scaled or repositioned items is a known future
// extension.
func ComputeCrop(p domain.PointSample, m domain.MonitorRect, zoom float64, srcW, srcH int) domain.CropRect {
	monW := m.Width()
	monH := m.Height()
	if monW <= 0 || monH <= 0 || srcW <= 0 || srcH <= 0 || zoom <= 0 {
		return domain.CropRect{}
	}

	scaleX := float64(srcW) / float64(monW)
	scaleY := float64(srcH) / float64(monH)

	// Pointer in source space.
	srcX := (p.X - float64(m.Left)) * scaleX
	srcY := (p.Y - float64(m.Top)) * scaleY

	winW := float64(srcW) / zoom
	winH := float64(srcH) / zoom

	x := clamp(srcX-winW/2, 0, float64(srcW)-winW)
	y := clamp(srcY-winH/2, 0, float64(srcH)-winH)

	return domain.CropRect{
		Left:   x,
		Top:    y,
		Right:  float64(srcW) - (x + winW),
		Bottom: float64(srcH) - (y + winH),
	}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Package domain contains core entities and capability interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import (
	"math"
	"time"
)

// MonitorRect is one display's rectangle in virtual-desktop pixel coordinates.
// Invariant: Right > Left and Bottom > Top for a usable monitor.
type MonitorRect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Width returns the monitor width in pixels.
func (m MonitorRect) Width() int {
	return m.Right - m.Left
}

// Height returns the monitor height in pixels.
func (m MonitorRect) Height() int {
	return m.Bottom - m.Top
}

// Valid reports whether the rectangle has positive area.
func (m MonitorRect) Valid() bool {
	return m.Right > m.Left && m.Bottom > m.Top
}

// Contains reports whether the point lies inside the rectangle.
// The right/bottom edges are exclusive, matching virtual-desktop convention.
func (m MonitorRect) Contains(x, y float64) bool {
	return x >= float64(m.Left) && x < float64(m.Right) &&
		y >= float64(m.Top) && y < float64(m.Bottom)
}

// PointSample is one pointer reading in virtual-desktop coordinates.
// Invariant: At is monotonically non-decreasing across samples from one provider.
type PointSample struct {
	X  float64
	Y  float64
	At time.Time
}

// DistanceTo returns the Euclidean distance to another sample in pixels.
func (p PointSample) DistanceTo(q PointSample) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// CropRect holds the four margins removed from a source's native frame to
// produce the visible window. Margins stay fractional through interpolation;
// Rounded produces the integer values pushed to the host.
// Invariant: all margins >= 0, Left+Right < source width, Top+Bottom < source height.
type CropRect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// Rounded returns the crop with every margin rounded to the nearest pixel.
func (c CropRect) Rounded() CropRect {
	return CropRect{
		Left:   math.Round(c.Left),
		Top:    math.Round(c.Top),
		Right:  math.Round(c.Right),
		Bottom: math.Round(c.Bottom),
	}
}

// MaxDelta returns the largest absolute per-margin difference to another crop.
func (c CropRect) MaxDelta(o CropRect) float64 {
	d := math.Abs(c.Left - o.Left)
	if v := math.Abs(c.Top - o.Top); v > d {
		d = v
	}
	if v := math.Abs(c.Right - o.Right); v > d {
		d = v
	}
	if v := math.Abs(c.Bottom - o.Bottom); v > d {
		d = v
	}
	return d
}

// AtEdge reports whether any margin is at or below the given size, meaning
// the visible window touches the source boundary.
func (c CropRect) AtEdge(margin float64) bool {
	return c.Left <= margin || c.Top <= margin || c.Right <= margin || c.Bottom <= margin
}

// IsZero reports whether all margins are zero (the full, unzoomed frame).
func (c CropRect) IsZero() bool {
	return c.Left == 0 && c.Top == 0 && c.Right == 0 && c.Bottom == 0
}

// Lerp interpolates each margin toward the target by t in [0,1].
func (c CropRect) Lerp(target CropRect, t float64) CropRect {
	return CropRect{
		Left:   c.Left + (target.Left-c.Left)*t,
		Top:    c.Top + (target.Top-c.Top)*t,
		Right:  c.Right + (target.Right-c.Right)*t,
		Bottom: c.Bottom + (target.Bottom-c.Bottom)*t,
	}
}

// ZoomState tracks the zoom value in motion.
// Invariant: Current approaches Target while animating and equals exactly 1.0
// when zoom is fully deactivated.
type ZoomState struct {
	Active    bool
	Value     float64 // configured zoom factor, > 1.0
	Speed     float64 // damping in (0,1]
	Current   float64 // >= 1.0
	Target    float64 // >= 1.0
	StartedAt time.Time
}

// FollowState tracks follow mode.
// Invariant: Active implies the zoom is active; follow never runs on its own.
type FollowState struct {
	Active bool
	Speed  float64 // blend factor in (0,1]
}

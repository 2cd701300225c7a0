// Package usecase contains the update gate and the control state machine.
package usecase

import (
	"github.com/openkast/zoomfollow/internal/domain"
)

// GateConfig holds the thresholds applied to candidate crops.
type GateConfig struct {
	// Deadzone is the minimum pointer displacement in pixels before follow
	// recomputes a crop.
	Deadzone float64

	// Threshold is the minimum per-margin crop delta, versus the last pushed
	// crop, required to push an update downstream.
	Threshold float64

	// EdgeThreshold replaces Threshold when the last pushed crop already
	// touches a source edge.
	EdgeThreshold float64
}

// edgeMargin is the margin size at or below which the view counts as touching
// the source boundary.
const edgeMargin = 1.0

// Gate decides, per tick, whether a candidate crop rectangle reaches the
// filter sink. It applies the pointer deadzone, the follow blend with its
// edge guard, and the magnitude threshold, in that order. The gate owns the
// last pointer sample, the last applied crop and the last pushed crop.
type Gate struct {
	cfg GateConfig

	lastPointer domain.PointSample
	havePointer bool

	lastApplied domain.CropRect

	lastPushed domain.CropRect
	havePushed bool
}

// NewGate creates a gate with the given thresholds.
func NewGate(cfg GateConfig) *Gate {
	return &Gate{cfg: cfg}
}

// Apply filters one candidate crop. It returns the crop that should be
// considered current (the blended crop, or the previous one when suppressed)
// and whether it must be pushed to the sink this tick.
func (g *Gate) Apply(candidate domain.CropRect, pointer domain.PointSample, follow domain.FollowState) (domain.CropRect, bool) {
	displacement := 0.0
	if g.havePointer {
		displacement = pointer.DistanceTo(g.lastPointer)
	}

	// Deadzone: tiny pointer movement while following keeps the last crop.
	// The pointer sample is still recorded so displacement cannot accumulate
	// silently across suppressed ticks.
	if follow.Active && g.havePointer && displacement < g.cfg.Deadzone {
		g.lastPointer = pointer
		return g.lastApplied, false
	}

	crop := candidate
	if follow.Active && g.havePointer {
		blended := g.lastApplied.Lerp(candidate, follow.Speed)

		// Edge guard: a blended crop sitting on a source edge oscillates by
		// sub-pixel amounts when the pointer barely moves. Reuse the previous
		// crop verbatim until the pointer clears twice the deadzone.
		if blended.AtEdge(edgeMargin) && displacement < 2*g.cfg.Deadzone {
			crop = g.lastApplied
		} else {
			crop = blended
		}
	}

	g.lastPointer = pointer
	g.havePointer = true
	g.lastApplied = crop

	if !g.havePushed {
		g.lastPushed = crop
		g.havePushed = true
		return crop, true
	}

	threshold := g.cfg.Threshold
	if g.lastPushed.AtEdge(edgeMargin) {
		threshold = g.cfg.EdgeThreshold
	}
	if crop.MaxDelta(g.lastPushed) <= threshold {
		return crop, false
	}

	g.lastPushed = crop
	return crop, true
}

// Seed primes the gate after an externally sequenced push (the scene
// transition ramp writes to the sink directly), so follow resumes from the
// pushed crop instead of jumping.
func (g *Gate) Seed(crop domain.CropRect) {
	g.lastApplied = crop
	g.lastPushed = crop
	g.havePushed = true
}

// Reset clears all retained state. Used on activation and teardown.
func (g *Gate) Reset() {
	g.havePointer = false
	g.havePushed = false
	g.lastPointer = domain.PointSample{}
	g.lastApplied = domain.CropRect{}
	g.lastPushed = domain.CropRect{}
}

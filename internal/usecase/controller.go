package usecase

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/openkast/zoomfollow/internal/anim"
	"github.com/openkast/zoomfollow/internal/domain"
	"github.com/openkast/zoomfollow/internal/easing"
	"github.com/openkast/zoomfollow/internal/mapper"
)

// Config holds the controller's tunables. All durations and thresholds map
// one-to-one onto the user-facing option surface.
type Config struct {
	ZoomValue   float64 // target zoom factor
	ZoomSpeed   float64 // zoom damping in (0,1]
	FollowSpeed float64 // follow blend factor in (0,1]

	TickInterval time.Duration

	ZoomInDuration      time.Duration
	ZoomOutDuration     time.Duration
	SceneChangeDuration time.Duration

	Gate GateConfig

	// FallbackMonitor is used when monitor enumeration yields nothing.
	FallbackMonitor domain.MonitorRect
}

// DefaultConfig returns the defaults documented for the option surface.
func DefaultConfig() Config {
	return Config{
		ZoomValue:           2.0,
		ZoomSpeed:           1.0,
		FollowSpeed:         0.25,
		TickInterval:        16 * time.Millisecond,
		ZoomInDuration:      300 * time.Millisecond,
		ZoomOutDuration:     500 * time.Millisecond,
		SceneChangeDuration: 300 * time.Millisecond,
		Gate:                GateConfig{Deadzone: 3, Threshold: 2, EdgeThreshold: 5},
		FallbackMonitor:     domain.MonitorRect{Left: 0, Top: 0, Right: 1920, Bottom: 1080},
	}
}

// session is the single mutable state block for one zoom session. It is owned
// by the Controller and mutated only under the controller mutex, by the public
// operations and the tick callbacks.
type session struct {
	zoom   domain.ZoomState
	follow domain.FollowState

	scene      domain.SceneHandle
	source     domain.SourceHandle
	filter     domain.FilterHandle
	ownsFilter bool
	srcW, srcH int

	gate     *Gate
	lastCrop domain.CropRect

	// Periodic loops. Each loop carries a generation number; a callback
	// scheduled under an older generation is stale and must do nothing. This
	// is the cooperative-cancellation token: cancelling cannot pre-empt an
	// in-flight tick, so the tick itself checks before doing work.
	tickHandle domain.TimerHandle
	tickGen    uint64

	zoomOutHandle domain.TimerHandle
	zoomOutGen    uint64
	zoomingOut    bool
	zoomOutStart  float64
	zoomOutBegan  time.Time

	sceneHandle domain.TimerHandle
	sceneGen    uint64
	sceneFrom   domain.CropRect
	sceneTo     domain.CropRect
	sceneBegan  time.Time

	tearingDown bool
}

// Status is a read-only snapshot of the session, for callers that report
// state (tests, the debug stats ticker, the doctor command).
type Status struct {
	ZoomActive  bool
	Following   bool
	ZoomingOut  bool
	ZoomCurrent float64
	LastCrop    domain.CropRect
	HasFilter   bool
	OwnsFilter  bool
	TickRunning bool
}

// Controller is the control state machine. It sequences activation,
// deactivation, scene-change retargeting and shutdown, and is the only
// component that starts or stops periodic callbacks.
//
// All entry points serialize on one mutex, so within a tick the
// pointer-read -> map -> gate -> push sequence is atomic with respect to
// other ticks and to the public operations.
type Controller struct {
	mu sync.Mutex

	cfg     Config
	comp    domain.Compositor
	pointer domain.PointerProvider
	sched   domain.Scheduler
	logger  *zap.Logger
	clock   func() time.Time

	s session
}

// NewController creates a controller. No timers run until ToggleZoom.
func NewController(
	cfg Config,
	comp domain.Compositor,
	pointer domain.PointerProvider,
	sched domain.Scheduler,
	logger *zap.Logger,
) *Controller {
	return NewControllerWithClock(cfg, comp, pointer, sched, logger, time.Now)
}

// NewControllerWithClock creates a controller with an injected clock, so the
// ramps can be driven deterministically in tests.
func NewControllerWithClock(
	cfg Config,
	comp domain.Compositor,
	pointer domain.PointerProvider,
	sched domain.Scheduler,
	logger *zap.Logger,
	clock func() time.Time,
) *Controller {
	return &Controller{
		cfg:     cfg,
		comp:    comp,
		pointer: pointer,
		sched:   sched,
		logger:  logger,
		clock:   clock,
		s:       session{gate: NewGate(cfg.Gate)},
	}
}

// Status returns a snapshot of the session state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		ZoomActive:  c.s.zoom.Active,
		Following:   c.s.follow.Active,
		ZoomingOut:  c.s.zoomingOut,
		ZoomCurrent: c.s.zoom.Current,
		LastCrop:    c.s.lastCrop,
		HasFilter:   c.s.filter != nil,
		OwnsFilter:  c.s.ownsFilter,
		TickRunning: c.s.tickHandle != nil,
	}
}

// ToggleZoom activates the zoom when idle and starts the zoom-out ramp when
// zoomed. Toggling during a zoom-out cancels the ramp and re-activates.
func (c *Controller) ToggleZoom() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.s.tearingDown {
		return domain.ErrShutDown
	}
	if c.s.zoom.Active {
		c.beginZoomOutLocked()
		return nil
	}
	return c.activateZoomLocked()
}

// ToggleFollow flips follow mode. Only legal while zoom is active.
func (c *Controller) ToggleFollow() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.s.tearingDown {
		return domain.ErrShutDown
	}
	if !c.s.zoom.Active {
		return domain.ErrFollowRequiresZoom
	}

	c.s.follow.Active = !c.s.follow.Active
	if c.s.follow.Active {
		c.s.follow.Speed = c.cfg.FollowSpeed
		c.ensureTickLocked()
		c.logger.Info("follow enabled", zap.Float64("speed", c.s.follow.Speed))
	} else {
		// The tick keeps running for the zoom; only zoom-out stops it.
		c.logger.Info("follow disabled")
	}
	return nil
}

// OnSceneChanged retargets the session to the host's current scene. Called
// from the host's scene-changed notification.
func (c *Controller) OnSceneChanged() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.s.tearingDown {
		return
	}

	scene, err := c.comp.CurrentScene()
	if err != nil {
		c.logger.Warn("scene query failed", zap.Error(err))
		return
	}
	if sameHandle(scene, c.s.scene) {
		return
	}

	// Best-effort detach from the old target; it may already be gone.
	if c.s.filter != nil && c.s.ownsFilter {
		if err := c.comp.DetachCropFilter(c.s.source, c.s.filter); err != nil {
			c.logger.Debug("detach from old target failed", zap.Error(err))
		}
	}
	c.s.filter = nil
	c.s.ownsFilter = false
	c.s.source = nil
	c.s.scene = scene

	src, err := c.comp.FindCompositableSource(scene)
	if err != nil || src == nil {
		if err != nil {
			c.logger.Warn("source search failed", zap.Error(err))
		} else {
			c.logger.Info("new scene has no compositable source, deactivating")
		}
		c.forceInactiveLocked()
		return
	}

	if err := c.acquireTargetLocked(src); err != nil {
		c.logger.Warn("retarget failed", zap.Error(err))
		c.forceInactiveLocked()
		return
	}

	if c.s.zoom.Active {
		c.beginSceneRampLocked()
	} else {
		c.pushCropLocked(domain.CropRect{})
	}
}

// Teardown stops every timer, releases the filter when owned, and resets all
// session state. The controller accepts no operations afterwards.
func (c *Controller) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.s.tearingDown {
		return
	}
	c.s.tearingDown = true

	c.stopTickLocked()
	c.stopZoomOutLocked()
	c.stopSceneRampLocked()

	if c.s.filter != nil {
		// Restore the unzoomed view before letting go of the filter.
		c.pushCropLocked(domain.CropRect{})
	}
	c.releaseFilterLocked()

	c.s.zoom = domain.ZoomState{Current: 1.0}
	c.s.follow = domain.FollowState{}
	c.s.gate.Reset()
	c.s.lastCrop = domain.CropRect{}
	c.s.scene = nil
	c.s.source = nil
	c.s.srcW, c.s.srcH = 0, 0

	c.pointer.Reset()
	c.logger.Info("controller torn down")
}

// --- activation ---

func (c *Controller) activateZoomLocked() error {
	// Re-activation mid zoom-out cancels the ramp; its next tick sees the
	// cleared flag and does nothing.
	c.stopZoomOutLocked()

	if c.s.source == nil {
		scene, err := c.comp.CurrentScene()
		if err != nil {
			return fmt.Errorf("query current scene: %w", err)
		}
		src, err := c.comp.FindCompositableSource(scene)
		if err != nil {
			return fmt.Errorf("search scene: %w", err)
		}
		if src == nil {
			return domain.ErrNoCompositableSource
		}

		// Validate dimensions before attaching anything: a persistently
		// 0x0 source refuses activation outright.
		w, h, err := c.comp.SourceSize(src)
		if err != nil {
			return fmt.Errorf("query source size: %w", err)
		}
		if w == 0 || h == 0 {
			return domain.ErrInvalidDimensions
		}

		c.s.scene = scene
		if err := c.acquireTargetLocked(src); err != nil {
			return err
		}
	} else if c.s.srcW == 0 || c.s.srcH == 0 {
		w, h, err := c.comp.SourceSize(c.s.source)
		if err != nil {
			return fmt.Errorf("query source size: %w", err)
		}
		if w == 0 || h == 0 {
			return domain.ErrInvalidDimensions
		}
		c.s.srcW, c.s.srcH = w, h
	}

	now := c.clock()
	c.s.zoom = domain.ZoomState{
		Active:    true,
		Value:     c.cfg.ZoomValue,
		Speed:     c.cfg.ZoomSpeed,
		Current:   1.0,
		Target:    c.cfg.ZoomValue,
		StartedAt: now,
	}
	c.s.gate.Reset()
	c.ensureTickLocked()

	c.logger.Info("zoom activated",
		zap.Float64("target", c.s.zoom.Target),
		zap.Int("source_w", c.s.srcW),
		zap.Int("source_h", c.s.srcH))
	return nil
}

// acquireTargetLocked finds or attaches a crop filter on the source,
// recording whether we own the filter's lifetime. A discovered filter is
// borrowed and must never be released by us. The source size is recorded as
// reported - 0x0 immediately after attachment is an expected transient that
// the tick loop resolves by retrying.
func (c *Controller) acquireTargetLocked(src domain.SourceHandle) error {
	filter, found, err := c.comp.FindCropFilter(src)
	if err != nil {
		return fmt.Errorf("look up crop filter: %w", err)
	}
	owns := false
	if !found {
		filter, err = c.comp.AttachCropFilter(src)
		if err != nil {
			return fmt.Errorf("attach crop filter: %w", err)
		}
		owns = true
	}

	c.s.source = src
	c.s.filter = filter
	c.s.ownsFilter = owns

	c.s.srcW, c.s.srcH = 0, 0
	if w, h, err := c.comp.SourceSize(src); err == nil {
		c.s.srcW, c.s.srcH = w, h
	} else {
		c.logger.Debug("source size query failed after attach", zap.Error(err))
	}
	return nil
}

// --- the shared per-tick callback ---

func (c *Controller) ensureTickLocked() {
	if c.s.tickHandle != nil || c.s.tearingDown {
		return
	}
	c.s.tickGen++
	gen := c.s.tickGen
	c.s.tickHandle = c.sched.SchedulePeriodic(c.cfg.TickInterval, func() {
		c.tick(gen)
	})
}

func (c *Controller) stopTickLocked() {
	if c.s.tickHandle == nil {
		return
	}
	c.s.tickGen++
	c.s.tickHandle.Cancel()
	c.s.tickHandle = nil
}

func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.s.tickGen || c.s.tearingDown {
		return
	}
	if !c.s.zoom.Active {
		return
	}

	// The scene-transition ramp owns the sink until it completes; pushing the
	// mapped crop underneath it would reintroduce the pop it exists to avoid.
	if c.s.sceneHandle != nil {
		return
	}

	// Source size can legitimately read 0x0 right after filter attachment.
	// Emit the zero crop and retry next tick.
	if c.s.srcW == 0 || c.s.srcH == 0 {
		if w, h, err := c.comp.SourceSize(c.s.source); err == nil {
			c.s.srcW, c.s.srcH = w, h
		} else {
			c.logger.Debug("source size query failed", zap.Error(err))
		}
		if c.s.srcW == 0 || c.s.srcH == 0 {
			c.pushCropLocked(domain.CropRect{})
			return
		}
	}

	// Advance the zoom-in ramp.
	if c.s.zoom.Current != c.s.zoom.Target {
		elapsed := c.clock().Sub(c.s.zoom.StartedAt)
		value, _, _ := anim.Advance(1.0, c.s.zoom.Target, elapsed, c.cfg.ZoomInDuration, easing.Smooth)
		c.s.zoom.Current = anim.Damp(value, c.s.zoom.Speed)
	}

	p := c.pointer.Pointer()
	mon := mapper.MonitorAt(c.pointer.Monitors(), p.X, p.Y, c.cfg.FallbackMonitor)
	candidate := mapper.ComputeCrop(p, mon, c.s.zoom.Current, c.s.srcW, c.s.srcH)

	crop, push := c.s.gate.Apply(candidate, p, c.s.follow)
	if push {
		c.pushCropLocked(crop)
	}
}

// --- zoom-out ramp ---

func (c *Controller) beginZoomOutLocked() {
	// Stop the shared tick immediately to bound further cost. A
	// scene-transition ramp in flight targets the zoomed crop and must not
	// outlive the zoom it serves, so it stops here too.
	c.stopTickLocked()
	c.stopSceneRampLocked()

	c.s.zoom.Active = false
	c.s.follow.Active = false

	// Zoom never got past 1.0 (toggled off before the first tick fired):
	// nothing visible to animate, settle synchronously.
	if c.s.zoom.Current <= 1.0 {
		c.finishZoomOutLocked()
		return
	}

	c.s.zoomingOut = true
	c.s.zoomOutStart = c.s.zoom.Current
	c.s.zoomOutBegan = c.clock()

	c.s.zoomOutGen++
	gen := c.s.zoomOutGen
	c.s.zoomOutHandle = c.sched.SchedulePeriodic(c.cfg.TickInterval, func() {
		c.zoomOutTick(gen)
	})
	c.logger.Info("zoom-out started", zap.Float64("from", c.s.zoomOutStart))
}

func (c *Controller) stopZoomOutLocked() {
	c.s.zoomingOut = false
	if c.s.zoomOutHandle == nil {
		return
	}
	c.s.zoomOutGen++
	c.s.zoomOutHandle.Cancel()
	c.s.zoomOutHandle = nil
}

func (c *Controller) zoomOutTick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Self-cancel when zoom was reactivated mid-flight or the ramp already
	// completed on an earlier tick.
	if gen != c.s.zoomOutGen || !c.s.zoomingOut || c.s.tearingDown {
		return
	}

	elapsed := c.clock().Sub(c.s.zoomOutBegan)
	value, _, done := anim.Advance(c.s.zoomOutStart, 1.0, elapsed, c.cfg.ZoomOutDuration, easing.EaseOut)
	c.s.zoom.Current = value

	if !done {
		p := c.pointer.Pointer()
		mon := mapper.MonitorAt(c.pointer.Monitors(), p.X, p.Y, c.cfg.FallbackMonitor)
		candidate := mapper.ComputeCrop(p, mon, c.s.zoom.Current, c.s.srcW, c.s.srcH)
		if crop, push := c.s.gate.Apply(candidate, p, c.s.follow); push {
			c.pushCropLocked(crop)
		}
		return
	}

	c.finishZoomOutLocked()
}

// finishZoomOutLocked runs zoom-out completion. The in-progress flag and the
// timer handle are cleared before any teardown work so a racing tick observes
// a finished ramp and does nothing.
func (c *Controller) finishZoomOutLocked() {
	c.s.zoom.Current = 1.0
	c.s.zoomingOut = false
	handle := c.s.zoomOutHandle
	c.s.zoomOutHandle = nil
	c.s.zoomOutGen++
	if handle != nil {
		handle.Cancel()
	}

	c.pushCropLocked(domain.CropRect{})
	c.releaseFilterLocked()

	c.s.gate.Reset()
	c.s.lastCrop = domain.CropRect{}
	c.s.source = nil
	c.s.scene = nil
	c.s.srcW, c.s.srcH = 0, 0

	c.logger.Info("zoom-out complete")
}

// --- scene-transition ramp ---

func (c *Controller) beginSceneRampLocked() {
	c.stopSceneRampLocked()

	p := c.pointer.Pointer()
	mon := mapper.MonitorAt(c.pointer.Monitors(), p.X, p.Y, c.cfg.FallbackMonitor)

	c.s.sceneFrom = domain.CropRect{}
	c.s.sceneTo = mapper.ComputeCrop(p, mon, c.s.zoom.Current, c.s.srcW, c.s.srcH)
	c.s.sceneBegan = c.clock()

	c.s.sceneGen++
	gen := c.s.sceneGen
	c.s.sceneHandle = c.sched.SchedulePeriodic(c.cfg.TickInterval, func() {
		c.sceneRampTick(gen)
	})
	c.logger.Debug("scene transition started")
}

func (c *Controller) stopSceneRampLocked() {
	if c.s.sceneHandle == nil {
		return
	}
	c.s.sceneGen++
	c.s.sceneHandle.Cancel()
	c.s.sceneHandle = nil
}

func (c *Controller) sceneRampTick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.s.sceneGen || c.s.tearingDown {
		return
	}

	elapsed := c.clock().Sub(c.s.sceneBegan)
	_, progress, done := anim.Advance(0, 1, elapsed, c.cfg.SceneChangeDuration, easing.Linear)
	crop := c.s.sceneFrom.Lerp(c.s.sceneTo, progress)

	// The ramp sequences its own pushes; the gate is re-seeded at the end so
	// follow picks up from where the ramp landed.
	c.pushCropLocked(crop)

	if done {
		handle := c.s.sceneHandle
		c.s.sceneHandle = nil
		c.s.sceneGen++
		if handle != nil {
			handle.Cancel()
		}
		c.s.gate.Seed(c.s.sceneTo)
		c.logger.Debug("scene transition complete")
	}
}

// --- shared helpers ---

// forceInactiveLocked drops zoom and follow and stops the shared tick, used
// when a scene change leaves no target to operate on.
func (c *Controller) forceInactiveLocked() {
	c.s.zoom.Active = false
	c.s.zoom.Current = 1.0
	c.s.follow.Active = false
	c.stopTickLocked()
	c.stopZoomOutLocked()
	c.stopSceneRampLocked()
	c.s.gate.Reset()
	c.s.lastCrop = domain.CropRect{}
	c.s.srcW, c.s.srcH = 0, 0
}

// pushCropLocked rounds and pushes a crop to the filter sink. A collaborator
// failure is logged and treated as a no-op for this tick.
func (c *Controller) pushCropLocked(crop domain.CropRect) {
	if c.s.filter == nil {
		return
	}
	rounded := crop.Rounded()
	if err := c.comp.PushCropSettings(c.s.filter, rounded); err != nil {
		c.logger.Warn("crop push failed", zap.Error(err))
		return
	}
	c.s.lastCrop = rounded
}

// sameHandle compares two opaque host handles. Hosts may back handles with
// non-comparable types, so equality goes through reflection rather than ==,
// which would panic on, say, a slice-backed handle.
func sameHandle(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// releaseFilterLocked detaches the filter only when this controller created
// it. A filter discovered on the source is borrowed and stays attached.
func (c *Controller) releaseFilterLocked() {
	if c.s.filter == nil {
		return
	}
	if c.s.ownsFilter {
		if err := c.comp.DetachCropFilter(c.s.source, c.s.filter); err != nil {
			c.logger.Warn("filter detach failed", zap.Error(err))
		}
	}
	c.s.filter = nil
	c.s.ownsFilter = false
}

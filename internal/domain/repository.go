package domain

import (
	"errors"
	"time"
)

// Sentinel errors for activation failures. Collaborator failures are wrapped
// with %w at the call site and never propagate out of a tick.
var (
	// ErrNoCompositableSource means the scene holds nothing a crop filter can attach to.
	ErrNoCompositableSource = errors.New("no compositable source in scene")

	// ErrInvalidDimensions means the target source reported zero width or height
	// at activation time.
	ErrInvalidDimensions = errors.New("target source has zero dimensions")

	// ErrFollowRequiresZoom means follow was toggled while zoom is inactive.
	ErrFollowRequiresZoom = errors.New("follow mode requires active zoom")

	// ErrShutDown means the controller has been torn down and accepts no more work.
	ErrShutDown = errors.New("controller is shut down")
)

// Opaque references owned by the compositing host. The controller never
// inspects them; it only passes them back into Compositor calls.
type (
	SceneHandle  any
	SourceHandle any
	FilterHandle any
)

// Compositor is the host collaborator that owns scenes, sources and filters.
// Every method may fail; callers treat a failure as a no-op for that tick.
// Implementation: the compositing host's scripting surface (LogCompositor in
// this repo for dry runs, mocks in tests).
type Compositor interface {
	// CurrentScene returns the scene currently on program output.
	CurrentScene() (SceneHandle, error)

	// FindCompositableSource searches the scene recursively, including nested
	// scenes, and returns the first source a crop filter can attach to.
	// Returns nil when the scene holds none.
	FindCompositableSource(scene SceneHandle) (SourceHandle, error)

	// SourceSize returns the source's native pixel size. (0,0) is a legitimate
	// transient immediately after filter attachment, not an error.
	SourceSize(src SourceHandle) (width, height int, err error)

	// FindCropFilter returns an already-attached crop filter on the source.
	// Such a filter is borrowed: the caller must never release it.
	FindCropFilter(src SourceHandle) (FilterHandle, bool, error)

	// AttachCropFilter creates and attaches a crop filter. The caller owns it
	// and must detach it on teardown.
	AttachCropFilter(src SourceHandle) (FilterHandle, error)

	// DetachCropFilter removes a filter previously created by AttachCropFilter.
	// Must tolerate the source already being gone.
	DetachCropFilter(src SourceHandle, filter FilterHandle) error

	// PushCropSettings applies the crop margins to the filter. The crop is
	// expected to be pre-rounded to whole pixels.
	PushCropSettings(filter FilterHandle, crop CropRect) error
}

// PointerProvider supplies monitor geometry and pointer positions.
// Implementations degrade rather than fail: an unsupported platform yields a
// single fallback monitor and a (0,0) pointer reading.
type PointerProvider interface {
	// Monitors returns all known display rectangles. Never empty: the fallback
	// rectangle is returned when enumeration is unavailable.
	Monitors() []MonitorRect

	// Pointer returns the current pointer sample. Readings are cached for a
	// configured duration to bound native-call frequency, so the same sample
	// may be returned across several ticks.
	Pointer() PointSample

	// Reset drops the cached sample. Called when the platform layer is torn down.
	Reset()
}

// TimerHandle cancels a periodic callback. Cancellation is cooperative: an
// invocation already in flight runs to completion, and the callback itself is
// responsible for checking a still-wanted flag before doing work.
type TimerHandle interface {
	Cancel()
}

// Scheduler is the host tick primitive.
type Scheduler interface {
	// SchedulePeriodic invokes tick at the given interval until the returned
	// handle is cancelled. Invocations of one handle never overlap.
	SchedulePeriodic(interval time.Duration, tick func()) TimerHandle
}

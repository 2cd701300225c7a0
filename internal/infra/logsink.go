package infra

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/openkast/zoomfollow/internal/domain"
)

// LogCompositor is a stand-in host for dry runs: it exposes one synthetic
// scene containing one source of a fixed size and logs every crop push
// instead of compositing. It lets the whole pipeline run end to end on a
// machine without a compositing host attached.
type LogCompositor struct {
	mu     sync.Mutex
	logger *zap.Logger

	sceneName     string
	width, height int

	nextFilter int
	attached   map[string]bool
	pushes     uint64
}

// NewLogCompositor creates a dry-run host with one scene and one source of
// the given native size.
func NewLogCompositor(width, height int, logger *zap.Logger) *LogCompositor {
	return &LogCompositor{
		logger:    logger,
		sceneName: "scene",
		width:     width,
		height:    height,
		attached:  map[string]bool{},
	}
}

// SetScene renames the current scene; used to simulate scene switches.
func (l *LogCompositor) SetScene(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sceneName = name
}

// CurrentScene returns the synthetic scene.
func (l *LogCompositor) CurrentScene() (domain.SceneHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sceneName, nil
}

// FindCompositableSource returns the single synthetic source.
func (l *LogCompositor) FindCompositableSource(scene domain.SceneHandle) (domain.SourceHandle, error) {
	return "display", nil
}

// SourceSize returns the configured native size.
func (l *LogCompositor) SourceSize(src domain.SourceHandle) (int, int, error) {
	return l.width, l.height, nil
}

// FindCropFilter never finds an existing filter; the controller always
// creates and owns one.
func (l *LogCompositor) FindCropFilter(src domain.SourceHandle) (domain.FilterHandle, bool, error) {
	return nil, false, nil
}

// AttachCropFilter hands out a fresh filter token.
func (l *LogCompositor) AttachCropFilter(src domain.SourceHandle) (domain.FilterHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextFilter++
	id := fmt.Sprintf("crop-%d", l.nextFilter)
	l.attached[id] = true
	l.logger.Info("filter attached", zap.String("filter", id))
	return id, nil
}

// DetachCropFilter removes a previously attached filter token.
func (l *LogCompositor) DetachCropFilter(src domain.SourceHandle, filter domain.FilterHandle) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	id, ok := filter.(string)
	if !ok || !l.attached[id] {
		return fmt.Errorf("unknown filter %v", filter)
	}
	delete(l.attached, id)
	l.logger.Info("filter detached", zap.String("filter", id))
	return nil
}

// PushCropSettings logs the crop instead of applying it.
func (l *LogCompositor) PushCropSettings(filter domain.FilterHandle, crop domain.CropRect) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pushes++
	l.logger.Debug("crop push",
		zap.Float64("left", crop.Left),
		zap.Float64("top", crop.Top),
		zap.Float64("right", crop.Right),
		zap.Float64("bottom", crop.Bottom))
	return nil
}

// Pushes returns how many crops have been pushed so far.
func (l *LogCompositor) Pushes() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pushes
}

// Ensure LogCompositor implements domain.Compositor.
var _ domain.Compositor = (*LogCompositor)(nil)

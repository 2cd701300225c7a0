package infra

import (
	"github.com/kbinani/screenshot"
	"go.uber.org/zap"

	"github.com/openkast/zoomfollow/internal/domain"
)

// enumerateMonitors lists all connected displays in virtual-desktop
// coordinates. Returns nil when enumeration is unavailable; callers fall back
// to the configured default rectangle.
func enumerateMonitors(logger *zap.Logger) (monitors []domain.MonitorRect) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("monitor enumeration unavailable", zap.Any("cause", r))
			monitors = nil
		}
	}()

	n := screenshot.NumActiveDisplays()
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		m := domain.MonitorRect{
			Left:   b.Min.X,
			Top:    b.Min.Y,
			Right:  b.Max.X,
			Bottom: b.Max.Y,
		}
		if !m.Valid() {
			continue
		}
		monitors = append(monitors, m)
	}

	logger.Debug("monitors enumerated", zap.Int("count", len(monitors)))
	return monitors
}

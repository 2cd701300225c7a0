package infra

import (
	"context"
	"strings"

	hook "github.com/robotn/gohook"
	"go.uber.org/zap"
)

// HotkeyBinder registers the two user actions as global key chords via
// gohook. Which chords to use comes from configuration; this adapter only
// wires them to callbacks.
type HotkeyBinder struct {
	logger *zap.Logger
}

// NewHotkeyBinder creates a binder.
func NewHotkeyBinder(logger *zap.Logger) *HotkeyBinder {
	return &HotkeyBinder{logger: logger}
}

// Bind registers both chords and blocks processing hook events until the
// context is cancelled. Chords are keys joined with '+', e.g. "ctrl+alt+z".
func (b *HotkeyBinder) Bind(ctx context.Context, zoomChord, followChord string, onZoom, onFollow func()) {
	register := func(chord, action string, fn func()) {
		keys := strings.Split(strings.ToLower(chord), "+")
		hook.Register(hook.KeyDown, keys, func(e hook.Event) {
			b.logger.Debug("hotkey fired", zap.String("action", action), zap.String("chord", chord))
			fn()
		})
	}
	register(zoomChord, "toggle_zoom", onZoom)
	register(followChord, "toggle_follow", onFollow)

	events := hook.Start()
	go func() {
		<-ctx.Done()
		hook.End()
	}()

	b.logger.Info("hotkeys bound",
		zap.String("zoom", zoomChord),
		zap.String("follow", followChord))
	<-hook.Process(events)
}

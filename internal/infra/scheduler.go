package infra

import (
	"sync"
	"time"

	"github.com/openkast/zoomfollow/internal/domain"
)

// TickerScheduler implements domain.Scheduler over time.Ticker. Each periodic
// loop runs on its own goroutine; invocations of one loop never overlap
// because they run sequentially on that goroutine.
type TickerScheduler struct{}

// NewTickerScheduler creates a scheduler.
func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{}
}

// SchedulePeriodic starts a loop invoking tick at the given interval until
// the returned handle is cancelled. Cancellation cannot pre-empt an in-flight
// invocation; callers check their own still-wanted flag inside the tick.
func (s *TickerScheduler) SchedulePeriodic(interval time.Duration, tick func()) domain.TimerHandle {
	h := &tickerHandle{stop: make(chan struct{})}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-h.stop:
				return
			case <-t.C:
				tick()
			}
		}
	}()
	return h
}

type tickerHandle struct {
	once sync.Once
	stop chan struct{}
}

// Cancel stops the loop. Safe to call more than once and from inside the tick
// callback itself.
func (h *tickerHandle) Cancel() {
	h.once.Do(func() { close(h.stop) })
}

// Ensure TickerScheduler implements domain.Scheduler.
var _ domain.Scheduler = (*TickerScheduler)(nil)

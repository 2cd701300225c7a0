// Package infra implements the platform and host adapters.
package infra

import (
	"sync"
	"time"

	"github.com/go-vgo/robotgo"
	"go.uber.org/zap"

	"github.com/openkast/zoomfollow/internal/domain"
)

// queryFunc returns the raw pointer position in virtual-desktop coordinates.
type queryFunc func() (int, int)

// CachedPointerProvider implements domain.PointerProvider over robotgo.
// Readings are cached for a short duration so callers may poll at tick rate
// without hitting the native layer every time. An unsupported platform
// degrades to a (0,0) reading and the fallback monitor instead of failing.
type CachedPointerProvider struct {
	mu       sync.Mutex
	query    queryFunc
	cacheFor time.Duration
	clock    func() time.Time
	logger   *zap.Logger

	monitors []domain.MonitorRect
	fallback domain.MonitorRect

	last     domain.PointSample
	haveLast bool
}

// NewPointerProvider creates a provider backed by robotgo, with monitors
// enumerated once at startup.
func NewPointerProvider(cacheFor time.Duration, fallback domain.MonitorRect, logger *zap.Logger) *CachedPointerProvider {
	p := NewPointerProviderWithQuery(safeLocation, cacheFor, fallback, logger)
	p.monitors = enumerateMonitors(logger)
	return p
}

// NewPointerProviderWithQuery creates a provider with an injected position
// query, so the caching behavior can be tested without the native layer.
func NewPointerProviderWithQuery(query func() (int, int), cacheFor time.Duration, fallback domain.MonitorRect, logger *zap.Logger) *CachedPointerProvider {
	return &CachedPointerProvider{
		query:    query,
		cacheFor: cacheFor,
		clock:    time.Now,
		logger:   logger,
		fallback: fallback,
	}
}

// Monitors returns the enumerated displays, or the fallback rectangle when
// enumeration yielded nothing.
func (p *CachedPointerProvider) Monitors() []domain.MonitorRect {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.monitors) == 0 {
		return []domain.MonitorRect{p.fallback}
	}
	return p.monitors
}

// Pointer returns the current pointer sample, served from cache when the last
// native query is fresh enough. Timestamps are monotonically non-decreasing.
func (p *CachedPointerProvider) Pointer() domain.PointSample {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.clock()
	if p.haveLast && now.Sub(p.last.At) < p.cacheFor {
		return p.last
	}

	x, y := p.query()
	p.last = domain.PointSample{X: float64(x), Y: float64(y), At: now}
	p.haveLast = true
	return p.last
}

// Reset drops the cached sample. Safe to call while the platform layer is
// being torn down; the next Pointer call queries fresh.
func (p *CachedPointerProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.haveLast = false
	p.last = domain.PointSample{}
}

// safeLocation wraps robotgo.Location; a panic from an unsupported platform
// degrades to (0,0).
func safeLocation() (x, y int) {
	defer func() {
		if r := recover(); r != nil {
			x, y = 0, 0
		}
	}()
	return robotgo.Location()
}

// Ensure CachedPointerProvider implements domain.PointerProvider.
var _ domain.PointerProvider = (*CachedPointerProvider)(nil)

package infra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/openkast/zoomfollow/internal/domain"
)

var testFallback = domain.MonitorRect{Left: 0, Top: 0, Right: 1920, Bottom: 1080}

// countingQuery returns a fixed position and counts native calls.
type countingQuery struct {
	calls int
	x, y  int
}

func (q *countingQuery) get() (int, int) {
	q.calls++
	return q.x, q.y
}

func newTestProvider(q *countingQuery, cacheFor time.Duration) (*CachedPointerProvider, *fakeNow) {
	p := NewPointerProviderWithQuery(q.get, cacheFor, testFallback, zap.NewNop())
	clk := &fakeNow{now: time.Unix(1000, 0)}
	p.clock = clk.get
	return p, clk
}

type fakeNow struct {
	now time.Time
}

func (f *fakeNow) get() time.Time { return f.now }

func (f *fakeNow) advance(d time.Duration) { f.now = f.now.Add(d) }

// TestPointer_CacheBoundsNativeCalls verifies reads inside the cache window
// hit the native layer only once.
func TestPointer_CacheBoundsNativeCalls(t *testing.T) {
	q := &countingQuery{x: 100, y: 200}
	p, clk := newTestProvider(q, 8*time.Millisecond)

	first := p.Pointer()
	clk.advance(2 * time.Millisecond)
	second := p.Pointer()
	clk.advance(2 * time.Millisecond)
	third := p.Pointer()

	assert.Equal(t, 1, q.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, first, third)
	assert.Equal(t, 100.0, first.X)
}

// TestPointer_CacheExpires verifies a fresh native query past the window.
func TestPointer_CacheExpires(t *testing.T) {
	q := &countingQuery{x: 100, y: 200}
	p, clk := newTestProvider(q, 8*time.Millisecond)

	first := p.Pointer()
	q.x = 300
	clk.advance(10 * time.Millisecond)
	second := p.Pointer()

	assert.Equal(t, 2, q.calls)
	assert.Equal(t, 300.0, second.X)
	assert.True(t, second.At.After(first.At))
}

// TestPointer_TimestampsMonotonic verifies sample timestamps never go back.
func TestPointer_TimestampsMonotonic(t *testing.T) {
	q := &countingQuery{}
	p, clk := newTestProvider(q, 8*time.Millisecond)

	prev := p.Pointer().At
	for i := 0; i < 5; i++ {
		clk.advance(5 * time.Millisecond)
		at := p.Pointer().At
		assert.False(t, at.Before(prev))
		prev = at
	}
}

// TestPointer_ResetForcesRequery verifies Reset drops the cached sample.
func TestPointer_ResetForcesRequery(t *testing.T) {
	q := &countingQuery{x: 100}
	p, _ := newTestProvider(q, time.Hour)

	p.Pointer()
	p.Reset()
	p.Pointer()

	assert.Equal(t, 2, q.calls)
}

// TestMonitors_FallbackWhenEmpty verifies the degraded path returns the
// configured default rectangle.
func TestMonitors_FallbackWhenEmpty(t *testing.T) {
	q := &countingQuery{}
	p, _ := newTestProvider(q, time.Millisecond)

	monitors := p.Monitors()

	assert.Equal(t, []domain.MonitorRect{testFallback}, monitors)
}

//go:build integration

package integration

import (
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/openkast/zoomfollow/internal/domain"
	"github.com/openkast/zoomfollow/internal/infra"
	"github.com/openkast/zoomfollow/internal/usecase"
)

// movablePointer feeds the pointer provider a position the test can move.
type movablePointer struct {
	mu   sync.Mutex
	x, y int
}

func (m *movablePointer) get() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.x, m.y
}

func (m *movablePointer) moveTo(x, y int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.x, m.y = x, y
}

var _ = Describe("Zoom Session", func() {
	const (
		srcW = 1920
		srcH = 1080
	)

	var (
		comp    *infra.LogCompositor
		pos     *movablePointer
		pointer domain.PointerProvider
		ctrl    *usecase.Controller
	)

	BeforeEach(func() {
		logger := zap.NewNop()
		comp = infra.NewLogCompositor(srcW, srcH, logger)
		pos = &movablePointer{x: srcW / 2, y: srcH / 2}
		fallback := domain.MonitorRect{Left: 0, Top: 0, Right: srcW, Bottom: srcH}
		pointer = infra.NewPointerProviderWithQuery(pos.get, time.Millisecond, fallback, logger)

		cfg := usecase.Config{
			ZoomValue:           2.0,
			ZoomSpeed:           1.0,
			FollowSpeed:         1.0,
			TickInterval:        5 * time.Millisecond,
			ZoomInDuration:      50 * time.Millisecond,
			ZoomOutDuration:     60 * time.Millisecond,
			SceneChangeDuration: 50 * time.Millisecond,
			Gate:                usecase.GateConfig{Deadzone: 3, Threshold: 2, EdgeThreshold: 5},
			FallbackMonitor:     fallback,
		}
		ctrl = usecase.NewController(cfg, comp, pointer, infra.NewTickerScheduler(), logger)
	})

	AfterEach(func() {
		ctrl.Teardown()
	})

	Describe("activation", func() {
		It("ramps to the target zoom and pushes a centered crop", func() {
			Expect(ctrl.ToggleZoom()).To(Succeed())

			Eventually(func() float64 {
				return ctrl.Status().ZoomCurrent
			}, "2s", "10ms").Should(BeNumerically("~", 2.0, 0.001))

			st := ctrl.Status()
			Expect(st.ZoomActive).To(BeTrue())
			Expect(st.HasFilter).To(BeTrue())
			Expect(comp.Pushes()).To(BeNumerically(">", 0))

			// Pointer at frame center, zoom 2x: a quarter-frame margin on
			// every side.
			Expect(st.LastCrop.Left).To(BeNumerically("~", 480, 1))
			Expect(st.LastCrop.Top).To(BeNumerically("~", 270, 1))
			Expect(st.LastCrop.Right).To(BeNumerically("~", 480, 1))
			Expect(st.LastCrop.Bottom).To(BeNumerically("~", 270, 1))
		})
	})

	Describe("follow", func() {
		It("recenters the crop as the pointer moves", func() {
			Expect(ctrl.ToggleZoom()).To(Succeed())
			Eventually(func() float64 {
				return ctrl.Status().ZoomCurrent
			}, "2s", "10ms").Should(BeNumerically("~", 2.0, 0.001))

			Expect(ctrl.ToggleFollow()).To(Succeed())
			pos.moveTo(1200, 700)

			Eventually(func() float64 {
				return ctrl.Status().LastCrop.Left
			}, "2s", "10ms").Should(BeNumerically("~", 720, 5))
			Expect(ctrl.Status().LastCrop.Top).To(BeNumerically("~", 430, 5))
		})

		It("is refused while zoom is inactive", func() {
			Expect(ctrl.ToggleFollow()).To(MatchError(domain.ErrFollowRequiresZoom))
		})
	})

	Describe("deactivation", func() {
		It("ramps back to the full frame and releases the filter", func() {
			Expect(ctrl.ToggleZoom()).To(Succeed())
			Eventually(func() float64 {
				return ctrl.Status().ZoomCurrent
			}, "2s", "10ms").Should(BeNumerically("~", 2.0, 0.001))

			Expect(ctrl.ToggleZoom()).To(Succeed())

			Eventually(func() bool {
				st := ctrl.Status()
				return !st.ZoomActive && !st.ZoomingOut && !st.HasFilter
			}, "2s", "10ms").Should(BeTrue())

			st := ctrl.Status()
			Expect(st.ZoomCurrent).To(Equal(1.0))
			Expect(st.LastCrop.IsZero()).To(BeTrue())
		})

		It("handles an immediate double toggle cleanly", func() {
			Expect(ctrl.ToggleZoom()).To(Succeed())
			Expect(ctrl.ToggleZoom()).To(Succeed())

			Eventually(func() bool {
				st := ctrl.Status()
				return !st.ZoomActive && !st.ZoomingOut && !st.TickRunning
			}, "2s", "10ms").Should(BeTrue())
		})
	})

	Describe("scene changes", func() {
		It("re-acquires the source and ramps the crop back in", func() {
			Expect(ctrl.ToggleZoom()).To(Succeed())
			Eventually(func() float64 {
				return ctrl.Status().ZoomCurrent
			}, "2s", "10ms").Should(BeNumerically("~", 2.0, 0.001))

			before := comp.Pushes()
			comp.SetScene("scene-b")
			ctrl.OnSceneChanged()

			// The transition ramp pushes fresh crops on the new scene's
			// filter, ending back at the mapped window.
			Eventually(func() uint64 {
				return comp.Pushes()
			}, "2s", "10ms").Should(BeNumerically(">", before+2))
			Eventually(func() float64 {
				return ctrl.Status().LastCrop.Left
			}, "2s", "10ms").Should(BeNumerically("~", 480, 1))

			st := ctrl.Status()
			Expect(st.ZoomActive).To(BeTrue())
			Expect(st.HasFilter).To(BeTrue())
		})
	})

	Describe("teardown", func() {
		It("is terminal", func() {
			Expect(ctrl.ToggleZoom()).To(Succeed())
			ctrl.Teardown()

			Expect(ctrl.ToggleZoom()).To(MatchError(domain.ErrShutDown))
			Expect(ctrl.Status().TickRunning).To(BeFalse())
		})
	})
})

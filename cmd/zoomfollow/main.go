// Package main is the CLI entry point for zoomfollow.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/openkast/zoomfollow/internal/config"
	"github.com/openkast/zoomfollow/internal/domain"
	"github.com/openkast/zoomfollow/internal/infra"
	"github.com/openkast/zoomfollow/internal/usecase"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "zoomfollow",
	Short: "Animated zoom and pointer-follow crop effect",
	Long: `zoomfollow drives an animated crop region on a display source:
toggle in to zoom toward the pointer, optionally follow it as it moves,
and toggle out to ramp smoothly back to the full frame.

Without a compositing host attached it runs against a dry-run sink that
logs every crop push, which is useful for tuning speeds and thresholds.`,
	Version: Version,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the effect loop with global hotkeys",
	Long: `Starts the controller against the dry-run sink, binds the zoom and
follow hotkeys, and blocks until interrupted. Configuration is read from
ZOOMFOLLOW_* environment variables.`,
	RunE: runRun,
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the local environment",
	Long:  `Probes monitor enumeration, pointer access and process stats, and prints what it finds.`,
	RunE:  runDoctor,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run:   runVersion,
}

var jsonOutput bool

func init() {
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	opts, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := createLogger(opts.Debug)
	defer func() { _ = logger.Sync() }()

	fallback := domain.MonitorRect{
		Left: 0, Top: 0,
		Right:  opts.FallbackWidth,
		Bottom: opts.FallbackHeight,
	}

	comp := infra.NewLogCompositor(opts.FallbackWidth, opts.FallbackHeight, logger)
	pointer := infra.NewPointerProvider(opts.PointerCache(), fallback, logger)
	sched := infra.NewTickerScheduler()

	ctrlCfg := usecase.Config{
		ZoomValue:           opts.ZoomValue,
		ZoomSpeed:           opts.ZoomSpeed,
		FollowSpeed:         opts.FollowSpeed,
		TickInterval:        opts.TickInterval(),
		ZoomInDuration:      time.Duration(opts.ZoomInMs) * time.Millisecond,
		ZoomOutDuration:     time.Duration(opts.ZoomOutMs) * time.Millisecond,
		SceneChangeDuration: time.Duration(opts.SceneTransitionMs) * time.Millisecond,
		Gate: usecase.GateConfig{
			Deadzone:      float64(opts.PointerDeadzone),
			Threshold:     float64(opts.CropThreshold),
			EdgeThreshold: float64(opts.CropEdgeLimit),
		},
		FallbackMonitor: fallback,
	}

	ctrl := usecase.NewController(ctrlCfg, comp, pointer, sched, logger)
	defer ctrl.Teardown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	if opts.Debug {
		go statsLoop(ctx, ctrl, comp, logger)
	}

	logger.Info("zoomfollow starting",
		zap.Float64("zoom_value", opts.ZoomValue),
		zap.Duration("tick_interval", opts.TickInterval()),
		zap.String("zoom_hotkey", opts.ZoomHotkey),
		zap.String("follow_hotkey", opts.FollowHotkey))

	binder := infra.NewHotkeyBinder(logger)
	binder.Bind(ctx, opts.ZoomHotkey, opts.FollowHotkey,
		func() {
			if err := ctrl.ToggleZoom(); err != nil {
				logger.Warn("toggle zoom failed", zap.Error(err))
			}
		},
		func() {
			if err := ctrl.ToggleFollow(); err != nil {
				logger.Warn("toggle follow failed", zap.Error(err))
			}
		})

	logger.Info("zoomfollow stopped")
	return nil
}

// statsLoop periodically logs session and process stats while debugging.
func statsLoop(ctx context.Context, ctrl *usecase.Controller, comp *infra.LogCompositor, logger *zap.Logger) {
	stats, err := infra.NewSelfStats()
	if err != nil {
		logger.Warn("process stats unavailable", zap.Error(err))
		return
	}

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := ctrl.Status()
			fields := []zap.Field{
				zap.Bool("zoom_active", st.ZoomActive),
				zap.Bool("following", st.Following),
				zap.Float64("zoom", st.ZoomCurrent),
				zap.Uint64("pushes", comp.Pushes()),
			}
			if cpu, rss, err := stats.Sample(); err == nil {
				fields = append(fields,
					zap.Float64("cpu_pct", cpu),
					zap.Uint64("rss_bytes", rss))
			}
			logger.Debug("session stats", fields...)
		}
	}
}

func runDoctor(cmd *cobra.Command, args []string) error {
	logger := zap.NewNop()

	fmt.Println("\n=== zoomfollow Doctor ===")

	opts, err := config.Load()
	if err != nil {
		fmt.Printf("Configuration: FAILED (%v)\n", err)
		return err
	}
	fmt.Println("Configuration: OK")
	fmt.Printf("  zoom value %.2f, zoom speed %.2f, follow speed %.2f\n",
		opts.ZoomValue, opts.ZoomSpeed, opts.FollowSpeed)
	fmt.Printf("  tick %dms, deadzone %dpx, threshold %dpx\n",
		opts.TickIntervalMs, opts.PointerDeadzone, opts.CropThreshold)

	fallback := domain.MonitorRect{Right: opts.FallbackWidth, Bottom: opts.FallbackHeight}
	pointer := infra.NewPointerProvider(opts.PointerCache(), fallback, logger)

	monitors := pointer.Monitors()
	fmt.Printf("\nMonitors: %d\n", len(monitors))
	for i, m := range monitors {
		fmt.Printf("  [%d] %dx%d at (%d,%d)\n", i, m.Width(), m.Height(), m.Left, m.Top)
	}

	sample := pointer.Pointer()
	fmt.Printf("\nPointer: (%.0f, %.0f)\n", sample.X, sample.Y)

	if stats, err := infra.NewSelfStats(); err == nil {
		if cpu, rss, err := stats.Sample(); err == nil {
			fmt.Printf("\nProcess: %.1f%% CPU, %d MiB RSS\n", cpu, rss/(1024*1024))
		}
	}

	fmt.Println("=========================")
	return nil
}

func createLogger(debug bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("zoomfollow %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}

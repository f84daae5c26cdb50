package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ayusman/folio/internal/app"
	"github.com/ayusman/folio/internal/capture"
	"github.com/ayusman/folio/internal/config"
	"github.com/ayusman/folio/internal/detector"
	"github.com/ayusman/folio/internal/gesture"
	"github.com/ayusman/folio/internal/server"
	"github.com/ayusman/folio/internal/showcase"
	"github.com/ayusman/folio/internal/store"
	"github.com/ayusman/folio/internal/tray"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load(config.DefaultEnvFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "folio: %v\n", err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "folio: building logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger.Sugar()); err != nil {
		logger.Sugar().Errorw("folio exited with error", "error", err)
		os.Exit(1)
	}
}

// newLogger logs to stderr, or to a rotated file when one is configured,
// which is the usual setup when running from the tray.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.LogFile == "" {
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
		zc.Encoding = "console"
		return zc.Build()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		return nil, err
	}
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
	})
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewProductionEncoderConfig()),
		sink,
		cfg.LogLevel,
	)
	return zap.New(core, zap.AddCaller()), nil
}

func run(cfg config.Config, logger *zap.SugaredLogger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.New(cfg.DB)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer func() { err = multierr.Append(err, st.Close()) }()

	bus := gesture.NewBus()
	nav := showcase.New(showcase.DefaultProjects, showcase.DefaultPerSection)

	camera := capture.NewCamera(cfg.CameraID, capture.Constraints{
		Width:  cfg.Width,
		Height: cfg.Height,
		Facing: capture.FacingUser,
	})

	gestures := app.New(app.Config{
		Camera:   camera,
		Detector: detector.NewSkinDetector(detector.DefaultConfig(), nil),
		Store:    st,
		Bus:      bus,
		Callbacks: gesture.Callbacks{
			OnLeft:  func() { nav.Prev() },
			OnRight: func() { nav.Next() },
		},
		Section: func() int { return nav.Current().Index },
		Gesture: gesture.Config{
			Threshold: cfg.Threshold,
			Debounce:  cfg.Debounce,
		},
		Interval: cfg.Interval,
		Overlay:  cfg.Overlay,
		Logger:   logger.Named("gesture"),
	})

	webDir := cfg.WebDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		logger.Infow("serving static files", "dir", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Bus:       bus,
		Detector:  gestures,
		Showcase:  nav,

		AllowedOrigins: cfg.Origins,
		Logger:         logger.Named("http"),
	})

	nav.OnChange(func(s showcase.Section) {
		logger.Debugw("showcase moved", "section", s.Index, "scroll_index", s.ScrollIndex)
	})

	if cfg.Enabled {
		gestures.SetEnabled(true)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// Closing the bus ends websocket feeds before the server drains.
		return multierr.Combine(
			gestures.Close(),
			bus.Close(),
			srv.Shutdown(shutdownCtx),
		)
	})

	if cfg.Tray {
		runTray(gctx, stop, cfg, gestures, nav, logger)
	}

	return g.Wait()
}

// runTray shows the tray menu and blocks until Quit or ctx is done.
// systray requires the main goroutine.
func runTray(ctx context.Context, stop context.CancelFunc, cfg config.Config, gestures *app.App, nav *showcase.Navigator, logger *zap.SugaredLogger) {
	t := tray.New(gestures.IsEnabled())
	t.SetSection(nav.Current())

	t.OnToggle(func(enabled bool) {
		gestures.SetEnabled(enabled)
		if enabled && !gestures.Active() {
			logger.Warnw("gesture control unavailable", "permission", gestures.Permission())
		}
	})
	t.OnOpen(func() {
		if err := openBrowser(siteURL(cfg.Addr)); err != nil {
			logger.Warnw("opening browser failed", "error", err)
		}
	})
	t.OnQuit(stop)

	gestures.RegisterGestureCallback(func(e gesture.Event) {
		t.SetLastGesture(e.Direction)
		t.SetSection(nav.Current())
	})

	// Mirror changes made through the API.
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				t.Quit()
				return
			case <-ticker.C:
				t.SetEnabled(gestures.IsEnabled())
				t.SetSection(nav.Current())
			}
		}
	}()

	t.Run()
}

// siteURL turns a listen address into a browsable URL.
func siteURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

// findWebDir searches for the portfolio bundle in common locations.
// It checks: "web", "../web", "../../web", and ~/.folio/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".folio", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

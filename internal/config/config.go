// Package config loads folio settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"go.uber.org/zap/zapcore"

	"github.com/ayusman/folio/internal/app"
	"github.com/ayusman/folio/internal/capture"
	"github.com/ayusman/folio/internal/gesture"
	"github.com/ayusman/folio/internal/store"
)

// DefaultEnvFile is the dotenv file read by Load when present.
const DefaultEnvFile = ".env"

// Environment keys.
const (
	KeyAddr      = "FOLIO_ADDR"
	KeyCameraID  = "FOLIO_CAMERA_ID"
	KeyWidth     = "FOLIO_WIDTH"
	KeyHeight    = "FOLIO_HEIGHT"
	KeyInterval  = "FOLIO_INTERVAL"
	KeyThreshold = "FOLIO_THRESHOLD"
	KeyDebounce  = "FOLIO_DEBOUNCE"
	KeyWebDir    = "FOLIO_WEB_DIR"
	KeyEnabled   = "FOLIO_ENABLED"
	KeyOverlay   = "FOLIO_OVERLAY"
	KeyTray      = "FOLIO_TRAY"
	KeyDB        = "FOLIO_DB"
	KeyLogLevel  = "FOLIO_LOG_LEVEL"
	KeyLogFile   = "FOLIO_LOG_FILE"
	KeyOrigins   = "FOLIO_CORS_ORIGINS"
)

// Config holds runtime settings.
type Config struct {
	Addr     string
	CameraID int
	Width    int
	Height   int
	Interval time.Duration
	// Threshold is the horizontal travel in pixels that fires a swipe.
	Threshold float64
	Debounce  time.Duration
	// WebDir is the static site bundle; empty means search the usual places.
	WebDir   string
	Enabled  bool
	Overlay  bool
	Tray     bool
	DB       string
	LogLevel zapcore.Level
	// LogFile switches logging from stderr to a rotated file.
	LogFile string
	// Origins lists the browser origins allowed to call the API from
	// another host, such as a local dev server for the site bundle.
	Origins []string
}

// Default returns the settings used when no variable is set.
func Default() Config {
	return Config{
		Addr:      ":8080",
		CameraID:  0,
		Width:     capture.DefaultWidth,
		Height:    capture.DefaultHeight,
		Interval:  app.DefaultInterval,
		Threshold: gesture.DefaultThreshold,
		Debounce:  gesture.DefaultDebounce,
		Overlay:   true,
		DB:        store.MemoryDSN,
		LogLevel:  zapcore.InfoLevel,
	}
}

// Load reads envFile into the process environment, without overriding
// variables already set, and then parses the environment. A missing
// envFile is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv parses settings using lookup, starting from Default.
func FromEnv(lookup func(key string) (string, bool)) (Config, error) {
	cfg := Default()
	p := parser{lookup: lookup}

	p.str(KeyAddr, &cfg.Addr)
	p.int(KeyCameraID, &cfg.CameraID)
	p.int(KeyWidth, &cfg.Width)
	p.int(KeyHeight, &cfg.Height)
	p.duration(KeyInterval, &cfg.Interval)
	p.float(KeyThreshold, &cfg.Threshold)
	p.duration(KeyDebounce, &cfg.Debounce)
	p.str(KeyWebDir, &cfg.WebDir)
	p.bool(KeyEnabled, &cfg.Enabled)
	p.bool(KeyOverlay, &cfg.Overlay)
	p.bool(KeyTray, &cfg.Tray)
	p.str(KeyDB, &cfg.DB)
	p.str(KeyLogFile, &cfg.LogFile)
	p.list(KeyOrigins, &cfg.Origins)

	if raw, ok := p.value(KeyLogLevel); ok {
		level, err := zapcore.ParseLevel(raw)
		if err != nil {
			p.fail(KeyLogLevel, raw, err)
		} else {
			cfg.LogLevel = level
		}
	}

	if p.err != nil {
		return Config{}, p.err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%s must not be empty", KeyAddr)
	case c.CameraID < 0:
		return fmt.Errorf("%s must not be negative", KeyCameraID)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%s and %s must be positive", KeyWidth, KeyHeight)
	case c.Interval <= 0:
		return fmt.Errorf("%s must be positive", KeyInterval)
	case c.Threshold <= 0:
		return fmt.Errorf("%s must be positive", KeyThreshold)
	case c.Debounce < 0:
		return fmt.Errorf("%s must not be negative", KeyDebounce)
	}
	return nil
}

// parser records the first conversion error.
type parser struct {
	lookup func(string) (string, bool)
	err    error
}

func (p *parser) value(key string) (string, bool) {
	raw, ok := p.lookup(key)
	raw = strings.TrimSpace(raw)
	return raw, ok && raw != ""
}

func (p *parser) fail(key, raw string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
}

func (p *parser) str(key string, dst *string) {
	if raw, ok := p.value(key); ok {
		*dst = raw
	}
}

func (p *parser) int(key string, dst *int) {
	raw, ok := p.value(key)
	if !ok {
		return
	}
	v, err := cast.ToIntE(raw)
	if err != nil {
		p.fail(key, raw, err)
		return
	}
	*dst = v
}

func (p *parser) float(key string, dst *float64) {
	raw, ok := p.value(key)
	if !ok {
		return
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		p.fail(key, raw, err)
		return
	}
	*dst = v
}

func (p *parser) bool(key string, dst *bool) {
	raw, ok := p.value(key)
	if !ok {
		return
	}
	v, err := cast.ToBoolE(raw)
	if err != nil {
		p.fail(key, raw, err)
		return
	}
	*dst = v
}

// list reads a comma separated value, dropping empty entries.
func (p *parser) list(key string, dst *[]string) {
	raw, ok := p.value(key)
	if !ok {
		return
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*dst = out
}

// duration requires an explicit unit; cast would read "1000" as nanoseconds.
func (p *parser) duration(key string, dst *time.Duration) {
	raw, ok := p.value(key)
	if !ok {
		return
	}
	if !strings.ContainsAny(raw, "nsuµmh") {
		p.fail(key, raw, errors.New("missing unit"))
		return
	}
	v, err := cast.ToDurationE(raw)
	if err != nil {
		p.fail(key, raw, err)
		return
	}
	*dst = v
}

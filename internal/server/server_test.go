package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap/zaptest"

	"github.com/ayusman/folio/internal/app"
	"github.com/ayusman/folio/internal/detector"
	"github.com/ayusman/folio/internal/gesture"
)

// fakeController is a Controller with settable preview and status.
type fakeController struct {
	mu      sync.Mutex
	enabled bool
	preview []byte
}

func (c *fakeController) Status() app.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return app.Status{Enabled: c.enabled, Active: c.enabled, Permission: app.PermissionGranted}
}

func (c *fakeController) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
}

func (c *fakeController) Preview() ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preview, c.preview != nil
}

func (c *fakeController) setPreview(p []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.preview = p
}

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", ct)
		}

		var response map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response["status"] != "ok" {
			t.Errorf("expected status 'ok', got %v", response["status"])
		}
		if _, exists := response["uptime"]; !exists {
			t.Error("expected 'uptime' field in response")
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
			req := httptest.NewRequest(method, "/api/health", nil)
			rec := httptest.NewRecorder()

			s.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
			}
		}
	})
}

func TestServer_OptionalRoutes(t *testing.T) {
	// Without components only health is served.
	s := New(Config{})

	for _, path := range []string{"/api/detector", "/api/showcase", "/api/events", "/api/events/ws", "/api/preview", "/"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected status %d, got %d", path, http.StatusNotFound, rec.Code)
		}
	}
}

func TestServer_StaticFiles(t *testing.T) {
	dir := t.TempDir()

	index := "<html><body>Folio</body></html>"
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(index), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	css := "body { color: red; }"
	if err := os.WriteFile(filepath.Join(dir, "style.css"), []byte(css), 0644); err != nil {
		t.Fatalf("failed to create test CSS file: %v", err)
	}

	s := New(Config{StaticDir: dir})

	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{path: "/", wantCode: http.StatusOK, wantBody: index},
		{path: "/style.css", wantCode: http.StatusOK, wantBody: css},
		{path: "/missing.html", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()

			s.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("expected body %q, got %q", tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestServer_CORS(t *testing.T) {
	ctrl := &fakeController{}

	tests := []struct {
		name    string
		origins []string
		origin  string
		want    string
	}{
		{name: "disabled", origins: nil, origin: "http://localhost:5173", want: ""},
		{name: "allowed origin", origins: []string{"http://localhost:5173"}, origin: "http://localhost:5173", want: "http://localhost:5173"},
		{name: "other origin", origins: []string{"http://localhost:5173"}, origin: "http://evil.example", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Config{Detector: ctrl, AllowedOrigins: tt.origins})

			req := httptest.NewRequest(http.MethodGet, "/api/detector", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.want)
			}
			if rec.Code != http.StatusOK {
				t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
			}
		})
	}
}

func TestPreviewHandler(t *testing.T) {
	ctrl := &fakeController{}
	h := NewPreviewHandler(ctrl)
	h.interval = 5 * time.Millisecond

	t.Run("streams frames once available", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		// Frame appears after the stream started.
		go func() {
			time.Sleep(20 * time.Millisecond)
			ctrl.setPreview([]byte{0xFF, 0xD8, 0x01, 0xFF, 0xD9})
		}()

		req := httptest.NewRequest(http.MethodGet, "/api/preview", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "multipart/x-mixed-replace") {
			t.Errorf("Content-Type = %q", ct)
		}
		body := rec.Body.String()
		if n := strings.Count(body, "--frame"); n != 1 {
			t.Errorf("expected the unchanged frame to be sent once, got %d parts", n)
		}
		if !strings.Contains(body, "Content-Length: 5") {
			t.Errorf("missing part header in %q", body)
		}
	})

	t.Run("rejects non-GET", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/preview", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})
}

func TestEventFeed(t *testing.T) {
	bus := gesture.NewBus()
	defer bus.Close()

	s := New(Config{Bus: bus, Logger: zaptest.NewLogger(t).Sugar()})
	ts := httptest.NewServer(s)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	// Wait for the handler to subscribe before publishing.
	deadline := time.Now().Add(time.Second)
	for bus.Stats().Subscribers == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	want := gesture.NewEvent(gesture.Swipe{
		Direction: gesture.Right,
		From:      detector.Centroid{X: 100, Y: 100},
		To:        detector.Centroid{X: 172, Y: 100},
		Delta:     72,
	}, time.Now())
	bus.Publish(want)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var got gesture.Event
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if got.ID != want.ID || got.Direction != gesture.Right || got.Delta != 72 {
		t.Errorf("got event %+v, want %+v", got, want)
	}

	// Disconnecting releases the subscription.
	conn.Close()
	deadline = time.Now().Add(time.Second)
	for bus.Stats().Subscribers != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if n := bus.Stats().Subscribers; n != 0 {
		t.Errorf("expected subscription released, %d remain", n)
	}
}

func TestEventFeed_BusClosed(t *testing.T) {
	bus := gesture.NewBus()
	bus.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/events/ws", nil)
	rec := httptest.NewRecorder()
	NewEventFeed(bus, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
}

func TestServer_Shutdown(t *testing.T) {
	s := New(Config{})

	// Shutdown before serving is a no-op and keeps the server from starting.
	if err := s.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if err := s.ListenAndServe("127.0.0.1:0"); err != nil {
		t.Errorf("ListenAndServe() after Shutdown error = %v", err)
	}
}

func TestNew(t *testing.T) {
	cfg := Config{StaticDir: "/some/path"}
	s := New(cfg)

	if s.config.StaticDir != cfg.StaticDir {
		t.Errorf("expected StaticDir %s, got %s", cfg.StaticDir, s.config.StaticDir)
	}
	if s.logger == nil {
		t.Error("expected default logger")
	}

	var _ http.Handler = s
	var _ Controller = (*app.App)(nil)
}

// Package server provides the HTTP control surface for the folio portfolio.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/ayusman/folio/internal/gesture"
	"github.com/ayusman/folio/internal/server/api"
	"github.com/ayusman/folio/internal/store"
)

// Controller is the gesture control loop behind the detector and preview endpoints.
type Controller interface {
	api.Controller
	Preview() ([]byte, bool)
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Bus       *gesture.Bus
	Detector  Controller
	Showcase  api.Navigator

	// AllowedOrigins enables CORS for the API when not empty.
	AllowedOrigins []string
	Logger         *zap.SugaredLogger
}

// Server represents the HTTP server for the folio application.
type Server struct {
	config  Config
	mux     *http.ServeMux
	handler http.Handler
	start   time.Time
	logger  *zap.SugaredLogger

	// ctx is the base context of every request; Shutdown cancels it so
	// streaming handlers return.
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	http   *http.Server
	closed bool
}

// New creates a new Server with the given configuration.
// Endpoints whose backing component is nil are not registered.
func New(config Config) *Server {
	if config.Logger == nil {
		config.Logger = zap.NewNop().Sugar()
	}

	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
		logger: config.Logger,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.setupRoutes()

	s.handler = s.mux
	if len(config.AllowedOrigins) > 0 {
		s.handler = cors.New(cors.Options{
			AllowedOrigins: config.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler(s.mux)
	}
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Detector != nil {
		s.mux.Handle("/api/detector", api.NewDetectorHandler(s.config.Detector))
		s.mux.Handle("/api/preview", NewPreviewHandler(s.config.Detector))
	}

	if s.config.Showcase != nil {
		showcaseHandler := api.NewShowcaseHandler(s.config.Showcase)
		s.mux.Handle("/api/showcase", showcaseHandler)
		s.mux.Handle("/api/showcase/", showcaseHandler)
	}

	if s.config.Store != nil {
		s.mux.Handle("/api/events", api.NewEventsHandler(s.config.Store))
	}

	if s.config.Bus != nil {
		s.mux.Handle("/api/events/ws", NewEventFeed(s.config.Bus, s.logger))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).Round(time.Second).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe serves on addr until Shutdown is called.
// It returns nil after a graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return s.ctx },
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.http = srv
	s.mu.Unlock()

	s.logger.Infow("http server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown ends open preview and event streams, then gracefully stops the
// server within ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()

	s.mu.Lock()
	srv := s.http
	s.closed = true
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

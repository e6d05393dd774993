// Package server serves the live finger count over HTTP: an MJPEG stream of
// the annotated frames, the latest counts as JSON and a websocket feed.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/ayusman/fingercount/internal/fingers"
	"github.com/ayusman/fingercount/internal/server/api"
	"github.com/ayusman/fingercount/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultMaxRate caps stream and websocket updates per second per client.
const DefaultMaxRate = 15

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Hub       *Hub
	Store     *store.Store
	Log       logrus.FieldLogger
	// MaxRate limits per-client updates per second; zero means DefaultMaxRate.
	MaxRate float64
}

// Server represents the HTTP server for the live view.
type Server struct {
	config Config
	log    logrus.FieldLogger
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.Hub == nil {
		config.Hub = NewHub()
	}
	if config.MaxRate <= 0 {
		config.MaxRate = DefaultMaxRate
	}
	log := config.Log
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}

	s := &Server{
		config: config,
		log:    log.WithField("component", "server"),
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// Hub returns the frame hub feeding this server.
func (s *Server) Hub() *Hub {
	return s.config.Hub
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/counts", s.handleCounts)
	s.mux.Handle("/api/stream", NewStreamHandler(s.config.Hub, s.config.MaxRate))
	s.mux.Handle("/api/counts/ws", NewCountsHandler(s.config.Hub, s.config.MaxRate, s.log))

	if s.config.Store != nil {
		sessions := api.NewSessionHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessions)
		s.mux.Handle("/api/sessions/", sessions)
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status":      "ok",
		"uptime":      time.Since(s.start).String(),
		"subscribers": s.config.Hub.Subscribers(),
	}

	writeJSON(w, response)
}

// countsMessage is the JSON shape of a frame's counts.
type countsMessage struct {
	Seq       int64 `json:"seq"`
	Timestamp int64 `json:"timestamp"`
	fingers.FrameCount
}

func newCountsMessage(seq int64, at time.Time, fc fingers.FrameCount) countsMessage {
	if fc.Hands == nil {
		fc.Hands = []fingers.HandCount{}
	}
	var ts int64
	if !at.IsZero() {
		ts = at.UnixMilli()
	}
	return countsMessage{Seq: seq, Timestamp: ts, FrameCount: fc}
}

// handleCounts handles GET /api/counts with the latest frame's counts.
func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	f, _ := s.config.Hub.Latest()
	writeJSON(w, newCountsMessage(f.Seq, f.At, f.Count))
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("Live view listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		// Streams hold connections open; cut them.
		srv.Close()
	}
	return nil
}

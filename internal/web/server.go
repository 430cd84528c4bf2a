// Package web serves the operational HTTP surface: health, Prometheus
// metrics, debug endpoints and the browser frame viewer.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/normanking/cortexface/internal/face"
	"github.com/normanking/cortexface/internal/viewer"
)

// StatusSource yields the face snapshot for /debug/status.
type StatusSource interface {
	Current() face.Status
}

// LogSource yields recent log event lines for /debug/logs.
type LogSource interface {
	History(limit int) [][]byte
}

// NewRouter mounts every operational route. hub may be nil when the viewer
// is disabled.
func NewRouter(status StatusSource, logs LogSource, hub *viewer.Hub) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/debug/status", handleStatus(status))
	r.Get("/debug/logs", handleLogs(logs))
	if hub != nil {
		r.Get("/viewer", viewer.ServePage)
		r.Get("/ws", hub.ServeWS)
	}
	return r
}

// Server runs the router on its own listener. No write timeout is set
// because /ws hijacks its connection and outlives any sane one.
type Server struct {
	srv *http.Server
	ln  net.Listener
	log zerolog.Logger
}

func NewServer(addr string, status StatusSource, logs LogSource, hub *viewer.Hub, log zerolog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(status, logs, hub),
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		log: log.With().Str("component", "web").Logger(),
	}
}

// Start binds the address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("web listener: %w", err)
	}
	s.ln = ln

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("web server failed")
		}
	}()

	s.log.Info().Str("addr", ln.Addr().String()).Msg("web server listening")
	return nil
}

// Addr is the bound listener address; nil before Start.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("web server stopping")
	return s.srv.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func handleStatus(status StatusSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status.Current()); err != nil {
			http.Error(w, "encode failed", http.StatusInternalServerError)
		}
	}
}

func handleLogs(logs LogSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 200
		if q := r.URL.Query().Get("limit"); q != "" {
			if n, err := strconv.Atoi(q); err == nil && n > 0 {
				limit = n
			}
		}

		lines := logs.History(limit)
		entries := make([]json.RawMessage, 0, len(lines))
		for _, line := range lines {
			if json.Valid(line) {
				entries = append(entries, json.RawMessage(line))
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entries)
	}
}

package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/inletra/docsite/internal/logfields"
	"github.com/inletra/docsite/internal/metrics"
	"github.com/inletra/docsite/internal/sitecheck"
)

// StatusServer exposes the watch daemon over HTTP: health, status, the last
// check result and Prometheus metrics.
type StatusServer struct {
	addr   string
	daemon *Daemon

	mu        sync.RWMutex
	server    *http.Server
	boundAddr string
}

// NewStatusServer creates the server; Start binds the address.
func NewStatusServer(addr string, daemon *Daemon) *StatusServer {
	return &StatusServer{
		addr:   addr,
		daemon: daemon,
	}
}

// Start binds the listener first so an occupied port fails fast, then serves
// in the background.
func (s *StatusServer) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("status server %s: %w", s.addr, err)
	}

	server := &http.Server{
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.mu.Lock()
	s.server = server
	s.boundAddr = ln.Addr().String()
	s.mu.Unlock()

	go func() {
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("Status server error", logfields.Error(err))
		}
	}()

	slog.Info("Status server listening", slog.String("addr", ln.Addr().String()))
	return nil
}

// Stop drains in-flight requests and shuts the server down.
func (s *StatusServer) Stop(ctx context.Context) error {
	s.mu.RLock()
	server := s.server
	s.mu.RUnlock()

	if server == nil {
		return nil
	}
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("status server shutdown: %w", err)
	}
	return nil
}

// Addr returns the bound address, empty before Start.
func (s *StatusServer) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.boundAddr
}

func (s *StatusServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/issues", s.handleIssues)
	mux.Handle("/metrics", metrics.HTTPHandler(s.daemon.registry))
	return mux
}

// healthzResponse is the /healthz document.
type healthzResponse struct {
	Status string `json:"status"`
	Daemon Status `json:"daemon"`
	Uptime string `json:"uptime"`
}

func (s *StatusServer) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	daemonStatus := s.daemon.GetStatus()

	resp := healthzResponse{
		Daemon: daemonStatus,
		Uptime: time.Since(s.daemon.StartTime()).Round(time.Second).String(),
	}

	code := http.StatusOK
	switch daemonStatus {
	case StatusRunning:
		resp.Status = "ok"
	case StatusStarting, StatusStopping:
		resp.Status = "degraded"
	default:
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, resp)
}

func (s *StatusServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.daemon.GenerateStatusData(r.Context()))
}

// issuesResponse wraps the last check result; result is null until the first
// check job completes.
type issuesResponse struct {
	CheckedAt *time.Time            `json:"checked_at"`
	Result    *sitecheck.JSONOutput `json:"result"`
}

func (s *StatusServer) handleIssues(w http.ResponseWriter, _ *http.Request) {
	result, at := s.daemon.runner.LastCheck()

	resp := issuesResponse{}
	if result != nil {
		output := sitecheck.NewJSONOutput(result, s.daemon.runner.ContentDir())
		resp.CheckedAt = &at
		resp.Result = &output
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", logfields.Error(err))
	}
}

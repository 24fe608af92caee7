// Package server hosts the local preview of a rendered site: static files,
// the diagnostics report, and Prometheus metrics, with rebuild triggers from
// a filesystem watcher and an optional interval scheduler.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/devopslaunch/siteforge/internal/diag"
	"github.com/devopslaunch/siteforge/internal/logfields"
	"github.com/devopslaunch/siteforge/internal/metrics"
)

// RebuildFunc re-runs the full build+render pass and returns the new report.
type RebuildFunc func(ctx context.Context) (*diag.Report, error)

// Server serves the rendered output directory with live rebuilds.
type Server struct {
	addr      string
	outputDir string
	registry  *prom.Registry
	rebuild   RebuildFunc

	// rebuildMu serializes rebuild passes: the watcher and the interval
	// scheduler may fire together, and concurrent renders would race on the
	// shared staging directory.
	rebuildMu sync.Mutex

	mu     sync.RWMutex
	report *diag.Report
}

// New creates a preview server. registry may be nil to skip /metrics.
func New(addr, outputDir string, registry *prom.Registry, rebuild RebuildFunc) *Server {
	return &Server{
		addr:      addr,
		outputDir: outputDir,
		registry:  registry,
		rebuild:   rebuild,
		report:    &diag.Report{},
	}
}

// SetReport replaces the report served at /api/report.
func (s *Server) SetReport(r *diag.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = r
}

// Handler builds the HTTP routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.outputDir)))
	mux.HandleFunc("/api/report", s.handleReport)
	if s.registry != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(s.registry))
	}
	return mux
}

func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	report := s.report
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		slog.Warn("Failed to encode report", logfields.Error(err))
	}
}

// TriggerRebuild runs the rebuild callback and swaps in the fresh report.
// Rebuild failures are logged, not fatal; the previous site keeps serving.
// Overlapping triggers run one at a time.
func (s *Server) TriggerRebuild(ctx context.Context) {
	if s.rebuild == nil {
		return
	}
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	report, err := s.rebuild(ctx)
	if err != nil {
		slog.Error("Rebuild failed", logfields.Error(err))
		return
	}
	s.SetReport(report)
	slog.Info("Rebuild completed", logfields.Count(len(report.Diagnostics)))
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Preview server listening", logfields.Addr(s.addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

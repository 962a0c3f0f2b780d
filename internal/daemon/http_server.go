package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/wheelwright/internal/logfields"
)

// HTTPServer serves health, status and metrics endpoints for watch mode.
type HTTPServer struct {
	server *http.Server
}

// NewHTTPServer wires the watch-mode endpoints onto the given listen address.
func NewHTTPServer(listen string, metrics *Metrics, status func() Status) *HTTPServer {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status()); err != nil {
			slog.Warn("Failed to encode status response", logfields.Error(err))
		}
	})

	mux.Handle("/metrics", metrics.Handler())

	return &HTTPServer{
		server: &http.Server{
			Addr:              listen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start begins serving in a goroutine.
func (h *HTTPServer) Start() {
	slog.Info("Starting HTTP server", slog.String("addr", h.server.Addr))
	go func() {
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server failed", logfields.Error(err))
		}
	}()
}

// Stop shuts the server down gracefully.
func (h *HTTPServer) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := h.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	return nil
}

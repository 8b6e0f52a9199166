package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/tartampluch/go-clock/internal/config"
)

// Snapshot is the widget's current rendering in machine-readable form. The
// timestamp field mirrors the ISO-8601 stamp carried by the time display.
type Snapshot struct {
	Time      string `json:"time"`
	Date      string `json:"date"`
	Timestamp string `json:"timestamp"`
}

// TimeServer publishes the latest Snapshot as JSON on localhost, for
// tooling that cannot read widget state directly.
type TimeServer struct {
	// cache uses atomic.Pointer for lock-free reads. The snapshot is
	// replaced once per second and read by any number of clients, so
	// readers must never see a partially written payload.
	cache atomic.Pointer[[]byte]
	Port  string
}

// NewTimeServer creates a new instance of the server.
func NewTimeServer(port string) *TimeServer {
	return &TimeServer{
		Port: port,
	}
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *TimeServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteRoot, s.handleSnapshotRequest)

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      mux,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces the served snapshot.
func (s *TimeServer) Update(snap Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		// Marshalling three strings cannot fail in practice; log and keep
		// the previous snapshot rather than serve a broken one.
		slog.Error(config.ErrSnapshotEncode,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		return
	}

	s.cache.Store(&payload)

	slog.Debug(config.MsgSnapshotStored,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(payload),
		config.LogKeyStamp, snap.Timestamp,
	)
}

// handleSnapshotRequest serves the latest snapshot.
// The content changes every second, so clients are told not to cache it and
// no conditional-request handling is offered.
func (s *TimeServer) handleSnapshotRequest(w http.ResponseWriter, r *http.Request) {
	// 1. Method Validation
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	// 2. Load Data (Atomic / Lock-Free)
	item := s.cache.Load()

	// 3. Readiness Check: before the first tick there is nothing to serve.
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	// 4. Set Response Headers
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlNoStore)

	// 5. Serve Content
	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(*item)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

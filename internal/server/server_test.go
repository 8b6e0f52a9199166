package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-clock/internal/config"
)

// -----------------------------------------------------------------------------
// Unit Tests (White-Box Testing of Handler Logic)
// -----------------------------------------------------------------------------

// TestHandler_ServingSnapshot verifies that the handler writes the expected
// headers and JSON body once a snapshot has been published.
func TestHandler_ServingSnapshot(t *testing.T) {
	srv := NewTimeServer("0") // Port irrelevant for handler tests
	snap := Snapshot{
		Time:      "15:05:09",
		Date:      "2024년 1월 1일 월요일",
		Timestamp: "2024-01-01T06:05:09.000Z",
	}
	srv.Update(snap)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	srv.handleSnapshotRequest(w, req)

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeJSON, resp.Header.Get(config.HeaderContentType))
	assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
	assert.Equal(t, config.CacheControlNoStore, resp.Header.Get(config.HeaderCacheControl))

	var got Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, snap, got)
}

// TestHandler_LatestWins verifies that a reader always sees the most recent
// snapshot, never a mix of two.
func TestHandler_LatestWins(t *testing.T) {
	srv := NewTimeServer("0")
	srv.Update(Snapshot{Time: "12:00:00", Date: "old", Timestamp: "old"})
	srv.Update(Snapshot{Time: "12:00:01", Date: "new", Timestamp: "new"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	srv.handleSnapshotRequest(w, req)

	var got Snapshot
	require.NoError(t, json.NewDecoder(w.Result().Body).Decode(&got))
	assert.Equal(t, "12:00:01", got.Time)
	assert.Equal(t, "new", got.Date)
}

// TestHandler_MethodNotAllowed ensures strictly GET and HEAD are accepted.
func TestHandler_MethodNotAllowed(t *testing.T) {
	srv := NewTimeServer("0")

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	w := httptest.NewRecorder()
	srv.handleSnapshotRequest(w, req)

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(config.HeaderAllow))
}

// TestHandler_Head verifies HEAD returns headers without a body.
func TestHandler_Head(t *testing.T) {
	srv := NewTimeServer("0")
	srv.Update(Snapshot{Time: "08:00:00"})

	req := httptest.NewRequest(http.MethodHead, "/", nil)
	w := httptest.NewRecorder()
	srv.handleSnapshotRequest(w, req)

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body)
}

// TestHandler_Initializing verifies the 503 behavior before the first tick.
func TestHandler_Initializing(t *testing.T) {
	srv := NewTimeServer("0")
	// Note: We intentionally do NOT call srv.Update() here.

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	srv.handleSnapshotRequest(w, req)

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter))
}

// TestStart_PortRequired verifies startup fails without a port.
func TestStart_PortRequired(t *testing.T) {
	srv := NewTimeServer("")
	err := srv.Start(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrPortRequired)
}

// -----------------------------------------------------------------------------
// Concurrency Tests (Race Detection)
// -----------------------------------------------------------------------------

// TestSnapshot_ConcurrentAccess hammers Update and the handler from multiple
// goroutines. The clock replaces the snapshot every second while clients
// poll, so the atomic swap must hold up under the race detector.
func TestSnapshot_ConcurrentAccess(t *testing.T) {
	srv := NewTimeServer("0")
	srv.Update(Snapshot{Time: "00:00:00"})

	var wg sync.WaitGroup
	stop := time.Now().Add(50 * time.Millisecond)

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; time.Now().Before(stop); j++ {
				srv.Update(Snapshot{Time: fmt.Sprintf("%02d:00:%02d", n, j%60)})
			}
		}(i)

		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(stop) {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				w := httptest.NewRecorder()
				srv.handleSnapshotRequest(w, req)

				var got Snapshot
				require.NoError(t, json.NewDecoder(w.Result().Body).Decode(&got))
				require.NotEmpty(t, got.Time)
			}
		}()
	}

	wg.Wait()
}

// TestStart_GracefulShutdown verifies the server stops when the context is
// cancelled.
func TestStart_GracefulShutdown(t *testing.T) {
	srv := NewTimeServer("0") // ":0" binds an ephemeral port

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()

	// Give the listener a moment to come up, then cancel.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down after context cancellation")
	}
}

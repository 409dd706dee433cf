// Package testutil helps tests that run the whole server.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"
)

const (
	firstRetryDelay = 10 * time.Millisecond
	maxRetryDelay   = 500 * time.Millisecond
)

// LogWriter sends each line written to it to tb.Log, so server logs are only printed for failing or verbose tests.
type LogWriter struct {
	tb testing.TB

	mu      sync.Mutex
	pending []byte
}

// NewLogWriter returns a LogWriter for tb.
func NewLogWriter(tb testing.TB) *LogWriter {
	tb.Helper()

	return &LogWriter{tb: tb}
}

// Write logs every complete line in p and keeps a trailing partial line for the next call.
func (w *LogWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = append(w.pending, p...)
	for {
		i := bytes.IndexByte(w.pending, '\n')
		if i < 0 {
			break
		}
		w.tb.Log(string(w.pending[:i]))
		w.pending = w.pending[i+1:]
	}

	return len(p), nil
}

// WaitHealthy polls the /healthz endpoint of the server at baseURL until it reports status "ok".
// The delay between attempts doubles up to half a second. It gives up when ctx is done.
func WaitHealthy(ctx context.Context, baseURL string) error {
	delay := firstRetryDelay
	var lastErr error
	for {
		lastErr = checkHealth(ctx, baseURL+"/healthz")
		if lastErr == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("server at %s not healthy: %w (last error: %w)", baseURL, ctx.Err(), lastErr)
		case <-time.After(delay):
		}
		delay = min(2*delay, maxRetryDelay)
	}
}

func checkHealth(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("error calling %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var health struct {
		Status string `json:"status"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("error decoding health response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || health.Status != "ok" {
		return fmt.Errorf("health status %d %q", resp.StatusCode, health.Status)
	}

	return nil
}

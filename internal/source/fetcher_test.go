package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"vinfeatures/internal/config"
)

func testPolicy() *config.RetryPolicy {
	return &config.RetryPolicy{
		MaxAttempts:       3,
		InitialDelayMs:    1,
		MaxDelayMs:        5,
		BackoffMultiplier: 1.0,
		TimeoutSec:        5,
		BufferSizeKb:      64,
	}
}

func TestFetcher_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, []byte("[1HGCM82633A004352:15000]"), 0644); err != nil {
		t.Fatal(err)
	}

	f := NewFetcher(testPolicy())

	got, err := f.Fetch(context.Background(), config.SourceConfig{Name: "in", File: path})
	if err != nil {
		t.Fatalf("Fetch returned unexpected error: %v", err)
	}

	if got != "[1HGCM82633A004352:15000]" {
		t.Errorf("Fetch = %q", got)
	}

	if _, err := f.ReadLocalFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFetcher_Stdin(t *testing.T) {
	f := NewFetcher(testPolicy()).WithStdin(strings.NewReader("from stdin"))

	got, err := f.Fetch(context.Background(), config.SourceConfig{Name: "stdin", File: Stdin})
	if err != nil {
		t.Fatalf("Fetch returned unexpected error: %v", err)
	}

	if got != "from stdin" {
		t.Errorf("Fetch = %q, want %q", got, "from stdin")
	}
}

func TestFetcher_URLRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	got, err := NewFetcher(testPolicy()).FetchURL(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchURL returned unexpected error: %v", err)
	}

	if got != "payload" {
		t.Errorf("FetchURL = %q, want payload", got)
	}

	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestFetcher_URLNonRetryableStatus(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewFetcher(testPolicy()).FetchURL(context.Background(), srv.URL)
	if !errors.Is(err, ErrUnexpectedStatusCode) {
		t.Fatalf("FetchURL error = %v, want ErrUnexpectedStatusCode", err)
	}

	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestFetcher_URLCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewFetcher(testPolicy()).FetchURL(ctx, srv.URL); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestIsRetryableStatus(t *testing.T) {
	for code, want := range map[int]bool{
		http.StatusServiceUnavailable:  true,
		http.StatusTooManyRequests:     true,
		http.StatusNotFound:            false,
		http.StatusInternalServerError: false,
	} {
		if got := isRetryableStatus(code); got != want {
			t.Errorf("isRetryableStatus(%d) = %v, want %v", code, got, want)
		}
	}
}

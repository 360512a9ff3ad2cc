// Package source reads pipeline input text from local files or URLs.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"vinfeatures/internal/config"
)

// Stdin is the file name that selects standard input.
const Stdin = "-"

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// Fetcher reads input text with config-driven retry logic for remote sources.
type Fetcher struct {
	client       *http.Client
	retryPolicy  *config.RetryPolicy
	bufferSizeKb int
	stdin        io.Reader
}

// NewFetcher creates a fetcher using the given retry policy.
func NewFetcher(retryPolicy *config.RetryPolicy) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: retryPolicy.GetTimeout(),
		},
		retryPolicy:  retryPolicy,
		bufferSizeKb: retryPolicy.BufferSizeKb,
		stdin:        os.Stdin,
	}
}

// WithStdin replaces the reader used for the "-" source.
func (f *Fetcher) WithStdin(r io.Reader) *Fetcher {
	f.stdin = r

	return f
}

// Fetch returns the text of src.
func (f *Fetcher) Fetch(ctx context.Context, src config.SourceConfig) (string, error) {
	if src.File == Stdin {
		return f.readStdin()
	}

	if src.IsLocalFile() {
		return f.ReadLocalFile(src.File)
	}

	return f.FetchURL(ctx, src.URL)
}

// FetchURL downloads url, retrying transport errors and retryable statuses.
func (f *Fetcher) FetchURL(ctx context.Context, url string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= f.retryPolicy.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, f.retryPolicy.GetRetryDelay(attempt)); err != nil {
				return "", err
			}
		}

		body, retry, err := f.get(ctx, url)
		if err == nil {
			return body, nil
		}

		lastErr = fmt.Errorf("attempt %d/%d: %w", attempt, f.retryPolicy.MaxAttempts, err)

		if !retry {
			break
		}
	}

	return "", lastErr
}

func (f *Fetcher) get(ctx context.Context, url string) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "text/plain, text/html;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", ctx.Err() == nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", isRetryableStatus(resp.StatusCode), fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	limit := int64(f.bufferSizeKb) * 1024

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return "", true, fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), false, nil
}

// ReadLocalFile reads content from a local file path.
func (f *Fetcher) ReadLocalFile(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read local file %s: %w", filePath, err)
	}

	return string(content), nil
}

func (f *Fetcher) readStdin() (string, error) {
	content, err := io.ReadAll(f.stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}

	return string(content), nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusTooManyRequests,
		http.StatusRequestTimeout:
		return true
	}

	return false
}

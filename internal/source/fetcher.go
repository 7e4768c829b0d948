package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

// ErrTimeout is matched by every *TimeoutError via errors.Is.
var ErrTimeout = errors.New("upstream request timed out")

// TimeoutError reports a request that exceeded the fetcher's deadline.
type TimeoutError struct {
	URL     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("GET %s: timed out after %s", e.URL, e.Timeout)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// maxBodyBytes bounds how much of an upstream response is read.
const maxBodyBytes = 16 << 20

// Fetcher is the HTTP client shared by every adapter. Each request gets its
// own deadline; when it fires the request context is cancelled, which
// releases the underlying connection.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// NewFetcher creates a Fetcher with a per-request timeout.
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	return &Fetcher{
		client:    &http.Client{},
		timeout:   timeout,
		userAgent: userAgent,
	}
}

// GetBytes returns the body of a successful GET.
func (f *Fetcher) GetBytes(ctx context.Context, url string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json, application/geo+json, application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, f.wrap(ctx, reqCtx, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, f.wrap(ctx, reqCtx, url, err)
	}
	return body, nil
}

// GetJSON decodes a successful GET response into v.
func (f *Fetcher) GetJSON(ctx context.Context, url string, v any) error {
	body, err := f.GetBytes(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// GetFeed parses an RSS or Atom document.
func (f *Fetcher) GetFeed(ctx context.Context, url string) (*gofeed.Feed, error) {
	body, err := f.GetBytes(ctx, url)
	if err != nil {
		return nil, err
	}
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", url, err)
	}
	return feed, nil
}

// wrap converts the fetcher's own deadline into a *TimeoutError. A caller's
// cancellation is passed through unchanged.
func (f *Fetcher) wrap(parent, reqCtx context.Context, url string, err error) error {
	if parent.Err() == nil && errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{URL: url, Timeout: f.timeout}
	}
	return fmt.Errorf("GET %s: %w", url, err)
}

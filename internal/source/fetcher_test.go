package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_GetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "incident-fusion-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"ok","count":3}`))
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, "incident-fusion-test")
	var got struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	require.NoError(t, f.GetJSON(context.Background(), srv.URL, &got))
	assert.Equal(t, "ok", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestFetcher_StatusError(t *testing.T) {
	srv := serveStatus(t, http.StatusServiceUnavailable)

	_, err := NewFetcher(time.Second, "ua").GetBytes(context.Background(), srv.URL)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, srv.URL, statusErr.URL)
}

func TestFetcher_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := NewFetcher(50*time.Millisecond, "ua").GetBytes(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 50*time.Millisecond, timeoutErr.Timeout)
}

func TestFetcher_CallerCancellationIsNotTimeout(t *testing.T) {
	srv := serveJSON(t, `{}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetcher(time.Second, "ua").GetBytes(ctx, srv.URL)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrTimeout))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetcher_GetFeed_ParseError(t *testing.T) {
	srv := serve(t, "text/plain", "not a feed")

	_, err := NewFetcher(time.Second, "ua").GetFeed(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse feed")
}

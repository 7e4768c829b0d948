package mapbox

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/incident-fusion-service/internal/observability"
)

const testToken = "test-token"

func testClient(baseURL string) *Client {
	c := NewClient(testToken, 5*time.Second, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.baseURL = baseURL
	return c
}

func serveFeatures(t *testing.T, check func(*http.Request), features ...feature) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(response{Features: features}))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func outcomeCount(c *Client, outcome string) float64 {
	return testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues("forward", outcome))
}

func TestClient_ForwardGeocode_Success(t *testing.T) {
	srv := serveFeatures(t, func(r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/Kharkiv, Ukraine.json"), r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		assert.Equal(t, testToken, r.URL.Query().Get("access_token"))
		assert.Equal(t, placeTypes, r.URL.Query().Get("types"))
	}, feature{
		Center:    []float64{36.2304, 49.9935},
		PlaceName: "Kharkiv, Kharkiv Oblast, Ukraine",
		Text:      "Kharkiv",
		Relevance: 0.95,
	})

	c := testClient(srv.URL)
	result, err := c.ForwardGeocode(context.Background(), " Kharkiv ", "Ukraine")
	require.NoError(t, err)

	assert.Equal(t, 49.9935, result.Lat)
	assert.Equal(t, 36.2304, result.Lon)
	assert.Equal(t, "Kharkiv, Kharkiv Oblast, Ukraine", result.FormattedAddress)
	assert.Equal(t, "Kharkiv", result.PlaceName)
	assert.Equal(t, 0.95, result.Confidence)
	assert.InDelta(t, 1.0, outcomeCount(c, "success"), 0)
}

func TestClient_ForwardGeocode_NoRegion(t *testing.T) {
	srv := serveFeatures(t, func(r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/Burkina Faso.json"), r.URL.Path)
	}, feature{Center: []float64{-1.5616, 12.2383}, PlaceName: "Burkina Faso", Text: "Burkina Faso", Relevance: 1})

	result, err := testClient(srv.URL).ForwardGeocode(context.Background(), "Burkina Faso", "")
	require.NoError(t, err)
	assert.Equal(t, 12.2383, result.Lat)
}

func TestClient_ForwardGeocode_SkipsWeakCandidates(t *testing.T) {
	srv := serveFeatures(t, nil,
		feature{Center: []float64{10, 10}, PlaceName: "Weak Match", Text: "Weak", Relevance: 0.3},
		feature{Center: nil, PlaceName: "No Center", Text: "None", Relevance: 0.9},
		feature{Center: []float64{3.3792, 6.5244}, PlaceName: "Lagos, Nigeria", Text: "Lagos", Relevance: 0.8},
	)

	result, err := testClient(srv.URL).ForwardGeocode(context.Background(), "Lagos", "")
	require.NoError(t, err)
	assert.Equal(t, "Lagos", result.PlaceName)
	assert.Equal(t, 6.5244, result.Lat)
}

func TestClient_ForwardGeocode_NoResults(t *testing.T) {
	tests := []struct {
		name     string
		features []feature
	}{
		{"empty feature list", nil},
		{"only weak matches", []feature{{Center: []float64{1, 1}, PlaceName: "Somewhere", Relevance: 0.2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serveFeatures(t, nil, tt.features...)
			c := testClient(srv.URL)

			result, err := c.ForwardGeocode(context.Background(), "NONEXISTENT", "XX")
			require.NoError(t, err)
			assert.Empty(t, result.FormattedAddress)
			assert.Zero(t, result.Lat)
			assert.InDelta(t, 1.0, outcomeCount(c, "empty"), 0)
		})
	}
}

func TestClient_ForwardGeocode_BlankNameSkipsRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("no request expected for a blank name")
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.ForwardGeocode(context.Background(), "   ", "Ukraine")
	require.NoError(t, err)
	assert.Empty(t, result.FormattedAddress)
	assert.Zero(t, outcomeCount(c, "empty"))
}

func TestClient_ForwardGeocode_APIError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantOutcome string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"Not Authorized - Invalid Token"}`, "Not Authorized - Invalid Token", "error"},
		{"rate limited", http.StatusTooManyRequests, `{"message":"Too Many Requests"}`, "Too Many Requests", "rate_limited"},
		{"plain text body", http.StatusBadGateway, "upstream unavailable", "upstream unavailable", "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := testClient(srv.URL)
			_, err := c.ForwardGeocode(context.Background(), "Kharkiv", "Ukraine")

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.InDelta(t, 1.0, outcomeCount(c, tt.wantOutcome), 0)
		})
	}
}

func TestClient_ForwardGeocode_TransportErrorHidesToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.ForwardGeocode(context.Background(), "Kharkiv", "Ukraine")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), testToken)
	assert.Contains(t, err.Error(), `"Kharkiv, Ukraine"`)
	assert.InDelta(t, 1.0, outcomeCount(c, "error"), 0)
}

func TestNewClient(t *testing.T) {
	c := NewClient(testToken, 3*time.Second, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, defaultBaseURL, c.baseURL)
	assert.Equal(t, 3*time.Second, c.httpClient.Timeout)
}

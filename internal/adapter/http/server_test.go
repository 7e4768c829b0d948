package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/incident-fusion-service/internal/adapter/http"
	"github.com/couchcryptid/incident-fusion-service/internal/domain"
	"github.com/couchcryptid/incident-fusion-service/internal/observability"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockLister struct {
	incidents []domain.Incident
	err       error
}

func (m *mockLister) ListIncidents(context.Context) ([]domain.Incident, error) {
	return m.incidents, m.err
}

type mockHealth struct {
	report domain.HealthReport
}

func (m *mockHealth) Health() domain.HealthReport { return m.report }

var checked = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestServer(readyErr error, lister *mockLister, health *mockHealth) *httpadapter.Server {
	return newInstrumentedServer(observability.NewMetricsForTesting(), readyErr, lister, health)
}

func newInstrumentedServer(metrics *observability.Metrics, readyErr error, lister *mockLister, health *mockHealth) *httpadapter.Server {
	if lister == nil {
		lister = &mockLister{}
	}
	if health == nil {
		health = &mockHealth{report: domain.HealthReport{}}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, lister, health, metrics, logger)
}

func get(t *testing.T, srv *httpadapter.Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(t, newTestServer(nil, nil, nil), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(t, newTestServer(nil, nil, nil), "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(t, newTestServer(fmt.Errorf("pipeline has not completed an ingestion cycle yet"), nil, nil), "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "pipeline has not completed an ingestion cycle yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(nil, nil, nil), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestIncidentsEndpoint(t *testing.T) {
	lister := &mockLister{incidents: []domain.Incident{
		{
			ID:            "aircraft-ae1234-7700",
			Title:         "Emergency squawk",
			Description:   "General emergency",
			Type:          domain.TypeEmergency,
			Severity:      domain.SeverityCritical,
			Location:      domain.At(51.47, -0.45),
			LocationName:  "Emergency - ICAO: ae1234",
			Timestamp:     time.Date(2026, 3, 10, 11, 0, 0, 0, time.FixedZone("CET", 3600)),
			Source:        "OpenSky Network",
			LivestreamURL: "https://globe.adsbexchange.com/?icao=ae1234",
			Retention:     domain.RetainStandard,
		},
		{
			ID:           "tech-0123456789abcdef",
			Title:        "Chip shortage eases",
			Type:         domain.TypeOther,
			Severity:     domain.SeverityLow,
			LocationName: "Global",
			Timestamp:    checked.Add(-time.Hour),
			Source:       "Ars Technica",
		},
	}}

	rec := get(t, newTestServer(nil, lister, nil), "/api/incidents")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"success": true,
		"count": 2,
		"incidents": [
			{
				"id": "aircraft-ae1234-7700",
				"title": "Emergency squawk",
				"description": "General emergency",
				"type": "emergency",
				"severity": "critical",
				"location": {"lat": 51.47, "lon": -0.45},
				"locationName": "Emergency - ICAO: ae1234",
				"timestamp": "2026-03-10T10:00:00Z",
				"source": "OpenSky Network",
				"livestreamUrl": "https://globe.adsbexchange.com/?icao=ae1234"
			},
			{
				"id": "tech-0123456789abcdef",
				"title": "Chip shortage eases",
				"description": "",
				"type": "other",
				"severity": "low",
				"location": null,
				"locationName": "Global",
				"timestamp": "2026-03-10T11:00:00Z",
				"source": "Ars Technica",
				"livestreamUrl": ""
			}
		]
	}`, rec.Body.String())
}

func TestIncidentsEndpoint_Empty(t *testing.T) {
	rec := get(t, newTestServer(nil, &mockLister{incidents: []domain.Incident{}}, nil), "/api/incidents")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"count":0,"incidents":[]}`, rec.Body.String())
}

func TestIncidentsEndpoint_StoreError(t *testing.T) {
	rec := get(t, newTestServer(nil, &mockLister{err: errors.New("connection refused")}, nil), "/api/incidents")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"failed to load incidents"}`, rec.Body.String())
}

func TestHealthEndpoint(t *testing.T) {
	health := &mockHealth{report: domain.HealthReport{
		"USGS Earthquakes": {Status: domain.StatusOperational, LastCheck: checked},
		"NOAA Weather":     {Status: domain.StatusDown, LastCheck: checked, Error: "noaa: status 503"},
		"News Feeds":       {Status: domain.StatusDegraded, LastCheck: checked, Error: "2 of 9 feeds failed"},
	}}

	rec := get(t, newTestServer(nil, nil, health), "/api/health")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"success": true,
		"overallStatus": "partial",
		"sources": [
			{"name": "NOAA Weather", "status": "down", "lastCheck": "2026-03-10T12:00:00Z", "error": "noaa: status 503"},
			{"name": "News Feeds", "status": "degraded", "lastCheck": "2026-03-10T12:00:00Z", "error": "2 of 9 feeds failed"},
			{"name": "USGS Earthquakes", "status": "operational", "lastCheck": "2026-03-10T12:00:00Z", "error": null}
		],
		"summary": {"total": 3, "operational": 1, "degraded": 1, "down": 1}
	}`, rec.Body.String())
}

func TestHealthEndpoint_BeforeFirstCycle(t *testing.T) {
	rec := get(t, newTestServer(nil, nil, nil), "/api/health")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"success": true,
		"overallStatus": "operational",
		"sources": [],
		"summary": {"total": 0, "operational": 0, "degraded": 0, "down": 0}
	}`, rec.Body.String())
}

func TestUnknownMethodRejected(t *testing.T) {
	srv := newTestServer(nil, nil, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/incidents", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAPIRoutesSendCORSHeaders(t *testing.T) {
	srv := newTestServer(nil, nil, nil)

	t.Run("GET carries allow-origin", func(t *testing.T) {
		rec := get(t, srv, "/api/health")
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight answered without body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/incidents", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
		assert.Empty(t, rec.Body.String())
	})

	t.Run("probes are not CORS-enabled", func(t *testing.T) {
		rec := get(t, srv, "/healthz")
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestAPIRequestsAreCounted(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	srv := newInstrumentedServer(metrics, nil, &mockLister{err: errors.New("connection refused")}, nil)

	get(t, srv, "/api/incidents")
	get(t, srv, "/api/health")
	get(t, srv, "/api/health")
	get(t, srv, "/healthz")

	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("/api/incidents", "500")), 0)
	assert.InDelta(t, 2.0, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("/api/health", "200")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.HTTPRequests), "probes are not instrumented")
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "incident_fusion"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion pipeline.
type Metrics struct {
	CyclesTotal     prometheus.Counter
	CycleDuration   prometheus.Histogram
	PipelineRunning prometheus.Gauge

	// Per-source fetch metrics.
	SourceFetchDuration *prometheus.HistogramVec // labels: source
	SourceIncidents     *prometheus.GaugeVec     // labels: source
	SourceUp            *prometheus.GaugeVec     // labels: source; 1 operational, 0.5 degraded, 0 down

	// Incident flow.
	IncidentsFetched   prometheus.Counter
	DuplicatesDropped  prometheus.Counter
	IncidentsRejected  *prometheus.CounterVec // labels: reason={future,expired}
	IncidentsPersisted prometheus.Counter
	PersistErrors      prometheus.Counter
	RowsPurged         prometheus.Counter
	PublishErrors      prometheus.Counter

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec   // labels: method=forward, outcome={success,empty,error,rate_limited}
	GeocodeCache       *prometheus.CounterVec   // labels: method=forward, result={hit,miss}
	GeocodeAPIDuration *prometheus.HistogramVec // labels: method
	GeocodeEnabled     prometheus.Gauge

	// HTTP API.
	HTTPRequests *prometheus.CounterVec   // labels: route, code
	HTTPDuration *prometheus.HistogramVec // labels: route
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Total completed ingestion cycles.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a complete fetch-dedupe-persist cycle.",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 60, 120, 300},
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the ingestion scheduler is active, 0 when shut down.",
		}),
		SourceFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_fetch_duration_seconds",
			Help:      "Time spent fetching one source.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"source"}),
		SourceIncidents: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_incidents",
			Help:      "Incidents returned by a source in the last cycle.",
		}, []string{"source"}),
		SourceUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_up",
			Help:      "Source status in the last cycle: 1 operational, 0.5 degraded, 0 down.",
		}, []string{"source"}),
		IncidentsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incidents_fetched_total",
			Help:      "Total incidents returned by all sources.",
		}),
		DuplicatesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incidents_duplicates_total",
			Help:      "Total incidents dropped as near-duplicates.",
		}),
		IncidentsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incidents_rejected_total",
			Help:      "Total incidents rejected before persistence, by reason.",
		}, []string{"reason"}),
		IncidentsPersisted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incidents_persisted_total",
			Help:      "Total incident rows upserted.",
		}),
		PersistErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_errors_total",
			Help:      "Total failed incident upserts.",
		}),
		RowsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_purged_total",
			Help:      "Total rows deleted by retention purges and source replacement.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Total failed Kafka incident publishes.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by method and outcome.",
		}, []string{"method", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by method and result.",
		}, []string{"method", "result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method"}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when Mapbox geocoding fallback is enabled, 0 otherwise.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by route pattern and status code.",
		}, []string{"route", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request duration in seconds by route pattern.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route"}),
	}

	prometheus.MustRegister(
		m.CyclesTotal,
		m.CycleDuration,
		m.PipelineRunning,
		m.SourceFetchDuration,
		m.SourceIncidents,
		m.SourceUp,
		m.IncidentsFetched,
		m.DuplicatesDropped,
		m.IncidentsRejected,
		m.IncidentsPersisted,
		m.PersistErrors,
		m.RowsPurged,
		m.PublishErrors,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
		m.HTTPRequests,
		m.HTTPDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		CyclesTotal:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "cycles_total"}),
		CycleDuration:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "cycle_duration_seconds"}),
		PipelineRunning:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "pipeline_running"}),
		SourceFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "source_fetch_duration_seconds"}, []string{"source"}),
		SourceIncidents:     prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: "source_incidents"}, []string{"source"}),
		SourceUp:            prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: "source_up"}, []string{"source"}),
		IncidentsFetched:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "incidents_fetched_total"}),
		DuplicatesDropped:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "incidents_duplicates_total"}),
		IncidentsRejected:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "incidents_rejected_total"}, []string{"reason"}),
		IncidentsPersisted:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "incidents_persisted_total"}),
		PersistErrors:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "persist_errors_total"}),
		RowsPurged:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "rows_purged_total"}),
		PublishErrors:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "publish_errors_total"}),
		GeocodeRequests:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "geocode_requests_total"}, []string{"method", "outcome"}),
		GeocodeCache:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "geocode_cache_total"}, []string{"method", "result"}),
		GeocodeAPIDuration:  prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "geocode_api_duration_seconds"}, []string{"method"}),
		GeocodeEnabled:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "geocode_enabled"}),
		HTTPRequests:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total"}, []string{"route", "code"}),
		HTTPDuration:        prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds"}, []string{"route"}),
	}
}

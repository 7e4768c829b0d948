package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/lib/pq"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
	"github.com/couchcryptid/incident-fusion-service/internal/observability"
)

// Store persists incidents between cycles.
type Store interface {
	Upsert(ctx context.Context, inc domain.Incident) error
	// Purge deletes, per retention class, the rows older than that class's cutoff.
	Purge(ctx context.Context, cutoffs map[domain.RetentionClass]time.Time) (int64, error)
	DeleteSource(ctx context.Context, source string) (int64, error)
}

// Publisher forwards a cycle's surviving incidents downstream.
type Publisher interface {
	Publish(ctx context.Context, cycleID string, incidents []domain.Incident) error
}

// HealthStore mirrors the latest health report outside the process.
type HealthStore interface {
	Save(ctx context.Context, report domain.HealthReport) error
	Load(ctx context.Context) (domain.HealthReport, error)
}

// CycleReport summarizes one ingestion cycle.
type CycleReport struct {
	CycleID    string
	Fetched    int
	Duplicates int
	Future     int
	Expired    int
	Persisted  int
	Failed     int
	Purged     int64
	Health     domain.HealthReport
}

// Pipeline runs the fetch-dedupe-persist cycle on a fixed interval.
type Pipeline struct {
	orchestrator *Orchestrator
	store        Store
	publisher    Publisher
	healthStore  HealthStore
	logger       *slog.Logger
	metrics      *observability.Metrics
	clock        clockwork.Clock
	interval     time.Duration

	ready  atomic.Bool
	health atomic.Pointer[domain.HealthReport]
}

// Option configures optional Pipeline collaborators.
type Option func(*Pipeline)

// WithPublisher publishes every cycle's incidents through pub.
func WithPublisher(pub Publisher) Option {
	return func(p *Pipeline) {
		if pub != nil {
			p.publisher = pub
		}
	}
}

// WithHealthStore mirrors every cycle's health report to hs.
func WithHealthStore(hs HealthStore) Option {
	return func(p *Pipeline) {
		if hs != nil {
			p.healthStore = hs
		}
	}
}

// WithClock replaces the scheduler's clock.
func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.clock = c
		}
	}
}

// New creates a Pipeline that triggers a cycle every interval.
func New(o *Orchestrator, store Store, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		orchestrator: o,
		store:        store,
		logger:       logger,
		metrics:      metrics,
		clock:        clockwork.NewRealClock(),
		interval:     interval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once the first cycle has completed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed an ingestion cycle yet")
	}
	return nil
}

// Health returns the latest source health report. It is empty before the
// first cycle unless Restore found a mirrored report.
func (p *Pipeline) Health() domain.HealthReport {
	if r := p.health.Load(); r != nil {
		return *r
	}
	return domain.HealthReport{}
}

// Restore primes the health report from the mirror.
func (p *Pipeline) Restore(ctx context.Context) error {
	if p.healthStore == nil {
		return nil
	}
	report, err := p.healthStore.Load(ctx)
	if err != nil {
		return err
	}
	if len(report) > 0 && p.health.Load() == nil {
		p.health.Store(&report)
	}
	return nil
}

// Run executes a cycle immediately and then once per interval until the
// context is cancelled. Cycles run on the calling goroutine and never overlap.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "interval", p.interval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		}
		p.RunCycle(ctx)

		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
		}
	}
}

// RunCycle fetches every source, filters the merged list and writes the
// survivors. Row-level failures are logged and skipped.
func (p *Pipeline) RunCycle(ctx context.Context) CycleReport {
	start := time.Now()
	report := CycleReport{CycleID: uuid.NewString()}
	logger := p.logger.With("cycle_id", report.CycleID)

	fetched := p.orchestrator.Run(ctx)
	report.Fetched = len(fetched.Incidents)
	report.Health = fetched.Health
	p.metrics.IncidentsFetched.Add(float64(report.Fetched))

	incidents := domain.Dedupe(fetched.Incidents)
	report.Duplicates = report.Fetched - len(incidents)
	p.metrics.DuplicatesDropped.Add(float64(report.Duplicates))

	policy := domain.NewRetentionPolicy()
	incidents, report.Future = policy.RejectFuture(incidents)
	incidents, report.Expired = policy.Filter(incidents)
	p.metrics.IncidentsRejected.WithLabelValues("future").Add(float64(report.Future))
	p.metrics.IncidentsRejected.WithLabelValues("expired").Add(float64(report.Expired))
	if report.Future > 0 {
		logger.Warn("rejected future-dated incidents", "count", report.Future)
	}

	p.persist(ctx, logger, policy, fetched.Replaced, incidents, &report)

	if p.publisher != nil && len(incidents) > 0 {
		if err := p.publisher.Publish(ctx, report.CycleID, incidents); err != nil {
			logger.Error("publish incidents failed", "error", err, "count", len(incidents))
			p.metrics.PublishErrors.Inc()
		}
	}

	p.health.Store(&fetched.Health)
	if p.healthStore != nil {
		if err := p.healthStore.Save(ctx, fetched.Health); err != nil {
			logger.Warn("mirror source health failed", "error", err)
		}
	}
	p.ready.Store(true)

	p.metrics.CyclesTotal.Inc()
	p.metrics.CycleDuration.Observe(time.Since(start).Seconds())
	logger.Info("ingestion cycle complete",
		"fetched", report.Fetched,
		"duplicates", report.Duplicates,
		"future", report.Future,
		"expired", report.Expired,
		"persisted", report.Persisted,
		"failed", report.Failed,
		"purged", report.Purged,
		"overall_status", fetched.Health.OverallStatus(),
		"duration", time.Since(start),
	)
	return report
}

// persist purges expired rows, clears replaced sources and upserts the
// incidents. No single failure aborts the remaining writes.
func (p *Pipeline) persist(ctx context.Context, logger *slog.Logger, policy domain.RetentionPolicy, replaced []string, incidents []domain.Incident, report *CycleReport) {
	purged, err := p.store.Purge(ctx, policy.Cutoffs())
	if err != nil {
		logger.Error("purge expired incidents failed", "error", err)
		p.metrics.PersistErrors.Inc()
	}
	report.Purged += purged

	for _, label := range replaced {
		n, err := p.store.DeleteSource(ctx, label)
		if err != nil {
			logger.Error("clear replaced source failed", "source", label, "error", err)
			p.metrics.PersistErrors.Inc()
			continue
		}
		report.Purged += n
	}
	p.metrics.RowsPurged.Add(float64(report.Purged))

	for _, inc := range incidents {
		if err := p.store.Upsert(ctx, inc); err != nil {
			attrs := []any{
				"error", err,
				"incident_id", inc.ID,
				"source", inc.Source,
				"title", inc.Title,
			}
			var pqErr *pq.Error
			if errors.As(err, &pqErr) {
				attrs = append(attrs, "pq_code", string(pqErr.Code))
			}
			logger.Error("upsert incident failed", attrs...)
			p.metrics.PersistErrors.Inc()
			report.Failed++
			continue
		}
		report.Persisted++
	}
	p.metrics.IncidentsPersisted.Add(float64(report.Persisted))
}

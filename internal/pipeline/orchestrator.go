package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
	"github.com/couchcryptid/incident-fusion-service/internal/observability"
)

// Source fetches the current incidents from one upstream.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.Incident, error)
}

// Replacer is implemented by sources whose every fetch supersedes all rows
// previously stored under ReplacesSource.
type Replacer interface {
	ReplacesSource() string
}

// FetchResult is the merged outcome of one fan-out over all sources.
type FetchResult struct {
	Incidents []domain.Incident
	Health    domain.HealthReport
	// Replaced holds the stored source labels to clear before upserting.
	// Only sources that fetched successfully contribute.
	Replaced []string
}

// Orchestrator runs every source concurrently and joins their results.
type Orchestrator struct {
	sources []Source
	timeout time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewOrchestrator creates an Orchestrator that bounds each source by timeout.
func NewOrchestrator(sources []Source, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Orchestrator {
	return &Orchestrator{
		sources: sources,
		timeout: timeout,
		logger:  logger,
		metrics: metrics,
	}
}

type outcome struct {
	incidents []domain.Incident
	err       error
	elapsed   time.Duration
}

// Run fetches every source once. A failing source never affects the others;
// its failure is reported only through the health map.
func (o *Orchestrator) Run(ctx context.Context) FetchResult {
	outcomes := make([]outcome, len(o.sources))

	var wg sync.WaitGroup
	for i, src := range o.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			outcomes[i] = o.fetch(ctx, src)
		}(i, src)
	}
	wg.Wait()

	checked := domain.Now()
	result := FetchResult{Health: make(domain.HealthReport, len(o.sources))}
	for i, src := range o.sources {
		out := outcomes[i]
		name := src.Name()
		health := domain.SourceHealth{Status: domain.StatusOperational, LastCheck: checked}

		var partial *domain.PartialFetchError
		switch {
		case out.err == nil:
			result.Incidents = append(result.Incidents, out.incidents...)
			if r, ok := src.(Replacer); ok {
				result.Replaced = append(result.Replaced, r.ReplacesSource())
			}
		case errors.As(out.err, &partial):
			health.Status = domain.StatusDegraded
			health.Error = out.err.Error()
			result.Incidents = append(result.Incidents, out.incidents...)
			o.logger.Warn("source degraded", "source", name, "error", out.err)
		default:
			health.Status = domain.StatusDown
			health.Error = out.err.Error()
			out.incidents = nil
			o.logger.Error("source fetch failed", "source", name, "error", out.err)
		}
		result.Health[name] = health
		o.record(name, health.Status, len(out.incidents), out.elapsed)
	}
	return result
}

// fetch runs one source under its own deadline and turns a panic into an error.
func (o *Orchestrator) fetch(ctx context.Context, src Source) (out outcome) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		out.elapsed = time.Since(start)
		if r := recover(); r != nil {
			out = outcome{err: fmt.Errorf("panic: %v", r), elapsed: time.Since(start)}
		}
	}()

	out.incidents, out.err = src.Fetch(ctx)
	return out
}

func (o *Orchestrator) record(name string, status domain.SourceStatus, count int, elapsed time.Duration) {
	o.metrics.SourceFetchDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	o.metrics.SourceIncidents.WithLabelValues(name).Set(float64(count))

	up := 0.0
	switch status {
	case domain.StatusOperational:
		up = 1
	case domain.StatusDegraded:
		up = 0.5
	}
	o.metrics.SourceUp.WithLabelValues(name).Set(up)
}

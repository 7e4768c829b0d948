package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
	"github.com/couchcryptid/incident-fusion-service/internal/observability"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// --- fakes ---

type fakeSource struct {
	name      string
	incidents []domain.Incident
	err       error
	panicMsg  string
	block     bool
	fetched   chan struct{}
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(ctx context.Context) ([]domain.Incident, error) {
	if f.fetched != nil {
		f.fetched <- struct{}{}
	}
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.incidents, f.err
}

type replacingSource struct {
	*fakeSource
	label string
}

func (r replacingSource) ReplacesSource() string { return r.label }

type fakeStore struct {
	mu       sync.Mutex
	rows     map[string]domain.Incident
	upserts  int
	failIDs  map[string]error
	purgeErr error
	cutoffs  map[domain.RetentionClass]time.Time
	deleted  []string
	ops      []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[string]domain.Incident{}, failIDs: map[string]error{}}
}

func (s *fakeStore) Upsert(_ context.Context, inc domain.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, "upsert")
	if err := s.failIDs[inc.ID]; err != nil {
		return err
	}
	s.upserts++
	s.rows[inc.ID] = inc
	return nil
}

func (s *fakeStore) Purge(_ context.Context, cutoffs map[domain.RetentionClass]time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, "purge")
	s.cutoffs = cutoffs
	if s.purgeErr != nil {
		return 0, s.purgeErr
	}
	var n int64
	for id, inc := range s.rows {
		if cutoff, ok := cutoffs[inc.Retention]; ok && inc.Timestamp.Before(cutoff) {
			delete(s.rows, id)
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) DeleteSource(_ context.Context, source string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, "delete")
	s.deleted = append(s.deleted, source)
	var n int64
	for id, inc := range s.rows {
		if inc.Source == source {
			delete(s.rows, id)
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

type fakePublisher struct {
	cycleID   string
	published []domain.Incident
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, cycleID string, incidents []domain.Incident) error {
	f.cycleID = cycleID
	f.published = append(f.published, incidents...)
	return f.err
}

type fakeHealthStore struct {
	saved   domain.HealthReport
	stored  domain.HealthReport
	saveErr error
	loadErr error
}

func (f *fakeHealthStore) Save(_ context.Context, r domain.HealthReport) error {
	f.saved = r
	return f.saveErr
}

func (f *fakeHealthStore) Load(context.Context) (domain.HealthReport, error) {
	return f.stored, f.loadErr
}

// --- helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

func fixClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(testNow))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func incident(id, title string, lat, lon float64, age time.Duration) domain.Incident {
	return domain.Incident{
		ID:        id,
		Title:     title,
		Type:      domain.TypeWeather,
		Severity:  domain.SeverityMedium,
		Location:  domain.At(lat, lon),
		Timestamp: testNow.Add(-age),
		Source:    "Test",
	}
}

var errUpstream = errors.New("upstream returned 503")

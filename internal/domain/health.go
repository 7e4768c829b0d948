package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// SourceStatus is the outcome of a source's most recent fetch.
type SourceStatus string

const (
	StatusOperational SourceStatus = "operational"
	StatusDegraded    SourceStatus = "degraded"
	StatusDown        SourceStatus = "down"
)

// SourceHealth records the last fetch outcome for one source.
type SourceHealth struct {
	Status    SourceStatus `json:"status"`
	LastCheck time.Time    `json:"lastCheck"`
	Error     string       `json:"error,omitempty"`
}

// HealthReport maps source names to their latest health.
type HealthReport map[string]SourceHealth

// Overall statuses reported across all sources.
const (
	OverallOperational = "operational"
	OverallPartial     = "partial"
	OverallDegraded    = "degraded"
)

// HealthSummary counts sources per status.
type HealthSummary struct {
	Total       int `json:"total"`
	Operational int `json:"operational"`
	Degraded    int `json:"degraded"`
	Down        int `json:"down"`
}

// Summary tallies the report by status.
func (r HealthReport) Summary() HealthSummary {
	s := HealthSummary{Total: len(r)}
	for _, h := range r {
		switch h.Status {
		case StatusOperational:
			s.Operational++
		case StatusDegraded:
			s.Degraded++
		case StatusDown:
			s.Down++
		}
	}
	return s
}

// OverallStatus is operational with no sources down, partial with one to
// three down, and degraded beyond that.
func (r HealthReport) OverallStatus() string {
	down := r.Summary().Down
	switch {
	case down == 0:
		return OverallOperational
	case down <= 3:
		return OverallPartial
	default:
		return OverallDegraded
	}
}

// Names returns the source names in sorted order.
func (r HealthReport) Names() []string {
	names := make([]string, 0, len(r))
	for n := range r {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// PartialFetchError reports that a multi-feed source lost some, but not
// all, of its feeds. The incidents it returned alongside are still valid.
type PartialFetchError struct {
	Failed int
	Total  int
	Err    error
}

func (e *PartialFetchError) Error() string {
	return fmt.Sprintf("%d of %d feeds failed: %v", e.Failed, e.Total, e.Err)
}

func (e *PartialFetchError) Unwrap() error { return e.Err }

// FeedErrors folds per-feed failures into the error a multi-feed source
// returns: nil when every feed succeeded, a joined error when all failed,
// and a *PartialFetchError otherwise.
func FeedErrors(total int, errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	joined := errors.Join(errs...)
	if len(errs) >= total {
		return fmt.Errorf("all %d feeds failed: %w", total, joined)
	}
	return &PartialFetchError{Failed: len(errs), Total: total, Err: joined}
}

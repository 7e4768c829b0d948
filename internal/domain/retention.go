package domain

import "time"

// RetentionClass selects how long an incident stays in the store.
type RetentionClass string

const (
	RetainStandard  RetentionClass = "standard"
	RetainExtended  RetentionClass = "extended"
	RetainStrategic RetentionClass = "strategic"
	RetainStanding  RetentionClass = "standing"
)

// RetentionClasses lists every class, in purge order.
var RetentionClasses = []RetentionClass{RetainStandard, RetainExtended, RetainStrategic, RetainStanding}

// Window is the maximum age of an incident in class c.
func (c RetentionClass) Window() time.Duration {
	switch c {
	case RetainExtended:
		return 48 * time.Hour
	case RetainStrategic, RetainStanding:
		return 7 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// RetentionClassOf returns the incident's explicit class, or derives one
// from its type.
func RetentionClassOf(inc Incident) RetentionClass {
	switch inc.Retention {
	case RetainStandard, RetainExtended, RetainStrategic, RetainStanding:
		return inc.Retention
	}
	switch inc.Type {
	case TypePolitical, TypeBusiness:
		return RetainStrategic
	}
	return RetainStandard
}

// RetentionPolicy applies the time-window rules relative to Now.
type RetentionPolicy struct {
	Now time.Time
}

// NewRetentionPolicy returns a policy anchored at the ingestion clock.
func NewRetentionPolicy() RetentionPolicy {
	return RetentionPolicy{Now: Now()}
}

// Keep reports whether inc is young enough to be written. Standing
// incidents bypass the ingest filter and age out only through Cutoffs.
func (p RetentionPolicy) Keep(inc Incident) bool {
	class := RetentionClassOf(inc)
	if class == RetainStanding {
		return true
	}
	return !inc.Timestamp.Before(p.Now.Add(-class.Window()))
}

// Filter returns the incidents Keep accepts, with their retention class
// resolved, and the number dropped.
func (p RetentionPolicy) Filter(incidents []Incident) ([]Incident, int) {
	kept := make([]Incident, 0, len(incidents))
	for _, inc := range incidents {
		inc.Retention = RetentionClassOf(inc)
		if p.Keep(inc) {
			kept = append(kept, inc)
		}
	}
	return kept, len(incidents) - len(kept)
}

// RejectFuture drops incidents timestamped after Now and returns how many
// were rejected.
func (p RetentionPolicy) RejectFuture(incidents []Incident) ([]Incident, int) {
	kept := make([]Incident, 0, len(incidents))
	for _, inc := range incidents {
		if inc.Timestamp.After(p.Now) {
			continue
		}
		kept = append(kept, inc)
	}
	return kept, len(incidents) - len(kept)
}

// Cutoffs returns, for every class, the timestamp before which stored rows
// of that class are purged.
func (p RetentionPolicy) Cutoffs() map[RetentionClass]time.Time {
	out := make(map[RetentionClass]time.Time, len(RetentionClasses))
	for _, c := range RetentionClasses {
		out[c] = p.Now.Add(-c.Window())
	}
	return out
}

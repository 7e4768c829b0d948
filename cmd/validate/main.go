// Command validate checks a snapshot of the incident API against the
// service's data invariants: field limits, closed enums, coordinate ranges,
// id uniqueness, ordering, and health summary arithmetic.
//
// Usage:
//
//	curl -s localhost:8080/api/incidents > incidents.json
//	curl -s localhost:8080/api/health > health.json
//	go run ./cmd/validate -incidents incidents.json -health health.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

// futureSkew tolerates clock drift between the service and the validator.
const futureSkew = 5 * time.Minute

type apiIncident struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Type          string        `json:"type"`
	Severity      string        `json:"severity"`
	Location      *domain.Point `json:"location"`
	LocationName  string        `json:"locationName"`
	Timestamp     string        `json:"timestamp"`
	Source        string        `json:"source"`
	LivestreamURL string        `json:"livestreamUrl"`
}

type incidentsDoc struct {
	Success   bool          `json:"success"`
	Count     int           `json:"count"`
	Incidents []apiIncident `json:"incidents"`
}

type sourceHealth struct {
	Name      string  `json:"name"`
	Status    string  `json:"status"`
	LastCheck string  `json:"lastCheck"`
	Error     *string `json:"error"`
}

type healthDoc struct {
	Success       bool                 `json:"success"`
	OverallStatus string               `json:"overallStatus"`
	Sources       []sourceHealth       `json:"sources"`
	Summary       domain.HealthSummary `json:"summary"`
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	incidentsPath := flag.String("incidents", "", "path to a saved /api/incidents response")
	healthPath := flag.String("health", "", "path to a saved /api/health response (optional)")
	nowFlag := flag.String("now", "", "reference time for the future-timestamp check (RFC3339, default: current time)")
	flag.Parse()

	if *incidentsPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	now := time.Now().UTC()
	if *nowFlag != "" {
		t, err := time.Parse(time.RFC3339, *nowFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: invalid -now: %v\n", err)
			os.Exit(1)
		}
		now = t
	}

	if code := run(*incidentsPath, *healthPath, now); code != 0 {
		os.Exit(code)
	}
}

func run(incidentsPath, healthPath string, now time.Time) int {
	fmt.Println("=== Incident Snapshot Validation ===")
	fmt.Println()

	var incidents incidentsDoc
	if err := loadJSON(incidentsPath, &incidents); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load incidents JSON: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateEnvelope(incidents),
		validateFields(incidents.Incidents, now),
		validateIdentity(incidents.Incidents),
		validateOrdering(incidents.Incidents),
	}

	if healthPath != "" {
		var health healthDoc
		if err := loadJSON(healthPath, &health); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load health JSON: %v\n", err)
			return 1
		}
		phases = append(phases, validateHealth(health))
	}

	if n := countNearDuplicates(incidents.Incidents); n > 0 {
		fmt.Printf("  Note: %d near-duplicate pair(s) stored across cycles\n", n)
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d incidents\n", len(incidents.Incidents))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// ── Phase 1: Envelope ──

func validateEnvelope(doc incidentsDoc) *phase {
	p := &phase{name: "Phase 1: Response Envelope"}
	if !doc.Success {
		p.errorf("success is false")
	}
	if doc.Count != len(doc.Incidents) {
		p.errorf("count %d does not match %d incidents", doc.Count, len(doc.Incidents))
	}
	return p
}

// ── Phase 2: Field Invariants ──

func validateFields(incidents []apiIncident, now time.Time) *phase {
	p := &phase{name: "Phase 2: Field Invariants"}

	for i, inc := range incidents {
		ref := fmt.Sprintf("incident %d (%s)", i, inc.ID)

		if strings.TrimSpace(inc.Title) == "" {
			p.errorf("%s: empty title", ref)
		}
		if n := utf8.RuneCountInString(inc.Title); n > domain.MaxTitleLen {
			p.errorf("%s: title has %d runes, limit %d", ref, n, domain.MaxTitleLen)
		}
		if n := utf8.RuneCountInString(inc.Description); n > domain.MaxDescriptionLen {
			p.errorf("%s: description has %d runes, limit %d", ref, n, domain.MaxDescriptionLen)
		}
		if !domain.IncidentType(inc.Type).Valid() {
			p.errorf("%s: invalid type %q", ref, inc.Type)
		}
		if !domain.Severity(inc.Severity).Valid() {
			p.errorf("%s: invalid severity %q", ref, inc.Severity)
		}
		if inc.Source == "" {
			p.errorf("%s: missing source", ref)
		}
		if inc.Location != nil {
			if inc.Location.Lat < -90 || inc.Location.Lat > 90 || inc.Location.Lon < -180 || inc.Location.Lon > 180 {
				p.errorf("%s: location (%g, %g) out of range", ref, inc.Location.Lat, inc.Location.Lon)
			}
		} else if inc.LocationName == "" {
			p.errorf("%s: no location and no location name", ref)
		}

		ts, err := time.Parse(time.RFC3339, inc.Timestamp)
		if err != nil {
			p.errorf("%s: timestamp %q is not RFC3339", ref, inc.Timestamp)
			continue
		}
		if ts.After(now.Add(futureSkew)) {
			p.errorf("%s: timestamp %s is in the future", ref, inc.Timestamp)
		}
	}
	return p
}

// ── Phase 3: Identity ──

func validateIdentity(incidents []apiIncident) *phase {
	p := &phase{name: "Phase 3: Identity (unique ids)"}

	seen := make(map[string]int, len(incidents))
	for i, inc := range incidents {
		if inc.ID == "" {
			p.errorf("incident %d: missing id", i)
			continue
		}
		if strings.ContainsAny(inc.ID, " \t\n") {
			p.errorf("incident %d: id %q contains whitespace", i, inc.ID)
		}
		if first, ok := seen[inc.ID]; ok {
			p.errorf("incident %d: id %q duplicates incident %d", i, inc.ID, first)
			continue
		}
		seen[inc.ID] = i
	}
	return p
}

// ── Phase 4: Ordering ──

func validateOrdering(incidents []apiIncident) *phase {
	p := &phase{name: "Phase 4: Ordering (newest first)"}

	var prev time.Time
	for i, inc := range incidents {
		ts, err := time.Parse(time.RFC3339, inc.Timestamp)
		if err != nil {
			continue
		}
		if i > 0 && !prev.IsZero() && ts.After(prev) {
			p.errorf("incident %d (%s) at %s is newer than its predecessor", i, inc.ID, inc.Timestamp)
		}
		prev = ts
	}
	return p
}

// ── Phase 5: Source Health ──

func validateHealth(doc healthDoc) *phase {
	p := &phase{name: "Phase 5: Source Health Summary"}

	report := make(domain.HealthReport, len(doc.Sources))
	names := make([]string, 0, len(doc.Sources))
	for _, s := range doc.Sources {
		status := domain.SourceStatus(s.Status)
		switch status {
		case domain.StatusOperational, domain.StatusDegraded, domain.StatusDown:
		default:
			p.errorf("source %q: invalid status %q", s.Name, s.Status)
		}
		if status != domain.StatusOperational && (s.Error == nil || *s.Error == "") {
			p.errorf("source %q: %s without an error message", s.Name, s.Status)
		}
		if _, dup := report[s.Name]; dup {
			p.errorf("source %q listed twice", s.Name)
		}
		report[s.Name] = domain.SourceHealth{Status: status}
		names = append(names, s.Name)
	}

	if !sort.StringsAreSorted(names) {
		p.errorf("sources are not sorted by name")
	}
	if want := report.Summary(); want != doc.Summary {
		p.errorf("summary %+v does not match sources %+v", doc.Summary, want)
	}
	if want := report.OverallStatus(); want != doc.OverallStatus {
		p.errorf("overallStatus %q, want %q for %d down", doc.OverallStatus, want, doc.Summary.Down)
	}
	return p
}

// countNearDuplicates counts pairs the per-cycle deduplicator would have
// merged. Rows from different cycles may legitimately coexist, so these are
// reported but never fail validation.
func countNearDuplicates(incidents []apiIncident) int {
	n := 0
	for i := range incidents {
		a := incidents[i]
		if a.Location == nil {
			continue
		}
		for j := i + 1; j < len(incidents); j++ {
			b := incidents[j]
			if b.Location == nil {
				continue
			}
			dist := domain.HaversineKm(*a.Location, *b.Location)
			if dist < domain.DuplicateDistanceKm && domain.TitleSimilarity(a.Title, b.Title) > domain.DuplicateSimilarity {
				n++
			}
		}
	}
	return n
}

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

const (
	maxGDACSEvents   = 50
	cycloneRecency   = 7 * 24 * time.Hour
	longEventRecency = 30 * 24 * time.Hour
)

// gdacsTime accepts the API's zone-less timestamps as UTC.
type gdacsTime struct{ time.Time }

var gdacsLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func (t *gdacsTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	for _, layout := range gdacsLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("gdacs: unrecognised time %q", s)
}

type gdacsEvent struct {
	Properties struct {
		EventID     json.Number     `json:"eventid"`
		EventType   string          `json:"eventtype"` // EQ, TC, FL, VO, DR, WF
		Name        string          `json:"name"`
		Country     string          `json:"country"`
		Description string          `json:"description"`
		AlertLevel  string          `json:"alertlevel"`
		FromDate    gdacsTime       `json:"fromdate"`
		ToDate      gdacsTime       `json:"todate"`
		URL         json.RawMessage `json:"url"` // object with "report", or a bare string
	} `json:"properties"`
	Geometry struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
}

func (e gdacsEvent) reportURL() string {
	var s string
	if json.Unmarshal(e.Properties.URL, &s) == nil {
		return s
	}
	var obj struct {
		Report string `json:"report"`
	}
	if json.Unmarshal(e.Properties.URL, &obj) == nil {
		return obj.Report
	}
	return ""
}

// GDACS polls the Global Disaster Alert and Coordination System event list.
type GDACS struct {
	url     string
	fetcher *Fetcher
}

// NewGDACS creates the GDACS adapter.
func NewGDACS(d Deps) *GDACS {
	return &GDACS{url: d.Catalog.Endpoints.GDACS, fetcher: d.Fetcher}
}

func (s *GDACS) Name() string { return "GDACS" }

// Fetch returns the first 50 events. Cyclones that ended more than a week
// ago and volcano or drought events that began more than 30 days ago are
// dropped; the rest of the long-running kinds are kept under standing
// retention.
func (s *GDACS) Fetch(ctx context.Context) ([]domain.Incident, error) {
	var resp struct {
		Features []gdacsEvent `json:"features"`
	}
	if err := s.fetcher.GetJSON(ctx, s.url, &resp); err != nil {
		return nil, err
	}

	now := domain.Now()
	features := resp.Features
	if len(features) > maxGDACSEvents {
		features = features[:maxGDACSEvents]
	}

	var out []domain.Incident
	for _, e := range features {
		p := e.Properties
		if len(e.Geometry.Coordinates) < 2 || !gdacsCurrent(p.EventType, p.FromDate.Time, p.ToDate.Time, now) {
			continue
		}
		name := p.Name
		if name == "" {
			name = p.Country
		}
		if name == "" {
			name = "Unknown"
		}
		desc := p.Description
		if desc == "" {
			desc = p.AlertLevel + " alert event"
		}
		locName := p.Country
		if locName == "" {
			locName = "Unknown"
		}
		inc := domain.Incident{
			ID:            "gdacs-" + p.EventID.String(),
			Title:         p.EventType + ": " + name,
			Description:   desc,
			Type:          domain.TypeWeather,
			Severity:      alertLevelSeverity(p.AlertLevel),
			Location:      domain.At(e.Geometry.Coordinates[1], e.Geometry.Coordinates[0]),
			LocationName:  locName,
			Timestamp:     p.FromDate.Time,
			Source:        "GDACS",
			LivestreamURL: e.reportURL(),
			Upstream:      p.EventType,
		}
		switch p.EventType {
		case "TC", "VO", "DR":
			inc.Retention = domain.RetainStanding
		}
		out = append(out, domain.Normalize(inc))
	}
	return out, nil
}

func gdacsCurrent(eventType string, from, to, now time.Time) bool {
	switch eventType {
	case "TC":
		if to.IsZero() {
			return true
		}
		return !to.Before(now.Add(-cycloneRecency))
	case "VO", "DR":
		return !from.Before(now.Add(-longEventRecency))
	}
	return true
}

func alertLevelSeverity(level string) domain.Severity {
	switch level {
	case "Red":
		return domain.SeverityCritical
	case "Orange":
		return domain.SeverityHigh
	default:
		return domain.SeverityMedium
	}
}

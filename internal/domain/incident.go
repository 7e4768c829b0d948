package domain

import (
	"strings"
	"time"
)

// Title and description limits, in runes.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 300
)

// IncidentType is the closed set of incident categories.
type IncidentType string

const (
	TypeWeather        IncidentType = "weather"
	TypeMilitary       IncidentType = "military"
	TypeEmergency      IncidentType = "emergency"
	TypeProtest        IncidentType = "protest"
	TypeCyber          IncidentType = "cyber"
	TypeMaritime       IncidentType = "maritime"
	TypeFinancial      IncidentType = "financial"
	TypePolitical      IncidentType = "political"
	TypeBusiness       IncidentType = "business"
	TypeAdvisory       IncidentType = "advisory"
	TypeInfrastructure IncidentType = "infrastructure"
	TypeNuclear        IncidentType = "nuclear"
	TypeVolcanic       IncidentType = "volcanic"
	TypeEnvironmental  IncidentType = "environmental"
	TypeOther          IncidentType = "other"
)

var incidentTypes = map[IncidentType]bool{
	TypeWeather: true, TypeMilitary: true, TypeEmergency: true, TypeProtest: true,
	TypeCyber: true, TypeMaritime: true, TypeFinancial: true, TypePolitical: true,
	TypeBusiness: true, TypeAdvisory: true, TypeInfrastructure: true, TypeNuclear: true,
	TypeVolcanic: true, TypeEnvironmental: true, TypeOther: true,
}

// ParseIncidentType maps an arbitrary string onto the closed type set.
// Unknown values become TypeOther.
func ParseIncidentType(v string) IncidentType {
	t := IncidentType(strings.ToLower(strings.TrimSpace(v)))
	if incidentTypes[t] {
		return t
	}
	return TypeOther
}

// Valid reports whether t is a member of the closed type set.
func (t IncidentType) Valid() bool { return incidentTypes[t] }

// Severity is an ordered enum: low < medium < high < critical.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank returns the ordinal position of s, or -1 for values outside the enum.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	case SeverityCritical:
		return 3
	default:
		return -1
	}
}

// Valid reports whether s is one of the four severity levels.
func (s Severity) Valid() bool { return s.Rank() >= 0 }

// ParseSeverity maps v onto the enum, returning fallback for unknown values.
func ParseSeverity(v string, fallback Severity) Severity {
	s := Severity(strings.ToLower(strings.TrimSpace(v)))
	if s.Valid() {
		return s
	}
	return fallback
}

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Incident is the unified record every source adapter produces.
type Incident struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Type          IncidentType   `json:"type"`
	Severity      Severity       `json:"severity"`
	Location      *Point         `json:"location"`
	LocationName  string         `json:"locationName"`
	Timestamp     time.Time      `json:"timestamp"`
	Source        string         `json:"source"`
	LivestreamURL string         `json:"livestreamUrl,omitempty"`
	Retention     RetentionClass `json:"retention,omitempty"`

	// Upstream carries an adapter-private sub-type (e.g. a GDACS event code)
	// used during filtering. It is never persisted.
	Upstream string `json:"-"`
}

// At returns a *Point for lat/lon.
func At(lat, lon float64) *Point {
	return &Point{Lat: lat, Lon: lon}
}

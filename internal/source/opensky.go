package source

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

// State vector field positions in the OpenSky /states/all response.
const (
	svICAO24   = 0
	svCallsign = 1
	svLon      = 5
	svLat      = 6
	svAltitude = 7
	svOnGround = 8
	svVelocity = 9
	svSquawk   = 14
)

const (
	feetPerMetre     = 3.28084
	knotsPerMetreSec = 1.94384
)

var emergencySquawks = map[string]struct {
	label    string
	meaning  string
	severity domain.Severity
}{
	"7700": {"EMERGENCY", "General Emergency", domain.SeverityCritical},
	"7600": {"ALERT", "Radio Failure", domain.SeverityHigh},
	"7500": {"HIJACK", "Unlawful Interference", domain.SeverityCritical},
}

// notableAircraft maps ICAO24 addresses of tracked private jets to owners.
var notableAircraft = map[string]string{
	"a326ca": "Taylor Swift (Dassault Falcon 900)",
	"a5094b": "Drake (Boeing 767)",
	"a835af": "Elon Musk (Gulfstream G650ER)",
	"a37346": "Kim Kardashian (Gulfstream G650ER)",
	"a3c8e9": "Jeff Bezos (Gulfstream G650ER)",
	"a2d8de": "Bill Gates (Bombardier BD-700)",
	"a54b7a": "Mark Zuckerberg (Gulfstream G650)",
	"a1fbe7": "Suspected Gov Contractor",
	"a802a5": "Suspected Gov Contractor",
}

func callsignPatterns(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

var (
	militaryCallsigns = callsignPatterns(
		// United States
		`^USAF\d+$`, `^(NAVY|MARINE|COAST)\d+$`, `^(RCH|REACH)\d{3,4}$`, `^SPAR\d+$`, `^SAM\d+$`,
		`^(TORCH|MAGMA|STEEL|DUKE)\d+$`, `^JANET\d*$`, `^CNV\d+$`,
		// United Kingdom
		`^RAF\d+$`, `^(ASCOT|TARTAN)\d+$`, `^RRR\d+$`,
		// Russia
		`^RFF\d+$`, `^RSD\d+$`, `^ROSSIYA\d*$`,
		// China
		`^CHN\d+$`,
		// NATO and allies
		`^NATO\d+$`, `^(CTM|COTAM)\d+$`, `^GAF\d+$`, `^(CFC|CANFORCE|RCAF)\d+$`, `^(STAL|ASY|RAAF)\d+$`,
		// rescue and law enforcement
		`^(RESCUE|MEDEVAC|LIFEGUARD)\d+$`, `^(POLICE|PATROL)\d+$`,
	)
	vipCallsigns = callsignPatterns(
		`^SAUDIA0[1-9]$`, `^HZ-HM\d+$`, `^QATAF\d+$`, `^(SULTAN|KING|ROYAL)\d+$`,
	)
	suspectedCallsigns = callsignPatterns(`^XXX\d+$`, `^(GOV|GOVT|STATE)\d+$`)
)

// aircraftMatch is the outcome of the priority cascade for one aircraft.
type aircraftMatch struct {
	category    string
	title       string
	description string
	severity    domain.Severity
	kind        domain.IncidentType
}

// classifyAircraft applies the cascade: emergency squawk, notable ICAO24,
// military callsign, VIP callsign, suspected government callsign. ok is
// false for aircraft that match none.
func classifyAircraft(icao24, callsign, squawk string) (aircraftMatch, bool) {
	label := callsign
	if label == "" {
		label = icao24
	}
	if sq, ok := emergencySquawks[squawk]; ok {
		return aircraftMatch{
			category:    "Emergency",
			title:       fmt.Sprintf("%s: %s - %s (%s)", sq.label, label, sq.meaning, squawk),
			description: fmt.Sprintf("Aircraft broadcasting squawk code %s (%s)", squawk, sq.meaning),
			severity:    sq.severity,
			kind:        domain.TypeEmergency,
		}, true
	}
	if owner, ok := notableAircraft[strings.ToLower(icao24)]; ok {
		return aircraftMatch{
			category:    "Celebrity",
			title:       fmt.Sprintf("VIP: %s's Aircraft (%s)", owner, label),
			description: "Celebrity/VIP private aircraft: " + owner,
			severity:    domain.SeverityLow,
			kind:        domain.TypeOther,
		}, true
	}
	if callsign == "" {
		return aircraftMatch{}, false
	}
	switch {
	case matchesAny(callsign, militaryCallsigns):
		return aircraftMatch{
			category:    "Military",
			title:       "Military: " + callsign,
			description: "Confirmed military or government aircraft",
			severity:    domain.SeverityMedium,
			kind:        domain.TypeMilitary,
		}, true
	case matchesAny(callsign, vipCallsigns):
		return aircraftMatch{
			category:    "VIP",
			title:       "Royal/VIP: " + callsign,
			description: "Royal family or VIP government flight",
			severity:    domain.SeverityMedium,
			kind:        domain.TypeOther,
		}, true
	case matchesAny(callsign, suspectedCallsigns):
		return aircraftMatch{
			category:    "Suspected Military",
			title:       "Suspected Gov: " + callsign,
			description: "Suspected military or government aircraft (probable)",
			severity:    domain.SeverityLow,
			kind:        domain.TypeMilitary,
		}, true
	}
	return aircraftMatch{}, false
}

// Aircraft polls OpenSky state vectors for emergency, military and notable
// flights.
type Aircraft struct {
	url     string
	fetcher *Fetcher
}

// NewAircraft creates the OpenSky adapter.
func NewAircraft(d Deps) *Aircraft {
	return &Aircraft{url: d.Catalog.Endpoints.OpenSky, fetcher: d.Fetcher}
}

func (s *Aircraft) Name() string { return "OpenSky Network" }

func (s *Aircraft) Fetch(ctx context.Context) ([]domain.Incident, error) {
	var resp struct {
		States [][]any `json:"states"`
	}
	if err := s.fetcher.GetJSON(ctx, s.url, &resp); err != nil {
		return nil, err
	}

	now := domain.Now()
	var out []domain.Incident
	for _, sv := range resp.States {
		if len(sv) <= svSquawk {
			continue
		}
		lat, latOK := svFloat(sv[svLat])
		lon, lonOK := svFloat(sv[svLon])
		onGround, _ := sv[svOnGround].(bool)
		if onGround || !latOK || !lonOK {
			continue
		}
		icao24 := svString(sv[svICAO24])
		callsign := svString(sv[svCallsign])
		squawk := svString(sv[svSquawk])

		m, ok := classifyAircraft(icao24, callsign, squawk)
		if !ok {
			continue
		}
		alt, _ := svFloat(sv[svAltitude])
		vel, _ := svFloat(sv[svVelocity])

		key := squawk
		if key == "" {
			key = m.category
		}
		label := callsign
		if label == "" {
			label = icao24
		}
		out = append(out, domain.Normalize(domain.Incident{
			ID:    fmt.Sprintf("aircraft-%s-%s", icao24, key),
			Title: m.title,
			Description: fmt.Sprintf("[%s] %s. Altitude: %dft, Speed: %dkts",
				m.category, m.description,
				int(math.Round(alt*feetPerMetre)), int(math.Round(vel*knotsPerMetreSec))),
			Type:          m.kind,
			Severity:      m.severity,
			Location:      domain.At(lat, lon),
			LocationName:  fmt.Sprintf("%s - ICAO: %s", label, icao24),
			Timestamp:     now,
			Source:        "OpenSky Network",
			LivestreamURL: "https://globe.adsbexchange.com/?icao=" + icao24,
		}))
	}
	return out, nil
}

func svString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func svFloat(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

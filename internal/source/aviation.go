package source

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

var aviationPlaceRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)near\s+(\w+)`),
	regexp.MustCompile(`(?i)at\s+(\w+)`),
	regexp.MustCompile(`(?i)over\s+(\w+)`),
	regexp.MustCompile(`(?i)in\s+(\w+)`),
	regexp.MustCompile(`(?i),\s+(\w+)$`),
}

// defaultAviationPlace is used when a title names no known place. New York
// is the busiest aviation hub in the feed's coverage.
var defaultAviationPlace = domain.Place{Name: "Aviation Incident", Lat: 40.7128, Lon: -74.0060}

func aviationSeverity(text string) domain.Severity {
	switch {
	case containsAny(text, "crash", "fatal", "accident", "hull loss"):
		return domain.SeverityCritical
	case containsAny(text, "emergency", "smoke", "fire", "engine", "divert"):
		return domain.SeverityHigh
	case containsAny(text, "incident", "return", "damage", "evacuation"):
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

// aviationPlace tries every candidate word against the built-in tables, then
// gives the first candidate to the external geocoder.
func aviationPlace(ctx context.Context, title string, geocoder domain.Geocoder, logger *slog.Logger) domain.Place {
	var candidates []string
	for _, re := range aviationPlaceRes {
		if m := re.FindStringSubmatch(title); m != nil {
			candidates = append(candidates, m[1])
		}
	}
	for _, c := range candidates {
		if p, ok := domain.LookupPlace(c); ok {
			return domain.Place{Name: c, Lat: p.Lat, Lon: p.Lon}
		}
	}
	if len(candidates) > 0 {
		if p, ok := domain.ResolvePlace(ctx, candidates[0], "", geocoder, logger); ok {
			return p
		}
	}
	return defaultAviationPlace
}

// NewAviation returns the Aviation Safety Network adapter.
func NewAviation(d Deps) *RSSSource {
	logger := d.logger()
	return newRSSSource("Aviation Safety Network", d.Catalog.Endpoints.Aviation, 20, d, func(ctx context.Context, a article) (domain.Incident, bool) {
		place := aviationPlace(ctx, a.Title, d.Geocoder, logger)
		return domain.Incident{
			ID:           domain.HashID("aviation", a.Title),
			Title:        a.Title,
			Description:  a.Description,
			Type:         domain.TypeOther,
			Severity:     aviationSeverity(a.text),
			Location:     place.Point(),
			LocationName: place.Name,
			Source:       "Aviation Safety Network",
		}, true
	})
}

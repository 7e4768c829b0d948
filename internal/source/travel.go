package source

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

var advisoryTitleRe = regexp.MustCompile(`(?i)^(.+?)\s*-\s*Level\s+(\d+):`)

func advisorySeverity(level int) domain.Severity {
	switch level {
	case 4:
		return domain.SeverityCritical
	case 3:
		return domain.SeverityHigh
	case 2:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

// NewTravelAdvisories returns the US State Department advisory adapter.
// Advisories for countries outside the built-in table are placed by the
// external geocoder when one is configured, and dropped otherwise.
func NewTravelAdvisories(d Deps) *RSSSource {
	logger := d.logger()
	return newRSSSource("US State Dept", d.Catalog.Endpoints.Travel, 30, d, func(ctx context.Context, a article) (domain.Incident, bool) {
		m := advisoryTitleRe.FindStringSubmatch(a.Title)
		if m == nil {
			return domain.Incident{}, false
		}
		country := strings.TrimSpace(m[1])
		level, _ := strconv.Atoi(m[2])

		place, ok := domain.ResolvePlace(ctx, country, "", d.Geocoder, logger)
		if !ok {
			logger.Debug("travel advisory country not found", "country", country)
			return domain.Incident{}, false
		}
		return domain.Incident{
			ID:           domain.HashID("travel", country),
			Title:        a.Title,
			Description:  a.Description,
			Type:         domain.TypeAdvisory,
			Severity:     advisorySeverity(level),
			Location:     place.Point(),
			LocationName: country,
			Source:       "US State Dept",
			Retention:    domain.RetainStanding,
		}, true
	})
}

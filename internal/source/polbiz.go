package source

import (
	"context"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

var (
	politicalKeywords = []string{
		"summit", "meeting", "talks", "negotiation", "treaty", "agreement",
		"diplomatic", "foreign minister", "president meets", "prime minister",
		"bilateral", "multilateral", "g7", "g20", "brics", "asean", "eu summit",
	}
	businessKeywords = []string{
		"merger", "acquisition", "deal worth", "billion dollar", "investment",
		"trade agreement", "partnership", "joint venture", "ipo", "contract awarded",
	}
)

// NewPoliticalBusiness returns the summit and deal tracker. Its incidents
// are political or business typed and so fall into strategic retention.
func NewPoliticalBusiness(d Deps) *FeedSource {
	return newFeedSource("Political/Business", d.Catalog.PoliticalBusiness, d, func(_ context.Context, f Feed, a article) (domain.Incident, bool) {
		political := containsAny(a.text, politicalKeywords...)
		business := containsAny(a.text, businessKeywords...)
		if !political && !business {
			return domain.Incident{}, false
		}
		inc, ok := geocoded(a)
		if !ok {
			return inc, false
		}
		inc.ID = domain.HashID("polbiz", f.Name, a.Title)
		inc.Type = domain.TypePolitical
		inc.Severity = domain.SeverityMedium
		if business {
			inc.Type = domain.TypeBusiness
			if containsAny(a.text, "billion", "acquisition") {
				inc.Severity = domain.SeverityHigh
			}
		}
		if containsAny(a.text, "summit", "treaty", "agreement") {
			inc.Severity = domain.SeverityHigh
		}
		inc.Source = f.Name
		return inc, true
	})
}

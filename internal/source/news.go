package source

import (
	"context"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

// NewNews returns the general world-news adapter. Items are classified by
// domain.Classify and dropped when no known place is mentioned.
func NewNews(d Deps) *FeedSource {
	return newFeedSource("News Feeds", d.Catalog.News, d, func(_ context.Context, f Feed, a article) (domain.Incident, bool) {
		inc, ok := geocoded(a)
		if !ok {
			return inc, false
		}
		c := domain.Classify(a.Title, a.Description)
		inc.ID = domain.HashID("news", f.Name, a.Title)
		inc.Type = c.Type
		inc.Severity = c.Severity
		inc.Source = f.Name + " News"
		return inc, true
	})
}

// NewRegional returns the regional-news adapter. It applies the same rules
// as NewNews to a smaller set of region-focused outlets.
func NewRegional(d Deps) *FeedSource {
	return newFeedSource("Regional News", d.Catalog.Regional, d, func(_ context.Context, f Feed, a article) (domain.Incident, bool) {
		inc, ok := geocoded(a)
		if !ok {
			return inc, false
		}
		c := domain.Classify(a.Title, a.Description)
		inc.ID = domain.HashID("regional", f.Name, a.Title)
		inc.Type = c.Type
		inc.Severity = c.Severity
		inc.Source = f.Name
		return inc, true
	})
}

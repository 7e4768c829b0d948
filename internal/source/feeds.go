package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

// mapFunc turns one article from feed into an incident, or rejects it.
type mapFunc func(ctx context.Context, feed Feed, a article) (domain.Incident, bool)

// FeedSource fetches every feed of a family concurrently and maps their
// items through a family-specific rule set. A failed feed is logged and
// does not affect its siblings.
type FeedSource struct {
	name        string
	family      Family
	fetcher     *Fetcher
	concurrency int
	logger      *slog.Logger
	mapItem     mapFunc
}

func newFeedSource(name string, family Family, d Deps, fn mapFunc) *FeedSource {
	return &FeedSource{
		name:        name,
		family:      family,
		fetcher:     d.Fetcher,
		concurrency: d.concurrency(),
		logger:      d.logger(),
		mapItem:     fn,
	}
}

// Name returns the health key for the family.
func (s *FeedSource) Name() string { return s.name }

// Fetch returns the mapped incidents of every reachable feed. The error is a
// *domain.PartialFetchError when only some feeds failed.
func (s *FeedSource) Fetch(ctx context.Context) ([]domain.Incident, error) {
	feeds := s.family.Feeds
	results := make([][]domain.Incident, len(feeds))
	errs := make([]error, len(feeds))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, f := range feeds {
		g.Go(func() error {
			parsed, err := s.fetcher.GetFeed(ctx, f.URL)
			if err != nil {
				s.logger.Warn("feed fetch failed", "source", s.name, "feed", f.Name, "error", err)
				errs[i] = fmt.Errorf("%s: %w", f.Name, err)
				return nil
			}
			results[i] = s.mapFeed(ctx, f, parsed)
			return nil
		})
	}
	_ = g.Wait()

	var out []domain.Incident
	for _, r := range results {
		out = append(out, r...)
	}
	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	return out, domain.FeedErrors(len(feeds), failed)
}

func (s *FeedSource) mapFeed(ctx context.Context, f Feed, parsed *gofeed.Feed) []domain.Incident {
	limit := s.family.Limit
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	items := parsed.Items
	if len(items) > limit {
		items = items[:limit]
	}

	out := make([]domain.Incident, 0, len(items))
	for _, item := range items {
		a, ok := newArticle(item)
		if !ok {
			continue
		}
		inc, ok := s.mapItem(ctx, f, a)
		if !ok {
			continue
		}
		if inc.Timestamp.IsZero() {
			inc.Timestamp = a.Published
		}
		if inc.LivestreamURL == "" {
			inc.LivestreamURL = a.Link
		}
		out = append(out, domain.Normalize(inc))
	}
	return out
}

// geocoded builds the common shape of a keyword-family incident placed by
// free-text geocoding. ok is false when the article names no known place.
func geocoded(a article) (domain.Incident, bool) {
	place, ok := domain.GeocodeText(a.Title + " " + a.Description)
	if !ok {
		return domain.Incident{}, false
	}
	return domain.Incident{
		Title:        a.Title,
		Description:  a.Description,
		Location:     place.Point(),
		LocationName: place.Name,
	}, true
}

// itemFunc maps one article of a single-feed adapter.
type itemFunc func(ctx context.Context, a article) (domain.Incident, bool)

// RSSSource adapts a single RSS or Atom feed. Unlike FeedSource, a fetch or
// parse failure fails the whole source.
type RSSSource struct {
	name    string
	url     string
	limit   int
	fetcher *Fetcher
	mapItem itemFunc
}

func newRSSSource(name, url string, limit int, d Deps, fn itemFunc) *RSSSource {
	return &RSSSource{name: name, url: url, limit: limit, fetcher: d.Fetcher, mapItem: fn}
}

// Name returns the health key.
func (s *RSSSource) Name() string { return s.name }

// Fetch returns the mapped items of the feed, capped at the source's limit.
func (s *RSSSource) Fetch(ctx context.Context) ([]domain.Incident, error) {
	parsed, err := s.fetcher.GetFeed(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}
	items := parsed.Items
	if s.limit > 0 && len(items) > s.limit {
		items = items[:s.limit]
	}

	out := make([]domain.Incident, 0, len(items))
	for _, item := range items {
		a, ok := newArticle(item)
		if !ok {
			continue
		}
		inc, ok := s.mapItem(ctx, a)
		if !ok {
			continue
		}
		if inc.Timestamp.IsZero() {
			inc.Timestamp = a.Published
		}
		if inc.LivestreamURL == "" {
			inc.LivestreamURL = a.Link
		}
		out = append(out, domain.Normalize(inc))
	}
	return out, nil
}

// stamp formats an article's publish time for use in hashed IDs.
func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

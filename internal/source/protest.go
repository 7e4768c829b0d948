package source

import (
	"context"
	"regexp"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

var protestPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bprotest(s|ers|ing)?\b`),
	regexp.MustCompile(`\b(anti-government|pro-democracy)\b`),
	regexp.MustCompile(`\bcivil unrest\b`),
	regexp.MustCompile(`\briot(s|ing|ers)?\b`),
	regexp.MustCompile(`\buprising\b`),
	regexp.MustCompile(`\brevolt\b`),
	regexp.MustCompile(`\brebellion\b`),
	regexp.MustCompile(`\b(tear gas|water cannon|riot police)\b`),
	regexp.MustCompile(`\b(general|labor|workers?) strike\b`),
	regexp.MustCompile(`\bsit-in\b`),
	regexp.MustCompile(`\bwalkout\b`),
	regexp.MustCompile(`\b(blockade|barricade|roadblock)\b.*\b(protest|demonstr)`),
	regexp.MustCompile(`\b(violent|peaceful)\s+(clash|demonstration|rally|march)\b`),
	regexp.MustCompile(`\bdemonstrators?\b`),
	regexp.MustCompile(`\bopposition rally\b`),
	regexp.MustCompile(`\barrested protesters\b`),
	regexp.MustCompile(`\bdetained activists\b`),
	regexp.MustCompile(`\bpolice crackdown\b`),
	regexp.MustCompile(`\b(curfew|martial law)\b.*\b(protest|unrest)\b`),
}

// excludePatterns reject coverage about protests rather than of them.
var excludePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(understanding|analysis|opinion|editorial|interview|podcast|video|photo|gallery)\b`),
	regexp.MustCompile(`\b(history of|background|explainer|what are|why|how to|guide to)\b`),
	regexp.MustCompile(`\b(cardiac|health|weather|climate|record|hottest|sunniest|temperature)\b`),
	regexp.MustCompile(`\b(threatens|warns|says|comments|statement|addresses|react)\b.*\bprotest`),
}

func matchesAny(text string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// NewProtest returns the civil unrest monitor.
func NewProtest(d Deps) *FeedSource {
	return newFeedSource("Protest Monitor", d.Catalog.Protest, d, func(_ context.Context, f Feed, a article) (domain.Incident, bool) {
		if !matchesAny(a.text, protestPatterns) || matchesAny(a.text, excludePatterns) {
			return domain.Incident{}, false
		}
		inc, ok := geocoded(a)
		if !ok {
			return inc, false
		}
		inc.ID = domain.HashID("protest", f.Name, a.Title)
		inc.Type = domain.TypeProtest
		inc.Severity = domain.ProtestSeverity(a.text)
		inc.Source = f.Name
		return inc, true
	})
}

package source

import (
	"context"
	"regexp"
	"strings"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

var techKeywords = []string{
	"ai", "artificial intelligence", "machine learning", "neural", "llm", "chatgpt", "openai", "claude", "anthropic", "gpt", "gemini", "copilot",
	"quantum", "chip", "semiconductor", "processor", "gpu", "nvidia", "amd", "intel", "apple silicon", "m1", "m2", "m3", "m4",
	"software", "hardware", "app", "startup", "tech", "cloud", "aws", "azure", "google", "microsoft", "meta", "amazon",
	"crypto", "blockchain", "bitcoin", "ethereum", "web3", "nft", "defi",
	"robotics", "drone", "autonomous", "self-driving", "ev", "electric vehicle", "tesla", "waymo",
	"space", "spacex", "rocket", "satellite", "mars", "nasa", "orbit", "lunar",
	"cyber", "security", "breach", "hack", "hacker", "vulnerability", "zero-day", "zero day", "0day", "0-day", "exploit", "malware", "ransomware", "phishing",
	"biotech", "crispr", "gene", "medical device", "genomics",
	"vr", "ar", "metaverse", "virtual reality", "augmented reality", "headset", "vision pro",
	"programming", "programmer", "coding", "coder", "developer", "code", "github", "open source", "opensource", "api", "sdk", "framework",
	"algorithm", "database", "server", "linux", "rust", "python", "javascript", "typescript", "golang", "swift",
	"privacy", "encryption", "vpn", "data breach", "leak", "surveillance",
}

// techRe matches the keywords on word boundaries; two-letter keywords like
// "ai" or "ev" would otherwise match inside most English words.
var techRe = func() *regexp.Regexp {
	quoted := make([]string, len(techKeywords))
	for i, kw := range techKeywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}()

// NewTech returns the technology news adapter. Tech stories are global,
// carry no location and are kept for the extended retention window because
// these outlets often publish with a delay.
func NewTech(d Deps) *FeedSource {
	return newFeedSource("Tech News", d.Catalog.Tech, d, func(_ context.Context, f Feed, a article) (domain.Incident, bool) {
		if !techRe.MatchString(a.text) {
			return domain.Incident{}, false
		}
		return domain.Incident{
			ID:           domain.HashID("tech", f.Name, a.Title),
			Title:        a.Title,
			Description:  a.Description,
			Type:         domain.TypeOther,
			Severity:     domain.SeverityLow,
			LocationName: "Global",
			Source:       f.Name,
			Retention:    domain.RetainExtended,
		}, true
	})
}

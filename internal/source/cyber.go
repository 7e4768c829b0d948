package source

import (
	"context"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

var cyberKeywords = []string{
	"data breach", "ransomware", "hack", "hacker", "hacking", "cyber attack", "cyberattack", "ddos",
	"zero-day", "zero day", "0day", "0-day", "exploit", "exploited", "exploitation",
	"apt", "malware", "spyware", "trojan", "botnet", "phishing",
	"vulnerability", "cve-", "patch", "security flaw", "bug bounty",
	"compromised", "leaked", "stolen data", "exfiltrat",
	"nation-state", "critical infrastructure", "threat actor", "threat group",
	"credential", "authentication bypass", "rce", "remote code execution",
	"encryption", "decryption", "cryptojacking", "cryptomining",
	"firewall", "intrusion", "breach", "attack surface", "supply chain attack",
}

// NewCyber returns the cyber threat news adapter. Articles from trusted
// security outlets are accepted without keyword filtering. Articles that
// name no country are kept without a location.
func NewCyber(d Deps) *FeedSource {
	return newFeedSource("Cyber Threat Feed", d.Catalog.Cyber, d, func(_ context.Context, f Feed, a article) (domain.Incident, bool) {
		if !f.Trusted && !containsAny(a.text, cyberKeywords...) {
			return domain.Incident{}, false
		}
		inc, ok := geocoded(a)
		if !ok {
			inc = domain.Incident{Title: a.Title, Description: a.Description, LocationName: "Global"}
		}
		inc.ID = domain.HashID("cyber", f.Name, a.Title)
		inc.Type = domain.TypeCyber
		switch {
		case containsAny(a.text, "critical infrastructure", "nation-state"):
			inc.Severity = domain.SeverityCritical
		case containsAny(a.text, "ransomware", "zero-day", "0day"):
			inc.Severity = domain.SeverityHigh
		default:
			inc.Severity = domain.SeverityMedium
		}
		inc.Source = f.Name
		return inc, true
	})
}

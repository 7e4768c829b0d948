package source

import (
	"context"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

var (
	conflictKeywords = []string{
		"airstrike", "air strike", "drone strike", "missile strike",
		"combat", "battle", "offensive", "troops deployed", "military operation",
		"bombardment", "shelling", "artillery fire", "rocket attack",
		"fighting", "casualties", "killed in action", "wounded",
		"warzone", "frontline", "front line", "ceasefire",
		"invasion", "occupied", "liberation", "siege",
		"military convoy", "armed forces", "soldiers", "battalion",
		"naval", "warship", "fighter jet", "tank", "armored",
		"terrorist attack", "insurgent", "rebel forces", "militia",
		"hamas attack", "houthi", "taliban", "hezbollah",
	}

	maritimeKeywords = []string{
		"piracy", "hijack", "seized", "attack", "collision", "sinking", "distress",
		"oil spill", "grounding", "fire", "explosion", "missing vessel", "rescue",
		"naval", "warship", "blockade", "strait", "port closure",
	}

	nuclearKeywords = []string{
		"incident", "accident", "leak", "radiation", "emergency", "shutdown",
		"safety", "meltdown", "contamination", "alert", "warning", "evacuation",
		"enrichment", "weapons", "proliferation", "inspection",
	}

	financialKeywords = []string{
		"sanction", "embargo", "tariff", "trade war", "export control", "import ban",
		"freeze", "asset freeze", "swift", "financial restriction",
		"russia", "iran", "north korea", "venezuela", "cuba", "syria", "belarus",
		"default", "crisis", "collapse", "bailout", "recession", "inflation surge",
		"currency collapse", "debt crisis", "banking crisis",
		"crash", "plunge", "market turmoil",
	}
)

// NewConflict returns the conflict monitor. Only articles describing a
// concrete military action are kept.
func NewConflict(d Deps) *FeedSource {
	return newFeedSource("Warzone Monitor", d.Catalog.Conflict, d, func(_ context.Context, f Feed, a article) (domain.Incident, bool) {
		if !containsAny(a.text, conflictKeywords...) {
			return domain.Incident{}, false
		}
		inc, ok := geocoded(a)
		if !ok {
			return inc, false
		}
		inc.ID = domain.HashID("conflict", f.Name, a.Title)
		inc.Type = domain.TypeMilitary
		inc.Severity = domain.SeverityHigh
		if containsAny(a.text, "casualties", "killed", "offensive", "invasion") {
			inc.Severity = domain.SeverityCritical
		}
		inc.Source = f.Name
		return inc, true
	})
}

// NewMaritime returns the maritime incident monitor.
func NewMaritime(d Deps) *FeedSource {
	return newFeedSource("Maritime Monitor", d.Catalog.Maritime, d, func(_ context.Context, f Feed, a article) (domain.Incident, bool) {
		if !containsAny(a.text, maritimeKeywords...) {
			return domain.Incident{}, false
		}
		inc, ok := geocoded(a)
		if !ok {
			return inc, false
		}
		inc.ID = domain.HashID("maritime", f.Name, a.Title)
		inc.Type = domain.TypeMaritime
		inc.Severity = domain.SeverityMedium
		if containsAny(a.text, "piracy", "hijack", "sinking", "oil spill", "blockade") {
			inc.Severity = domain.SeverityHigh
		}
		inc.Source = f.Name
		return inc, true
	})
}

// NewNuclear returns the nuclear safety monitor.
func NewNuclear(d Deps) *FeedSource {
	return newFeedSource("Nuclear Monitor", d.Catalog.Nuclear, d, func(_ context.Context, f Feed, a article) (domain.Incident, bool) {
		if !containsAny(a.text, nuclearKeywords...) {
			return domain.Incident{}, false
		}
		inc, ok := geocoded(a)
		if !ok {
			return inc, false
		}
		inc.ID = domain.HashID("nuclear", f.Name, a.Title)
		inc.Type = domain.TypeNuclear
		switch {
		case containsAny(a.text, "meltdown", "emergency", "leak"):
			inc.Severity = domain.SeverityCritical
		case containsAny(a.text, "incident", "weapons"):
			inc.Severity = domain.SeverityHigh
		default:
			inc.Severity = domain.SeverityMedium
		}
		inc.Source = f.Name
		return inc, true
	})
}

// NewFinancial returns the sanctions and market-stress monitor.
func NewFinancial(d Deps) *FeedSource {
	return newFeedSource("Financial Feed", d.Catalog.Financial, d, func(_ context.Context, f Feed, a article) (domain.Incident, bool) {
		if !containsAny(a.text, financialKeywords...) {
			return domain.Incident{}, false
		}
		inc, ok := geocoded(a)
		if !ok {
			return inc, false
		}
		inc.ID = domain.HashID("financial", f.Name, a.Title)
		inc.Type = domain.TypeFinancial
		inc.Severity = domain.SeverityMedium
		if containsAny(a.text, "collapse", "crisis", "default", "sanction", "embargo", "ban", "crash", "plunge") {
			inc.Severity = domain.SeverityHigh
		}
		inc.Source = f.Name
		return inc, true
	})
}

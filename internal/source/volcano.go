package source

import (
	"context"
	"fmt"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

type volcano struct {
	name    string
	lat     float64
	lon     float64
	country string
	region  string
}

// activeVolcanoes lists volcanoes with persistent eruptive activity. The
// Global Volcanism Program has no open feed, so the set is maintained here.
var activeVolcanoes = []volcano{
	{"Kilauea", 19.4069, -155.2834, "United States", "Hawaii"},
	{"Etna", 37.7510, 14.9934, "Italy", "Sicily"},
	{"Stromboli", 38.7893, 15.2134, "Italy", "Sicily"},
	{"Sakurajima", 31.5804, 130.6573, "Japan", "Kyushu"},
	{"Merapi", -7.5407, 110.4453, "Indonesia", "Java"},
	{"Semeru", -8.1082, 112.9222, "Indonesia", "Java"},
	{"Fuego", 14.4730, -90.8806, "Guatemala", "Central America"},
	{"Karymsky", 54.0489, 159.4430, "Russia", "Kamchatka"},
	{"Sheveluch", 56.6531, 161.3606, "Russia", "Kamchatka"},
	{"Dukono", 1.6920, 127.8940, "Indonesia", "Halmahera"},
	{"Ibu", 1.4880, 127.6300, "Indonesia", "Halmahera"},
}

// Volcanoes reports the curated set of continuously active volcanoes. It
// makes no network calls and never fails.
type Volcanoes struct{}

// NewVolcanoes creates the volcano monitor.
func NewVolcanoes(Deps) *Volcanoes { return &Volcanoes{} }

func (Volcanoes) Name() string { return "Volcano Monitor" }

func (Volcanoes) Fetch(context.Context) ([]domain.Incident, error) {
	now := domain.Now()
	out := make([]domain.Incident, 0, len(activeVolcanoes))
	for _, v := range activeVolcanoes {
		out = append(out, domain.Normalize(domain.Incident{
			ID:    "volcano-" + domain.Slug(v.name),
			Title: "Active Volcano: " + v.name,
			Description: fmt.Sprintf("Ongoing volcanic activity at %s, %s. Monitor for ash, lava flows, and seismic activity.",
				v.name, v.country),
			Type:         domain.TypeVolcanic,
			Severity:     domain.SeverityHigh,
			Location:     domain.At(v.lat, v.lon),
			LocationName: fmt.Sprintf("%s, %s, %s", v.name, v.region, v.country),
			Timestamp:    now,
			Source:       "Global Volcanism Program",
			Retention:    domain.RetainStanding,
		}))
	}
	return out, nil
}

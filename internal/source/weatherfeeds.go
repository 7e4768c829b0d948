package source

import (
	"context"
	"regexp"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

var isoCodeRe = regexp.MustCompile(`\b([A-Z]{2})\b`)

// meteoAlarmCountries pairs title substrings and ISO codes with a country
// table key. The first match wins.
var meteoAlarmCountries = []struct {
	names []string
	code  string
	place string
}{
	{[]string{"Germany"}, "DE", "Germany"},
	{[]string{"France"}, "FR", "France"},
	{[]string{"Italy"}, "IT", "Italy"},
	{[]string{"Spain"}, "ES", "Spain"},
	{[]string{"UK", "United Kingdom"}, "GB", "UK"},
}

func meteoAlarmPlace(title string) domain.Place {
	var code string
	if m := isoCodeRe.FindStringSubmatch(title); m != nil {
		code = m[1]
	}
	for _, c := range meteoAlarmCountries {
		if code == c.code || containsAny(title, c.names...) {
			if p, ok := domain.LookupPlace(c.place); ok {
				return p
			}
		}
	}
	p, _ := domain.LookupPlace("Europe")
	return p
}

// NewMeteoAlarm returns the European severe weather adapter.
func NewMeteoAlarm(d Deps) *RSSSource {
	return newRSSSource("MeteoAlarm", d.Catalog.Endpoints.MeteoAlarm, 30, d, func(_ context.Context, a article) (domain.Incident, bool) {
		sev := domain.SeverityMedium
		switch {
		case containsAny(a.text, "red", "extreme"):
			sev = domain.SeverityCritical
		case containsAny(a.text, "orange", "severe"):
			sev = domain.SeverityHigh
		}
		place := meteoAlarmPlace(a.Title)
		return domain.Incident{
			ID:           domain.HashID("meteoalarm", a.Title, stamp(a.Published)),
			Title:        a.Title,
			Description:  a.Description,
			Type:         domain.TypeWeather,
			Severity:     sev,
			Location:     place.Point(),
			LocationName: place.Name,
			Source:       "MeteoAlarm",
		}, true
	})
}

// NewEnvironmentCanada returns the Environment Canada warnings adapter.
func NewEnvironmentCanada(d Deps) *RSSSource {
	canada, _ := domain.LookupPlace("Canada")
	return newRSSSource("Environment Canada", d.Catalog.Endpoints.EnvironmentCanada, 20, d, func(_ context.Context, a article) (domain.Incident, bool) {
		sev := domain.SeverityMedium
		switch {
		case containsAny(a.text, "extreme", "blizzard", "tornado"):
			sev = domain.SeverityCritical
		case containsAny(a.text, "warning", "severe"):
			sev = domain.SeverityHigh
		}
		return domain.Incident{
			ID:           domain.HashID("envcanada", a.Title, stamp(a.Published)),
			Title:        a.Title,
			Description:  a.Description,
			Type:         domain.TypeWeather,
			Severity:     sev,
			Location:     canada.Point(),
			LocationName: canada.Name,
			Source:       "Environment Canada",
		}, true
	})
}

// NewBOM returns the Australian Bureau of Meteorology warnings adapter.
func NewBOM(d Deps) *RSSSource {
	australia, _ := domain.LookupPlace("Australia")
	return newRSSSource("BOM Australia", d.Catalog.Endpoints.BOM, 20, d, func(_ context.Context, a article) (domain.Incident, bool) {
		sev := domain.SeverityMedium
		switch {
		case containsAny(a.text, "extreme", "cyclone", "major"):
			sev = domain.SeverityCritical
		case containsAny(a.text, "severe", "warning"):
			sev = domain.SeverityHigh
		}
		return domain.Incident{
			ID:           domain.HashID("bom", a.Title, stamp(a.Published)),
			Title:        a.Title,
			Description:  a.Description,
			Type:         domain.TypeWeather,
			Severity:     sev,
			Location:     australia.Point(),
			LocationName: australia.Name,
			Source:       "BOM Australia",
		}, true
	})
}

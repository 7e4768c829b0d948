// Package source contains the upstream adapters. Each adapter fetches one
// public feed or API, maps its records onto domain.Incident and reports
// failure by returning an error; none of them panic or retry.
package source

import (
	"context"
	"io"
	"log/slog"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

// Source is an upstream adapter.
type Source interface {
	// Name is the key under which the source's health is reported.
	Name() string
	Fetch(ctx context.Context) ([]domain.Incident, error)
}

// Deps carries what adapters share.
type Deps struct {
	Fetcher         *Fetcher
	Catalog         *Catalog
	Geocoder        domain.Geocoder // optional fallback for unknown place names
	Logger          *slog.Logger
	FeedConcurrency int
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d.Logger
}

func (d Deps) concurrency() int {
	if d.FeedConcurrency <= 0 {
		return 8
	}
	return d.FeedConcurrency
}

// All returns every adapter, in the order their health is reported.
func All(d Deps) []Source {
	return []Source{
		NewEarthquakes(d),
		NewWeatherAlerts(d),
		NewMeteoAlarm(d),
		NewEnvironmentCanada(d),
		NewBOM(d),
		NewGDACS(d),
		NewEONET(d),
		NewNews(d),
		NewCVE(d),
		NewTravelAdvisories(d),
		NewAviation(d),
		NewAircraft(d),
		NewCloudStatus(d),
		NewConflict(d),
		NewPoliticalBusiness(d),
		NewMaritime(d),
		NewCyber(d),
		NewNuclear(d),
		NewTech(d),
		NewFinancial(d),
		NewRegional(d),
		NewProtest(d),
		NewVolcanoes(d),
		NewAirQuality(d),
	}
}

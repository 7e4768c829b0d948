package source

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

type usgsResponse struct {
	Features []struct {
		ID         string `json:"id"`
		Properties struct {
			Title string   `json:"title"`
			Mag   *float64 `json:"mag"`
			Place string   `json:"place"`
			Time  int64    `json:"time"` // epoch milliseconds
			URL   string   `json:"url"`
		} `json:"properties"`
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // lon, lat, depth
		} `json:"geometry"`
	} `json:"features"`
}

// Earthquakes polls the USGS past-day M2.5+ summary feed.
type Earthquakes struct {
	url     string
	fetcher *Fetcher
}

// NewEarthquakes creates the USGS adapter.
func NewEarthquakes(d Deps) *Earthquakes {
	return &Earthquakes{url: d.Catalog.Endpoints.USGS, fetcher: d.Fetcher}
}

func (s *Earthquakes) Name() string { return "USGS Earthquakes" }

func (s *Earthquakes) Fetch(ctx context.Context) ([]domain.Incident, error) {
	var resp usgsResponse
	if err := s.fetcher.GetJSON(ctx, s.url, &resp); err != nil {
		return nil, err
	}

	out := make([]domain.Incident, 0, len(resp.Features))
	for _, f := range resp.Features {
		if len(f.Geometry.Coordinates) < 2 {
			continue
		}
		var mag float64
		if f.Properties.Mag != nil {
			mag = *f.Properties.Mag
		}
		out = append(out, domain.Normalize(domain.Incident{
			ID:            "earthquake-" + f.ID,
			Title:         f.Properties.Title,
			Description:   fmt.Sprintf("Magnitude %g earthquake", mag),
			Type:          domain.TypeWeather,
			Severity:      magnitudeSeverity(mag),
			Location:      domain.At(f.Geometry.Coordinates[1], f.Geometry.Coordinates[0]),
			LocationName:  f.Properties.Place,
			Timestamp:     time.UnixMilli(f.Properties.Time),
			Source:        "USGS",
			LivestreamURL: f.Properties.URL,
		}))
	}
	return out, nil
}

func magnitudeSeverity(mag float64) domain.Severity {
	switch {
	case mag >= 6:
		return domain.SeverityCritical
	case mag >= 5:
		return domain.SeverityHigh
	default:
		return domain.SeverityMedium
	}
}

package source

import (
	"context"
	"encoding/json"
	"time"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

const maxWeatherAlerts = 30

type nwsGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

type nwsAlert struct {
	ID         string       `json:"id"`
	Geometry   *nwsGeometry `json:"geometry"`
	Properties struct {
		Event       string    `json:"event"`
		Headline    string    `json:"headline"`
		Description string    `json:"description"`
		Severity    string    `json:"severity"`
		AreaDesc    string    `json:"areaDesc"`
		Effective   time.Time `json:"effective"`
		Sent        time.Time `json:"sent"`
		Geocode     struct {
			UGC []string `json:"UGC"`
		} `json:"geocode"`
	} `json:"properties"`
}

type nwsResponse struct {
	Features []nwsAlert `json:"features"`
}

// WeatherAlerts polls the National Weather Service active alerts API.
type WeatherAlerts struct {
	url     string
	fetcher *Fetcher
}

// NewWeatherAlerts creates the NOAA adapter.
func NewWeatherAlerts(d Deps) *WeatherAlerts {
	return &WeatherAlerts{url: d.Catalog.Endpoints.NOAA, fetcher: d.Fetcher}
}

func (s *WeatherAlerts) Name() string { return "NOAA Weather" }

// Fetch returns the first 30 Extreme, Severe or Moderate alerts.
func (s *WeatherAlerts) Fetch(ctx context.Context) ([]domain.Incident, error) {
	var resp nwsResponse
	if err := s.fetcher.GetJSON(ctx, s.url, &resp); err != nil {
		return nil, err
	}

	var out []domain.Incident
	for _, a := range resp.Features {
		sev, ok := nwsSeverity(a.Properties.Severity)
		if !ok {
			continue
		}
		desc := a.Properties.Headline
		if desc == "" {
			desc = a.Properties.Description
		}
		ts := a.Properties.Effective
		if ts.IsZero() {
			ts = a.Properties.Sent
		}
		pt := alertPoint(a)
		out = append(out, domain.Normalize(domain.Incident{
			ID:           "weather-" + a.ID,
			Title:        a.Properties.Event,
			Description:  desc,
			Type:         domain.TypeWeather,
			Severity:     sev,
			Location:     &pt,
			LocationName: a.Properties.AreaDesc,
			Timestamp:    ts,
			Source:       "NOAA",
		}))
		if len(out) == maxWeatherAlerts {
			break
		}
	}
	return out, nil
}

func nwsSeverity(v string) (domain.Severity, bool) {
	switch v {
	case "Extreme":
		return domain.SeverityCritical, true
	case "Severe":
		return domain.SeverityHigh, true
	case "Moderate":
		return domain.SeverityMedium, true
	}
	return "", false
}

// alertPoint places an alert at its geometry's centroid, falling back to
// the region named by the first UGC code.
func alertPoint(a nwsAlert) domain.Point {
	if g := a.Geometry; g != nil {
		switch g.Type {
		case "Polygon":
			var coords [][][]float64
			if json.Unmarshal(g.Coordinates, &coords) == nil {
				if p, ok := domain.PolygonCentroid(coords); ok {
					return p
				}
			}
		case "MultiPolygon":
			var coords [][][][]float64
			if json.Unmarshal(g.Coordinates, &coords) == nil {
				if p, ok := domain.MultiPolygonCentroid(coords); ok {
					return p
				}
			}
		}
	}
	var prefix string
	if ugc := a.Properties.Geocode.UGC; len(ugc) > 0 && len(ugc[0]) >= 2 {
		prefix = ugc[0][:2]
	}
	return domain.RegionPoint(prefix, a.ID)
}

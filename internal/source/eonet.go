package source

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

type eonetEvent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Categories  []struct {
		Title string `json:"title"`
	} `json:"categories"`
	Geometry []struct {
		Date        time.Time       `json:"date"`
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	} `json:"geometry"`
}

// point returns the first geometry as a point. Polygons are reduced to the
// centroid of their outer ring.
func (e eonetEvent) point() (domain.Point, bool) {
	if len(e.Geometry) == 0 {
		return domain.Point{}, false
	}
	g := e.Geometry[0]
	if g.Type == "Polygon" {
		var coords [][][]float64
		if json.Unmarshal(g.Coordinates, &coords) != nil {
			return domain.Point{}, false
		}
		return domain.PolygonCentroid(coords)
	}
	var coords []float64
	if json.Unmarshal(g.Coordinates, &coords) != nil || len(coords) < 2 {
		return domain.Point{}, false
	}
	return domain.Point{Lat: coords[1], Lon: coords[0]}, true
}

// EONET polls NASA's Earth Observatory Natural Event Tracker.
type EONET struct {
	url     string
	fetcher *Fetcher
}

// NewEONET creates the NASA EONET adapter.
func NewEONET(d Deps) *EONET {
	return &EONET{url: d.Catalog.Endpoints.EONET, fetcher: d.Fetcher}
}

func (s *EONET) Name() string { return "NASA" }

func (s *EONET) Fetch(ctx context.Context) ([]domain.Incident, error) {
	var resp struct {
		Events []eonetEvent `json:"events"`
	}
	if err := s.fetcher.GetJSON(ctx, s.url, &resp); err != nil {
		return nil, err
	}

	var out []domain.Incident
	for _, e := range resp.Events {
		pt, ok := e.point()
		if !ok || (pt.Lat == 0 && pt.Lon == 0) {
			continue
		}
		sev := domain.SeverityMedium
		if len(e.Categories) > 0 && strings.Contains(strings.ToLower(e.Categories[0].Title), "fire") {
			sev = domain.SeverityHigh
		}
		desc := e.Description
		if desc == "" {
			desc = e.Title
		}
		out = append(out, domain.Normalize(domain.Incident{
			ID:            "nasa-" + e.ID,
			Title:         e.Title,
			Description:   desc,
			Type:          domain.TypeWeather,
			Severity:      sev,
			Location:      &pt,
			LocationName:  e.Title,
			Timestamp:     e.Geometry[0].Date,
			Source:        "NASA EONET",
			LivestreamURL: e.Link,
		}))
	}
	return out, nil
}

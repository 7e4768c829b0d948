package source

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

type monitoredCity struct {
	name    string
	lat     float64
	lon     float64
	country string
}

var monitoredCities = []monitoredCity{
	{"Beijing", 39.9042, 116.4074, "CN"},
	{"Delhi", 28.7041, 77.1025, "IN"},
	{"Mumbai", 19.0760, 72.8777, "IN"},
	{"Shanghai", 31.2304, 121.4737, "CN"},
	{"Seoul", 37.5665, 126.9780, "KR"},
	{"Jakarta", -6.2088, 106.8456, "ID"},
	{"Manila", 14.5995, 120.9842, "PH"},
	{"Bangkok", 13.7563, 100.5018, "TH"},
	{"Los Angeles", 34.0522, -118.2437, "US"},
	{"Mexico City", 19.4326, -99.1332, "MX"},
	{"Cairo", 30.0444, 31.2357, "EG"},
	{"Lahore", 31.5497, 74.3436, "PK"},
}

type airQualityResponse struct {
	Current struct {
		USAQI *float64 `json:"us_aqi"`
		PM25  *float64 `json:"pm2_5"`
	} `json:"current"`
}

// aqiBand grades a US AQI reading. ok is false at or below 100.
func aqiBand(aqi float64) (category string, sev domain.Severity, ok bool) {
	switch {
	case aqi > 300:
		return "Hazardous", domain.SeverityCritical, true
	case aqi > 200:
		return "Very Unhealthy", domain.SeverityHigh, true
	case aqi > 150:
		return "Unhealthy", domain.SeverityHigh, true
	case aqi > 100:
		return "Unhealthy for Sensitive Groups", domain.SeverityMedium, true
	}
	return "", "", false
}

// AirQuality polls Open-Meteo for current US AQI in a fixed set of cities
// and reports those above the healthy range.
type AirQuality struct {
	url         string
	fetcher     *Fetcher
	concurrency int
	logger      *slog.Logger
}

// NewAirQuality creates the air quality adapter.
func NewAirQuality(d Deps) *AirQuality {
	return &AirQuality{
		url:         d.Catalog.Endpoints.AirQuality,
		fetcher:     d.Fetcher,
		concurrency: d.concurrency(),
		logger:      d.logger(),
	}
}

func (s *AirQuality) Name() string { return "Air Quality" }

func (s *AirQuality) Fetch(ctx context.Context) ([]domain.Incident, error) {
	now := domain.Now()
	results := make([]*domain.Incident, len(monitoredCities))
	errs := make([]error, len(monitoredCities))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, c := range monitoredCities {
		g.Go(func() error {
			var resp airQualityResponse
			if err := s.fetcher.GetJSON(ctx, s.cityURL(c), &resp); err != nil {
				s.logger.Warn("air quality fetch failed", "city", c.name, "error", err)
				errs[i] = fmt.Errorf("%s: %w", c.name, err)
				return nil
			}
			results[i] = cityIncident(c, resp, now)
			return nil
		})
	}
	_ = g.Wait()

	var out []domain.Incident
	var failed []error
	for i := range monitoredCities {
		if results[i] != nil {
			out = append(out, *results[i])
		}
		if errs[i] != nil {
			failed = append(failed, errs[i])
		}
	}
	return out, domain.FeedErrors(len(monitoredCities), failed)
}

func (s *AirQuality) cityURL(c monitoredCity) string {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(c.lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(c.lon, 'f', -1, 64))
	q.Set("current", "pm10,pm2_5,us_aqi")
	q.Set("timezone", "auto")
	return s.url + "?" + q.Encode()
}

// cityIncident returns nil when the reading is missing or healthy. IDs are
// bucketed by hour so a persistent episode updates one row per hour.
func cityIncident(c monitoredCity, resp airQualityResponse, now time.Time) *domain.Incident {
	if resp.Current.USAQI == nil {
		return nil
	}
	aqi := *resp.Current.USAQI
	category, sev, ok := aqiBand(aqi)
	if !ok {
		return nil
	}
	pm25 := "N/A"
	if resp.Current.PM25 != nil {
		pm25 = strconv.FormatFloat(*resp.Current.PM25, 'f', 1, 64)
	}
	inc := domain.Normalize(domain.Incident{
		ID:           fmt.Sprintf("airquality-%s-%s", domain.Slug(c.name), domain.HourBucket(now)),
		Title:        "Poor Air Quality: " + c.name,
		Description:  fmt.Sprintf("%s - AQI: %d, PM2.5: %s μg/m³", category, int(math.Round(aqi)), pm25),
		Type:         domain.TypeEnvironmental,
		Severity:     sev,
		Location:     domain.At(c.lat, c.lon),
		LocationName: c.name + ", " + c.country,
		Timestamp:    now,
		Source:       "Open-Meteo Air Quality",
	})
	return &inc
}

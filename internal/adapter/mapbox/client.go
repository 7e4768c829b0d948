// Package mapbox resolves place names the built-in geocoding tables do not
// know through the Mapbox Geocoding API.
package mapbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
	"github.com/couchcryptid/incident-fusion-service/internal/observability"
)

const defaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

const (
	// placeTypes limits matches to the granularity incident sources name:
	// countries for advisories, cities and towns for aviation reports.
	placeTypes = "country,region,place,locality"

	// candidates is how many features are requested; the first one at or
	// above minRelevance wins.
	candidates   = 3
	minRelevance = 0.5
)

// APIError is a non-200 response from Mapbox.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mapbox API error: status %d: %s", e.StatusCode, e.Message)
}

// RateLimited reports whether Mapbox throttled the request.
func (e *APIError) RateLimited() bool { return e.StatusCode == http.StatusTooManyRequests }

// Client implements domain.Geocoder using the Mapbox Geocoding API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox geocoding client.
func NewClient(token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		metrics:    metrics,
		logger:     logger,
	}
}

// ForwardGeocode converts a place name, optionally qualified by a region or
// country, to coordinates. Weak matches are reported as no match.
func (c *Client) ForwardGeocode(ctx context.Context, name, region string) (domain.GeocodingResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.GeocodingResult{}, nil
	}
	q := query(name, strings.TrimSpace(region))

	start := time.Now()
	result, err := c.lookup(ctx, q)
	c.metrics.GeocodeAPIDuration.WithLabelValues("forward").Observe(time.Since(start).Seconds())
	c.metrics.GeocodeRequests.WithLabelValues("forward", c.outcome(q, result, err)).Inc()
	return result, err
}

func query(name, region string) string {
	if region == "" {
		return name
	}
	return name + ", " + region
}

func (c *Client) outcome(q string, result domain.GeocodingResult, err error) string {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.RateLimited():
		c.logger.Warn("mapbox rate limit reached", "query", q)
		return "rate_limited"
	case err != nil:
		c.logger.Debug("mapbox forward geocode failed", "query", q, "error", err)
		return "error"
	case result.FormattedAddress == "":
		return "empty"
	default:
		return "success"
	}
}

func (c *Client) endpoint(q string) string {
	params := url.Values{
		"access_token": {c.token},
		"limit":        {fmt.Sprint(candidates)},
		"types":        {placeTypes},
	}
	return fmt.Sprintf("%s/%s.json?%s", c.baseURL, url.PathEscape(q), params.Encode())
}

func (c *Client) lookup(ctx context.Context, q string) (domain.GeocodingResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(q), nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// *url.Error embeds the request URL, access token included.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return domain.GeocodingResult{}, fmt.Errorf("forward geocode %q: %w", q, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.GeocodingResult{}, readAPIError(resp)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("decode response: %w", err)
	}
	return best(body.Features), nil
}

func readAPIError(resp *http.Response) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}

	var msg struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &msg) == nil && msg.Message != "" {
		apiErr.Message = msg.Message
	}
	return apiErr
}

// best returns the first feature with a usable center at or above
// minRelevance, or a zero result.
func best(features []feature) domain.GeocodingResult {
	for _, f := range features {
		if f.Relevance < minRelevance || len(f.Center) != 2 {
			continue
		}
		return domain.GeocodingResult{
			Lat:              f.Center[1],
			Lon:              f.Center[0],
			FormattedAddress: f.PlaceName,
			PlaceName:        f.Text,
			Confidence:       f.Relevance,
		}
	}
	return domain.GeocodingResult{}
}

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Center    []float64 `json:"center"` // [lon, lat]
	PlaceName string    `json:"place_name"`
	Text      string    `json:"text"`
	Relevance float64   `json:"relevance"`
}

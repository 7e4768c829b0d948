package domain

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

type placeMatcher struct {
	place Place
	re    *regexp.Regexp
}

var (
	countryMatchers = compileMatchers(countries)
	vendorMatchers  = compileMatchers(vendors)
)

// compileMatchers builds one word-bounded alternation per place so that a
// short keyword like "uk" does not fire inside an unrelated word.
func compileMatchers(places []Place) []placeMatcher {
	out := make([]placeMatcher, 0, len(places))
	for _, p := range places {
		quoted := make([]string, len(p.Keywords))
		for i, kw := range p.Keywords {
			quoted[i] = regexp.QuoteMeta(kw)
		}
		out = append(out, placeMatcher{
			place: p,
			re:    regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`),
		})
	}
	return out
}

// GeocodeText returns the first country whose keywords appear in text.
func GeocodeText(text string) (Place, bool) {
	lower := strings.ToLower(text)
	for _, m := range countryMatchers {
		if m.re.MatchString(lower) {
			return m.place, true
		}
	}
	return Place{}, false
}

// LookupPlace resolves an exact country or region name, alias, or keyword.
func LookupPlace(name string) (Place, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Place{}, false
	}
	if alias, ok := placeAliases[key]; ok {
		key = alias
	}
	for _, p := range countries {
		if strings.ToLower(p.Name) == key {
			return p, true
		}
	}
	for _, p := range regions {
		if strings.ToLower(p.Name) == key {
			return p, true
		}
	}
	for _, p := range countries {
		for _, kw := range p.Keywords {
			if kw == key {
				return p, true
			}
		}
	}
	return Place{}, false
}

// GeocodeVendor places a vulnerability at its vendor's headquarters. The
// CPE vendor names are checked before the free-text description, and
// unmatched vulnerabilities land in Silicon Valley.
func GeocodeVendor(description string, cpeVendors []string) Place {
	for _, v := range cpeVendors {
		lower := strings.ToLower(v)
		for _, p := range vendors {
			for _, kw := range p.Keywords {
				if strings.Contains(lower, kw) {
					return p
				}
			}
		}
	}
	lower := strings.ToLower(description)
	for _, m := range vendorMatchers {
		if m.re.MatchString(lower) {
			return m.place
		}
	}
	return defaultVendorPlace
}

// RegionCenter returns the center of a US state, territory, or marine zone
// by its two-letter code.
func RegionCenter(code string) (Point, bool) {
	p, ok := regionCenters[strings.ToUpper(code)]
	return p, ok
}

// OffsetFor derives a stable offset of at most half a degree per axis from
// id, so alerts sharing a region center do not stack on one point.
func OffsetFor(id string) (dLat, dLon float64) {
	seed := 0
	for i := 0; i < len(id); i++ {
		seed += int(id[i])
	}
	dLat = float64(seed%100)/100 - 0.5
	dLon = float64((seed*7)%100)/100 - 0.5
	return dLat, dLon
}

// RegionPoint places id inside the region identified by code. Unknown codes
// fall back to the center of the contiguous United States.
func RegionPoint(code, id string) Point {
	center, ok := RegionCenter(code)
	if !ok {
		return ContiguousUSCenter
	}
	dLat, dLon := OffsetFor(id)
	return Point{Lat: center.Lat + dLat, Lon: center.Lon + dLon}
}

// PolygonCentroid averages the vertices of a GeoJSON polygon's outer ring.
func PolygonCentroid(coords [][][]float64) (Point, bool) {
	if len(coords) == 0 {
		return Point{}, false
	}
	return ringMean(coords[:1])
}

// MultiPolygonCentroid averages the outer-ring vertices of every polygon.
// The result is not area-weighted.
func MultiPolygonCentroid(coords [][][][]float64) (Point, bool) {
	rings := make([][][]float64, 0, len(coords))
	for _, poly := range coords {
		if len(poly) > 0 {
			rings = append(rings, poly[0])
		}
	}
	return ringMean(rings)
}

func ringMean(rings [][][]float64) (Point, bool) {
	var lat, lon float64
	n := 0
	for _, ring := range rings {
		for _, c := range ring {
			if len(c) < 2 {
				continue
			}
			lon += c[0]
			lat += c[1]
			n++
		}
	}
	if n == 0 {
		return Point{}, false
	}
	return Point{Lat: lat / float64(n), Lon: lon / float64(n)}, true
}

// ResolvePlace looks name up in the built-in tables and falls back to the
// external geocoder when one is configured. Geocoder failures degrade to
// "not found" rather than erroring.
func ResolvePlace(ctx context.Context, name, region string, geocoder Geocoder, logger *slog.Logger) (Place, bool) {
	if p, ok := LookupPlace(name); ok {
		return p, true
	}
	if geocoder == nil || strings.TrimSpace(name) == "" {
		return Place{}, false
	}

	result, err := geocoder.ForwardGeocode(ctx, name, region)
	if err != nil {
		logger.Warn("forward geocoding failed", "location", name, "region", region, "error", err)
		return Place{}, false
	}
	if result.Lat == 0 && result.Lon == 0 {
		return Place{}, false
	}
	placeName := result.PlaceName
	if placeName == "" {
		placeName = name
	}
	return Place{Name: placeName, Lat: result.Lat, Lon: result.Lon}, true
}

package domain

import (
	"math"
	"strings"
)

const (
	earthRadiusKm = 6371.0

	// DuplicateDistanceKm and DuplicateSimilarity are strict bounds: two
	// incidents are duplicates only when closer than the distance and more
	// similar than the ratio.
	DuplicateDistanceKm = 5.0
	DuplicateSimilarity = 0.7
)

// HaversineKm returns the great-circle distance between a and b.
func HaversineKm(a, b Point) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

// TitleSimilarity is the Jaccard index of the whitespace-separated,
// lower-cased word sets of a and b. Two empty titles are not similar.
func TitleSimilarity(a, b string) float64 {
	wa := wordSet(a)
	wb := wordSet(b)
	union := len(wa)
	inter := 0
	for w := range wb {
		if wa[w] {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func wordSet(s string) map[string]bool {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

// IsDuplicate reports whether a and b describe the same event. Incidents
// without a location are never duplicates.
func IsDuplicate(a, b Incident) bool {
	if a.Location == nil || b.Location == nil {
		return false
	}
	if HaversineKm(*a.Location, *b.Location) >= DuplicateDistanceKm {
		return false
	}
	return TitleSimilarity(a.Title, b.Title) > DuplicateSimilarity
}

// Dedupe keeps the first occurrence of each event and drops later incidents
// that duplicate any already-kept one. Input order is preserved.
func Dedupe(incidents []Incident) []Incident {
	kept := make([]Incident, 0, len(incidents))
	for _, inc := range incidents {
		dup := false
		for _, k := range kept {
			if IsDuplicate(inc, k) {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, inc)
		}
	}
	return kept
}

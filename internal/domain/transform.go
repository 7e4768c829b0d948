package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize enforces the data-model limits on an adapter's output: titles and
// descriptions are truncated, enums are closed, timestamps are UTC and a
// zero timestamp falls back to the ingestion clock.
func Normalize(inc Incident) Incident {
	inc.Title = Truncate(strings.TrimSpace(inc.Title), MaxTitleLen)
	inc.Description = Truncate(strings.TrimSpace(inc.Description), MaxDescriptionLen)
	inc.Type = ParseIncidentType(string(inc.Type))
	inc.Severity = ParseSeverity(string(inc.Severity), SeverityLow)
	if inc.Timestamp.IsZero() {
		inc.Timestamp = Now()
	}
	inc.Timestamp = inc.Timestamp.UTC()
	if inc.Location == nil && inc.LocationName == "" {
		inc.LocationName = "Global"
	}
	return inc
}

// Truncate cuts s to at most n runes without splitting a multi-byte character.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// HashID produces a deterministic ID: the prefix followed by the first
// 16 hex characters of sha256 over the key parts. The same upstream
// event therefore maps to the same row on every cycle.
func HashID(prefix string, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return prefix + "-" + hex.EncodeToString(hash[:8])
}

// Slug lower-cases s and replaces runs of non-alphanumerics with a hyphen.
func Slug(s string) string {
	return strings.Trim(slugRe.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// HourBucket formats t as YYYYMMDDHH in UTC.
func HourBucket(t time.Time) string {
	return t.UTC().Format("2006010215")
}

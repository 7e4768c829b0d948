// Package domain models the incidents the fusion service aggregates from
// public event feeds, and the pure rules applied to them between fetch and
// storage.
//
// # Incident Model
//
// Every source adapter emits [Incident] values: a title (at most 200 runes),
// a plain-text description (at most 300 runes), a type from a closed set, an
// ordered severity, an optional coordinate, a free-text location name, the
// upstream event time and a provenance label. [Normalize] enforces these
// limits on adapter output.
//
// Severity order:
//
//	low < medium < high < critical
//
// # Classification
//
// News items carry no structured category. [Classify] applies an ordered
// rule list to the lower-cased title and description; the first match wins:
//
//	military > war-context military > terror > mass-casualty violence >
//	protest > natural disaster > financial crisis > financial pressure >
//	political > maritime interdiction > other
//
// Protest severity is graded on one ladder, [ProtestSeverity], shared by the
// news classifier and the dedicated protest monitor.
//
// # Geocoding
//
// Free text is placed by ordered keyword tables ([GeocodeText]); the first
// country whose keywords appear wins. Vulnerabilities are placed at their
// vendor's headquarters ([GeocodeVendor]). NWS alerts without geometry fall
// back to a state or marine-zone center plus a stable per-alert offset
// ([RegionPoint]) so co-located alerts stay distinguishable on a map.
//
// # Deduplication
//
// Two incidents are duplicates when they lie less than 5 km apart by the
// haversine formula and the Jaccard similarity of their title word sets
// exceeds 0.7. [Dedupe] keeps the first occurrence in input order.
//
// # Retention
//
// Incidents age out by class:
//
//	standard   24h  default
//	extended   48h  sources with lagging timestamps (tech news)
//	strategic   7d  political and business incidents
//	standing    7d  long-lived events; never filtered on ingest
//
// # ID Generation
//
// IDs are the source prefix plus the upstream identifier when one exists,
// otherwise a SHA-256 prefix of the identifying fields ([HashID]). The same
// upstream event always maps to the same row, which makes the store's upsert
// idempotent across cycles.
package domain

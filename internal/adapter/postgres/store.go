// Package postgres persists incidents in a single PostgreSQL table keyed by
// incident id.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq" // registers the "postgres" driver

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS incidents (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	type           TEXT NOT NULL,
	severity       TEXT NOT NULL,
	lat            DOUBLE PRECISION,
	lon            DOUBLE PRECISION,
	location_name  TEXT NOT NULL DEFAULT '',
	timestamp      TIMESTAMPTZ NOT NULL,
	source         TEXT NOT NULL,
	livestream_url TEXT NOT NULL DEFAULT '',
	retention      TEXT NOT NULL DEFAULT 'standard',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS incidents_timestamp_idx ON incidents (timestamp DESC);
`

const upsertIncident = `
INSERT INTO incidents (id, title, description, type, severity, lat, lon, location_name, timestamp, source, livestream_url, retention)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (id) DO UPDATE SET
	title = EXCLUDED.title,
	description = EXCLUDED.description,
	type = EXCLUDED.type,
	severity = EXCLUDED.severity,
	lat = EXCLUDED.lat,
	lon = EXCLUDED.lon,
	location_name = EXCLUDED.location_name,
	timestamp = EXCLUDED.timestamp,
	source = EXCLUDED.source,
	livestream_url = EXCLUDED.livestream_url,
	retention = EXCLUDED.retention`

const (
	purgeClass   = `DELETE FROM incidents WHERE retention = $1 AND timestamp < $2`
	deleteSource = `DELETE FROM incidents WHERE source = $1`
	listAll      = `
SELECT id, title, description, type, severity, lat, lon, location_name, timestamp, source, livestream_url, retention
FROM incidents
ORDER BY timestamp DESC`
)

// Store reads and writes the incidents table.
// It implements pipeline.Store.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open connects to dsn, verifies the connection and returns a Store.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("connected to postgres")
	return NewStore(db, logger), nil
}

// NewStore wraps an existing connection pool.
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// EnsureSchema creates the incidents table and its index if they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Upsert inserts inc or replaces the row with the same id. created_at keeps
// its first-insert value.
func (s *Store) Upsert(ctx context.Context, inc domain.Incident) error {
	var lat, lon any
	if inc.Location != nil {
		lat, lon = inc.Location.Lat, inc.Location.Lon
	}
	_, err := s.db.ExecContext(ctx, upsertIncident,
		inc.ID,
		inc.Title,
		inc.Description,
		string(inc.Type),
		string(inc.Severity),
		lat,
		lon,
		inc.LocationName,
		inc.Timestamp.UTC(),
		inc.Source,
		inc.LivestreamURL,
		string(domain.RetentionClassOf(inc)),
	)
	if err != nil {
		return fmt.Errorf("upsert incident %s: %w", inc.ID, err)
	}
	return nil
}

// Purge deletes the rows of each retention class older than that class's
// cutoff. Every class is attempted; failures are joined.
func (s *Store) Purge(ctx context.Context, cutoffs map[domain.RetentionClass]time.Time) (int64, error) {
	var (
		total int64
		errs  []error
	)
	for _, class := range domain.RetentionClasses {
		cutoff, ok := cutoffs[class]
		if !ok {
			continue
		}
		res, err := s.db.ExecContext(ctx, purgeClass, string(class), cutoff.UTC())
		if err != nil {
			errs = append(errs, fmt.Errorf("purge %s incidents: %w", class, err))
			continue
		}
		n, _ := res.RowsAffected()
		if n > 0 {
			s.logger.Debug("purged expired incidents", "retention", class, "rows", n)
		}
		total += n
	}
	return total, errors.Join(errs...)
}

// DeleteSource removes every row stored under source.
func (s *Store) DeleteSource(ctx context.Context, source string) (int64, error) {
	res, err := s.db.ExecContext(ctx, deleteSource, source)
	if err != nil {
		return 0, fmt.Errorf("delete source %q: %w", source, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ListIncidents returns every stored incident, newest first.
func (s *Store) ListIncidents(ctx context.Context) ([]domain.Incident, error) {
	rows, err := s.db.QueryContext(ctx, listAll)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]domain.Incident, 0)
	for rows.Next() {
		var (
			inc       domain.Incident
			typ, sev  string
			retention string
			lat, lon  sql.NullFloat64
		)
		if err := rows.Scan(&inc.ID, &inc.Title, &inc.Description, &typ, &sev, &lat, &lon,
			&inc.LocationName, &inc.Timestamp, &inc.Source, &inc.LivestreamURL, &retention); err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		inc.Type = domain.ParseIncidentType(typ)
		inc.Severity = domain.ParseSeverity(sev, domain.SeverityLow)
		inc.Retention = domain.RetentionClass(retention)
		if lat.Valid && lon.Valid {
			inc.Location = domain.At(lat.Float64, lon.Float64)
		}
		inc.Timestamp = inc.Timestamp.UTC()
		incidents = append(incidents, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incidents: %w", err)
	}
	return incidents, nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
